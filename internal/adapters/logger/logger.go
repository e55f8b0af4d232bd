// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

// Logger implements ports.Logger using log/slog. The level can be raised at
// runtime once CLI flags are parsed.
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	output io.Writer
	source bool
	mu     sync.RWMutex
}

// New creates a new Logger writing human-readable output to stderr.
func New() ports.Logger {
	l := &Logger{
		level:  &slog.LevelVar{},
		output: os.Stderr,
	}
	l.rebuild()
	return l
}

// rebuild swaps in a fresh handler for the current settings. Callers hold the
// write lock, except the constructor.
func (l *Logger) rebuild() {
	handler := slog.NewTextHandler(l.output, &slog.HandlerOptions{
		Level:     l.level,
		AddSource: l.source,
	})
	l.logger = slog.New(handler)
}

// SetOutput updates the logger's output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetLevel adjusts verbosity. LevelVerbose enables debug records,
// LevelDebug additionally annotates them with source positions.
func (l *Logger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch level {
	case ports.LevelVerbose:
		l.level.Set(slog.LevelDebug)
		l.source = false
	case ports.LevelDebug:
		l.level.Set(slog.LevelDebug)
		l.source = true
	default:
		l.level.Set(slog.LevelInfo)
		l.source = false
	}
	l.rebuild()
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error message.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", "error", err)
}
