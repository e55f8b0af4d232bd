package ports

// Level controls logger verbosity.
type Level int

const (
	// LevelInfo is the default verbosity.
	LevelInfo Level = iota
	// LevelVerbose enables the resolver's traversal trace.
	LevelVerbose
	// LevelDebug additionally annotates records with source positions.
	LevelDebug
)

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)
	SetLevel(level Level)
}
