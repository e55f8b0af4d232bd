// Package lockfile persists the requirements file pinning resolved formulas.
package lockfile

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

// FileName is the requirements file written next to metadata.yml.
const FileName = "formula-requirements.txt"

// Store implements ports.LockfileStore on the local filesystem.
type Store struct {
	log ports.Logger
}

// NewStore creates a requirements file store.
func NewStore(log ports.Logger) *Store {
	return &Store{log: log}
}

// Path returns the requirements file location under rootDir.
func Path(rootDir string) string {
	return filepath.Join(rootDir, FileName)
}

// Load reads and parses the requirements file.
func (s *Store) Load(rootDir string) (*domain.Lockfile, error) {
	path := Path(rootDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, zerr.With(domain.ErrRequirementsNotFound, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read requirements file"), "path", path)
	}

	lock, err := domain.ParseLockfile(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	s.log.Debug("loaded " + path)
	return lock, nil
}

// Write replaces the requirements file atomically: the content lands in a
// temporary file first and is renamed into place.
func (s *Store) Write(rootDir string, lock *domain.Lockfile) error {
	path := Path(rootDir)

	tmp, err := os.CreateTemp(rootDir, FileName+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary requirements file"), "path", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(lock.Marshal()); err != nil {
		tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to write requirements file"), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close requirements file"), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace requirements file"), "path", path)
	}
	s.log.Debug("wrote " + path)
	return nil
}
