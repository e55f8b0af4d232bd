package ports

import "github.com/ministryofjustice/salt-shaker/internal/core/domain"

// LockfileStore persists the requirements file that pins resolved formulas.
//
//go:generate mockgen -source=lockfile_store.go -destination=mocks/mock_lockfile_store.go -package=mocks
type LockfileStore interface {
	// Load reads the requirements file under rootDir. Returns
	// domain.ErrRequirementsNotFound when no file exists.
	Load(rootDir string) (*domain.Lockfile, error)

	// Write replaces the requirements file under rootDir.
	Write(rootDir string, lock *domain.Lockfile) error
}
