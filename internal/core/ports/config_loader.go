package ports

import "github.com/ministryofjustice/salt-shaker/internal/core/domain"

// ConfigLoader loads the root formula's metadata from the working directory.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and parses metadata.yml under the given root directory.
	Load(rootDir string) (*domain.FormulaMetadata, error)
}
