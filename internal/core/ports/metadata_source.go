package ports

import (
	"context"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
)

// MetadataSource fetches the declared metadata of a formula by key. The graph
// resolver calls it at most once per formula per run.
//
//go:generate mockgen -source=metadata_source.go -destination=mocks/mock_metadata_source.go -package=mocks
type MetadataSource interface {
	// FetchMetadata returns the formula's parsed metadata, or
	// domain.ErrFormulaNotFound when the source has none for the key.
	FetchMetadata(ctx context.Context, key domain.FormulaKey) (*domain.FormulaMetadata, error)
}
