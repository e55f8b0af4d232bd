package ports

import (
	"context"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
)

// TagService lists a formula repository's tags and resolves a tag to its
// commit identifier. Both calls are idempotent and safe to retry.
//
//go:generate mockgen -source=tags.go -destination=mocks/mock_tags.go -package=mocks
type TagService interface {
	// ListTags returns the names of every tag on the formula's repository.
	ListTags(ctx context.Context, key domain.FormulaKey) ([]string, error)

	// ResolveTag returns the commit identifier the named tag points at.
	ResolveTag(ctx context.Context, key domain.FormulaKey, tag string) (string, error)
}
