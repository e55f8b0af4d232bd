package ports

import (
	"context"
	"io"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
)

// Fetcher materializes resolved formulas into the local vendor tree and links
// their exports into the salt root.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Prepare sets up the vendor directory layout under rootDir. The salt root
	// is rebuilt from scratch since it only holds links; with overwrite the
	// formula working copies are recreated as well.
	Prepare(rootDir string, overwrite bool) error

	// Fetch materializes the formula's working copy at its pinned commit, or
	// at its tag when no commit is known. Command output is streamed to out.
	// The cached result reports that the working copy was already at the
	// requested commit and no remote traffic happened.
	Fetch(ctx context.Context, formula *domain.ResolvedFormula, rootDir string, out io.Writer) (cached bool, err error)

	// Link links the formula's exports and dynamic module directories into
	// the salt root. Must run after Fetch for the same formula.
	Link(formula *domain.ResolvedFormula, rootDir string) error

	// Prune removes working copies of formulas absent from the current
	// resolution.
	Prune(rootDir string, keep []domain.FormulaKey) error
}
