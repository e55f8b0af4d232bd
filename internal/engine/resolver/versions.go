package resolver

import (
	"context"
	"sort"
	"sync"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

// DefaultWorkers bounds the remote fan-out of version resolution.
const DefaultWorkers = 8

// TagMove reports that a tag pinned in the lockfile no longer points at the
// commit recorded there. Tags are treated as immutable; a move is surfaced as
// a notice, never silently adopted without a remote check.
type TagMove struct {
	Key       domain.FormulaKey
	Tag       string
	OldCommit string
	NewCommit string
}

// String renders the notice for display.
func (m TagMove) String() string {
	return "tag " + m.Tag + " of " + m.Key.String() + " moved from " + m.OldCommit + " to " + m.NewCommit
}

// VersionResolver pins every formula of a resolution to a concrete tag and
// commit. Formulas are independent at this stage, so the remote lookups run
// concurrently with a bounded worker count.
type VersionResolver struct {
	tags    ports.TagService
	log     ports.Logger
	workers int
}

// NewVersionResolver creates a version resolver with the given remote fan-out.
func NewVersionResolver(tags ports.TagService, log ports.Logger, workers int) *VersionResolver {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &VersionResolver{tags: tags, log: log, workers: workers}
}

// ResolveAll fills in Tag and Commit on every formula of the resolution.
//
// A formula pinned to an exact version that the lockfile already records is
// reused as-is without touching the remote. All other formulas list the
// remote tags and select the highest release satisfying the merged
// constraint; when the selected tag is already recorded, its commit is
// reused without a second round trip. forceRemoteCheck disables commit
// reuse entirely, re-resolves the recorded tag and reports any drift as a
// TagMove. lock may be nil when no requirements file exists yet.
func (v *VersionResolver) ResolveAll(ctx context.Context, res *Resolution, lock *domain.Lockfile, forceRemoteCheck bool) ([]TagMove, error) {
	var (
		mu    sync.Mutex
		moves []TagMove
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for _, key := range res.Order {
		formula := res.Formulas[key]
		g.Go(func() error {
			move, err := v.resolveOne(ctx, formula, lock, forceRemoteCheck)
			if err != nil {
				return err
			}
			if move != nil {
				mu.Lock()
				moves = append(moves, *move)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(moves, func(i, j int) bool {
		return moves[i].Key.String() < moves[j].Key.String()
	})
	return moves, nil
}

func (v *VersionResolver) resolveOne(ctx context.Context, formula *domain.ResolvedFormula, lock *domain.Lockfile, forceRemoteCheck bool) (*TagMove, error) {
	if lock != nil && formula.Constraint.Op == domain.OpEq {
		if rec, ok := lock.Find(formula.Key); ok && domain.CompareVersions(domain.Version(rec.Tag), formula.Constraint.Version) == 0 {
			formula.Tag, formula.Commit = rec.Tag, rec.Commit
			if !forceRemoteCheck {
				v.log.Debug("reusing pinned " + formula.Key.String() + "==" + rec.Tag)
				return nil, nil
			}
			return v.recheck(ctx, formula, rec)
		}
	}

	names, err := v.tags.ListTags(ctx, formula.Key)
	if err != nil {
		return nil, zerr.With(err, "formula", formula.Key.String())
	}
	tag, err := selectTag(formula.Constraint, names)
	if err != nil {
		return nil, zerr.With(err, "formula", formula.Key.String())
	}
	formula.Tag = tag

	// The selected tag may already be pinned; its recorded commit is reused
	// on the immutability assumption unless a recheck was requested.
	if lock != nil {
		if rec, ok := lock.Find(formula.Key); ok && rec.Tag == tag && rec.Commit != "" {
			formula.Commit = rec.Commit
			if !forceRemoteCheck {
				v.log.Debug("reusing recorded commit for " + formula.Key.String() + "==" + tag)
				return nil, nil
			}
			return v.recheck(ctx, formula, rec)
		}
	}

	commit, err := v.tags.ResolveTag(ctx, formula.Key, tag)
	if err != nil {
		return nil, zerr.With(err, "formula", formula.Key.String())
	}

	v.log.Debug("pinned " + formula.Key.String() + " to " + tag + " (" + commit + ")")
	formula.Commit = commit
	return nil, nil
}

// recheck re-resolves a lockfile-pinned tag against the remote and reports
// commit drift. The fresh commit wins so that the rewritten lockfile is
// accurate again.
func (v *VersionResolver) recheck(ctx context.Context, formula *domain.ResolvedFormula, rec domain.LockRecord) (*TagMove, error) {
	commit, err := v.tags.ResolveTag(ctx, formula.Key, rec.Tag)
	if err != nil {
		return nil, zerr.With(err, "formula", formula.Key.String())
	}
	formula.Commit = commit
	if rec.Commit == "" || rec.Commit == commit {
		return nil, nil
	}
	return &TagMove{Key: formula.Key, Tag: rec.Tag, OldCommit: rec.Commit, NewCommit: commit}, nil
}

// selectTag picks the tag satisfying the constraint. Exact pins match any tag
// with the pinned version, pre-releases included. Bounds and the unconstrained
// case only consider plain releases and pick the highest.
func selectTag(c domain.Constraint, names []string) (string, error) {
	if c.Op == domain.OpEq {
		for _, name := range names {
			if domain.CompareVersions(domain.Version(name), c.Version) == 0 {
				return name, nil
			}
		}
		return "", zerr.With(domain.ErrNoMatchingTag, "constraint", c.String())
	}

	best := ""
	for _, name := range names {
		version := domain.Version(name)
		if !version.IsRelease() || !c.Allows(version) {
			continue
		}
		if best == "" || domain.Version(best).Less(version) {
			best = name
		}
	}
	if best == "" {
		return "", zerr.With(domain.ErrNoMatchingTag, "constraint", c.String())
	}
	return best, nil
}
