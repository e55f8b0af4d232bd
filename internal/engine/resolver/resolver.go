// Package resolver implements recursive formula dependency resolution: the
// metadata graph walk that merges constraints, and the version resolution
// that pins each formula to a tag and commit.
package resolver

import (
	"context"

	"go.trai.ch/zerr"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

// Resolution is the outcome of a graph walk: one entry per formula reachable
// from the root metadata, carrying the merged constraint, plus the order in
// which formulas were first encountered.
type Resolution struct {
	Formulas map[domain.FormulaKey]*domain.ResolvedFormula
	Order    []domain.FormulaKey
}

// Keys returns the formula keys in first-encounter order.
func (r *Resolution) Keys() []domain.FormulaKey {
	return r.Order
}

// Resolver walks the dependency graph depth-first and accumulates one merged
// constraint per formula. The walk is strictly sequential so that constraint
// precedence only depends on declaration order, never on scheduling.
type Resolver struct {
	source ports.MetadataSource
	log    ports.Logger
}

// NewResolver creates a graph resolver reading formula metadata from source.
func NewResolver(source ports.MetadataSource, log ports.Logger) *Resolver {
	return &Resolver{source: source, log: log}
}

// walkState carries the mutable bookkeeping of one Resolve call.
type walkState struct {
	resolution *Resolution
	// declaredIn records which dependency list first constrained each
	// formula, for conflict diagnostics.
	declaredIn map[domain.FormulaKey]string
	// expanded marks formulas whose own dependency list was already walked.
	// Metadata is fetched at most once per formula; it also breaks cycles.
	expanded map[domain.FormulaKey]bool
}

// Resolve walks every dependency reachable from the root metadata and returns
// the merged resolution. Tags and commits are left unset; see VersionResolver.
func (r *Resolver) Resolve(ctx context.Context, root *domain.FormulaMetadata) (*Resolution, error) {
	state := &walkState{
		resolution: &Resolution{Formulas: map[domain.FormulaKey]*domain.ResolvedFormula{}},
		declaredIn: map[domain.FormulaKey]string{},
		expanded:   map[domain.FormulaKey]bool{},
	}
	if err := r.walk(ctx, state, "root", root.Dependencies); err != nil {
		return nil, err
	}
	return state.resolution, nil
}

// ResolvePinned builds a resolution directly from lockfile records, without
// any metadata traversal. Every record becomes an exact-version entry.
func (r *Resolver) ResolvePinned(lock *domain.Lockfile) *Resolution {
	res := &Resolution{Formulas: map[domain.FormulaKey]*domain.ResolvedFormula{}}
	for _, ref := range lock.References() {
		res.Formulas[ref.Key] = &domain.ResolvedFormula{Key: ref.Key, Constraint: ref.Constraint}
		res.Order = append(res.Order, ref.Key)
	}
	return res
}

func (r *Resolver) walk(ctx context.Context, state *walkState, origin string, deps []domain.DependencyReference) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seen := make(map[domain.FormulaKey]bool, len(deps))
	for _, dep := range deps {
		if seen[dep.Key] {
			r.log.Warn("duplicate dependency " + dep.String() + " in " + origin + ", first entry wins")
			continue
		}
		seen[dep.Key] = true

		if err := r.merge(state, origin, dep); err != nil {
			return err
		}

		if state.expanded[dep.Key] {
			continue
		}
		state.expanded[dep.Key] = true

		meta, err := r.source.FetchMetadata(ctx, dep.Key)
		if err != nil {
			return zerr.With(err, "required_by", origin)
		}
		r.log.Debug("resolving dependencies of " + dep.Key.String())
		if err := r.walk(ctx, state, dep.Key.String(), meta.Dependencies); err != nil {
			return err
		}
	}
	return nil
}

// merge folds one dependency reference into the resolution state.
func (r *Resolver) merge(state *walkState, origin string, dep domain.DependencyReference) error {
	existing, ok := state.resolution.Formulas[dep.Key]
	if !ok {
		state.resolution.Formulas[dep.Key] = &domain.ResolvedFormula{
			Key:        dep.Key,
			Constraint: dep.Constraint,
		}
		state.resolution.Order = append(state.resolution.Order, dep.Key)
		state.declaredIn[dep.Key] = origin
		return nil
	}

	merged, err := domain.Merge(existing.Constraint, dep.Constraint)
	if err != nil {
		err = zerr.With(err, "formula", dep.Key.String())
		err = zerr.With(err, "first_declared_in", state.declaredIn[dep.Key])
		return zerr.With(err, "declared_in", origin)
	}
	if merged != existing.Constraint {
		r.log.Debug("tightened constraint on " + dep.Key.String() + " to " + merged.String() + " via " + origin)
		existing.Constraint = merged
	}
	return nil
}
