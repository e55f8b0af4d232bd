package domain

import (
	"go.trai.ch/zerr"
)

// Operator is a version comparison operator in a dependency constraint.
type Operator string

const (
	// OpNone means the dependency accepts any version.
	OpNone Operator = ""
	// OpEq pins the dependency to an exact version.
	OpEq Operator = "=="
	// OpGte constrains the dependency to the given version or higher.
	OpGte Operator = ">="
	// OpLte constrains the dependency to the given version or lower.
	OpLte Operator = "<="
)

// Constraint is an optional operator plus version bound on a formula
// dependency. The zero value means "unconstrained". Constraints are immutable;
// they are only combined through Merge.
type Constraint struct {
	Op      Operator
	Version Version
}

// ParseConstraint parses a constraint suffix such as "==v1.0.0" or ">=v2.1.0".
// The empty string parses to the unconstrained zero value.
func ParseConstraint(s string) (Constraint, error) {
	if s == "" {
		return Constraint{}, nil
	}
	if len(s) < 3 {
		return Constraint{}, zerr.With(ErrMalformedReference, "constraint", s)
	}
	op := Operator(s[:2])
	switch op {
	case OpEq, OpGte, OpLte:
	default:
		err := zerr.With(ErrMalformedReference, "constraint", s)
		return Constraint{}, zerr.With(err, "operator", s[:2])
	}
	return Constraint{Op: op, Version: Version(s[2:])}, nil
}

// IsZero reports whether the constraint places no bound at all.
func (c Constraint) IsZero() bool {
	return c.Op == OpNone
}

// String renders the constraint in its canonical suffix form, e.g. ">=v1.2.0".
// The zero constraint renders as the empty string.
func (c Constraint) String() string {
	if c.Op == OpNone {
		return ""
	}
	return string(c.Op) + string(c.Version)
}

// Allows reports whether the given version satisfies the constraint.
func (c Constraint) Allows(v Version) bool {
	switch c.Op {
	case OpNone:
		return true
	case OpEq:
		return CompareVersions(v, c.Version) == 0
	case OpGte:
		return CompareVersions(v, c.Version) >= 0
	case OpLte:
		return CompareVersions(v, c.Version) <= 0
	}
	return false
}

// Merge combines two constraints on the same formula into one, or fails with
// ErrConstraintConflict. Precedence:
//
//   - an unconstrained side is absorbed by the other
//   - an existing "==" is never overridden; an incoming "==" overrides any
//     non-equality bound; two unequal "==" versions conflict
//   - ">=" vs ">=" keeps the higher bound, "<=" vs "<=" keeps the lower
//   - ">=" vs "<=" describing an empty interval conflicts; a non-empty
//     interval keeps the incoming (most recently tightened) bound
//   - "==" vs an incompatible bound conflicts
func Merge(existing, incoming Constraint) (Constraint, error) {
	switch {
	case existing.IsZero():
		return incoming, nil
	case incoming.IsZero():
		return existing, nil
	}

	if existing.Op == OpEq || incoming.Op == OpEq {
		return mergeEquality(existing, incoming)
	}

	if existing.Op == incoming.Op {
		cmp := CompareVersions(existing.Version, incoming.Version)
		if existing.Op == OpGte {
			if cmp >= 0 {
				return existing, nil
			}
			return incoming, nil
		}
		// OpLte keeps the lower bound.
		if cmp <= 0 {
			return existing, nil
		}
		return incoming, nil
	}

	// Opposite bounds: validate the interval is non-empty, then keep the
	// incoming bound. Each later merge re-validates against it.
	gte, lte := existing, incoming
	if gte.Op != OpGte {
		gte, lte = incoming, existing
	}
	if CompareVersions(gte.Version, lte.Version) > 0 {
		return Constraint{}, conflict(existing, incoming)
	}
	return incoming, nil
}

// mergeEquality handles merges where at least one side is an exact pin.
func mergeEquality(existing, incoming Constraint) (Constraint, error) {
	if existing.Op == OpEq && incoming.Op == OpEq {
		if CompareVersions(existing.Version, incoming.Version) == 0 {
			return existing, nil
		}
		return Constraint{}, conflict(existing, incoming)
	}

	eq, bound := existing, incoming
	if eq.Op != OpEq {
		eq, bound = incoming, existing
	}
	if !bound.Allows(eq.Version) {
		return Constraint{}, conflict(existing, incoming)
	}
	return eq, nil
}

func conflict(existing, incoming Constraint) error {
	err := zerr.With(ErrConstraintConflict, "existing", existing.String())
	return zerr.With(err, "incoming", incoming.String())
}
