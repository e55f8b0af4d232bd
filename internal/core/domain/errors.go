package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedReference is returned when a dependency reference string does not
	// match the <org>/<name>-formula[<op><version>] grammar.
	ErrMalformedReference = zerr.New("malformed dependency reference")

	// ErrMalformedMetadata is returned when a formula's metadata document is
	// structurally invalid.
	ErrMalformedMetadata = zerr.New("malformed formula metadata")

	// ErrMalformedLockfile is returned when a requirements record cannot be parsed.
	ErrMalformedLockfile = zerr.New("malformed requirements record")

	// ErrConstraintConflict is returned when two constraints on the same formula
	// cannot be merged.
	ErrConstraintConflict = zerr.New("conflicting version constraints")

	// ErrFormulaNotFound is returned when no metadata exists for a referenced formula.
	ErrFormulaNotFound = zerr.New("formula metadata not found")

	// ErrNoMatchingTag is returned when no remote tag satisfies a formula's
	// merged constraint.
	ErrNoMatchingTag = zerr.New("no tag satisfies constraint")

	// ErrRequirementsNotFound is returned when a pinned install is requested but
	// no requirements file exists.
	ErrRequirementsNotFound = zerr.New("requirements file not found")

	// ErrFetchFailed is returned when one or more formula working copies could not
	// be materialized.
	ErrFetchFailed = zerr.New("formula fetch failed")
)
