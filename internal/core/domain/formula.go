// Package domain contains the core types and resolution rules for salt
// formula dependency management.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// FormulaSuffix is the mandatory suffix of every formula repository name.
const FormulaSuffix = "-formula"

// FormulaKey uniquely identifies a formula by organisation and repository
// name (including the "-formula" suffix). It is the mapping key throughout
// resolution.
type FormulaKey struct {
	Organisation string
	Name         string
}

// String renders the key as "org/name-formula".
func (k FormulaKey) String() string {
	return k.Organisation + "/" + k.Name
}

// ShortName returns the formula name with the "-formula" suffix stripped.
// It is the default export name and the install directory name.
func (k FormulaKey) ShortName() string {
	return strings.TrimSuffix(k.Name, FormulaSuffix)
}

// SourceURL returns the git clone URL for the formula repository.
func (k FormulaKey) SourceURL() string {
	return "git@github.com:" + k.Organisation + "/" + k.Name + ".git"
}

// DependencyReference is a single parsed dependency list entry: the formula it
// targets plus the constraint declared on it.
type DependencyReference struct {
	Key        FormulaKey
	Constraint Constraint
}

// ParseDependencyReference parses a raw dependency string of the form
// <org>/<name>-formula[<op><version>] where <op> is one of "==", ">=", "<=".
func ParseDependencyReference(raw string) (DependencyReference, error) {
	name := raw
	constraint := ""
	if idx := strings.IndexAny(raw, "=<>"); idx >= 0 {
		name, constraint = raw[:idx], raw[idx:]
	}

	org, formula, ok := strings.Cut(name, "/")
	if !ok || org == "" || formula == "" || strings.Contains(formula, "/") {
		err := zerr.With(ErrMalformedReference, "reference", raw)
		return DependencyReference{}, zerr.With(err, "reason", "expected <organisation>/<formula-name>")
	}
	if !strings.HasSuffix(formula, FormulaSuffix) || formula == FormulaSuffix {
		err := zerr.With(ErrMalformedReference, "reference", raw)
		return DependencyReference{}, zerr.With(err, "reason", "formula name must end in "+FormulaSuffix)
	}

	c, err := ParseConstraint(constraint)
	if err != nil {
		return DependencyReference{}, zerr.With(err, "reference", raw)
	}

	return DependencyReference{
		Key:        FormulaKey{Organisation: org, Name: formula},
		Constraint: c,
	}, nil
}

// String renders the reference in its canonical form; parsing the result
// yields the same reference back.
func (d DependencyReference) String() string {
	return d.Key.String() + d.Constraint.String()
}

// FormulaMetadata is the declared metadata of one formula: its key, its
// exported state directories and its ordered dependency list. Instances are
// read-only after creation.
type FormulaMetadata struct {
	Key          FormulaKey
	Exports      []string
	Dependencies []DependencyReference
}

// ExportNames returns the declared exports, defaulting to the formula name
// with the "-formula" suffix stripped when none were declared.
func (m *FormulaMetadata) ExportNames() []string {
	if len(m.Exports) > 0 {
		return m.Exports
	}
	return []string{m.Key.ShortName()}
}

// ResolvedFormula is the resolver's accumulated state for one formula: the
// merged constraint and, once version resolution ran, the selected tag and
// commit. Commit may stay empty when a pinned install runs without remote
// checks; the fetcher then falls back to the tag.
type ResolvedFormula struct {
	Key        FormulaKey
	Constraint Constraint
	Tag        string
	Commit     string
}
