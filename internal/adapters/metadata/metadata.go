// Package metadata parses formula metadata documents and loads the root
// formula's metadata.yml from the working directory.
package metadata

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

// FileName is the metadata file every formula carries at its repository root.
const FileName = "metadata.yml"

// document is the on-disk YAML shape of a metadata file.
type document struct {
	Formula      string   `yaml:"formula"`
	Exports      []string `yaml:"exports"`
	Dependencies []string `yaml:"dependencies"`
}

// Parse parses a metadata document. The formula field is optional; when
// present it must be a plain unconstrained formula reference.
func Parse(data []byte) (*domain.FormulaMetadata, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrMalformedMetadata.Error())
	}

	meta := &domain.FormulaMetadata{Exports: doc.Exports}

	if doc.Formula != "" {
		ref, err := domain.ParseDependencyReference(doc.Formula)
		if err != nil {
			return nil, zerr.With(err, "field", "formula")
		}
		if !ref.Constraint.IsZero() {
			err := zerr.With(domain.ErrMalformedMetadata, "field", "formula")
			return nil, zerr.With(err, "reason", "formula name must not carry a version constraint")
		}
		meta.Key = ref.Key
	}

	for _, raw := range doc.Dependencies {
		ref, err := domain.ParseDependencyReference(raw)
		if err != nil {
			return nil, zerr.With(err, "field", "dependencies")
		}
		meta.Dependencies = append(meta.Dependencies, ref)
	}
	return meta, nil
}

// Loader reads the root formula's metadata.yml. It implements
// ports.ConfigLoader.
type Loader struct {
	log ports.Logger
}

// NewLoader creates a metadata file loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{log: log}
}

// Load reads and parses metadata.yml under rootDir.
func (l *Loader) Load(rootDir string) (*domain.FormulaMetadata, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read metadata file"), "path", path)
	}

	meta, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	l.log.Debug("loaded " + path)
	return meta, nil
}
