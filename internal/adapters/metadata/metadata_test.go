package metadata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ministryofjustice/salt-shaker/internal/adapters/metadata"
	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports/mocks"
)

func TestParse(t *testing.T) {
	doc := `
formula: org/nginx-formula
exports:
  - nginx
  - nginx.ng
dependencies:
  - org/common-formula
  - org/users-formula>=v1.2.0
`
	meta, err := metadata.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, domain.FormulaKey{Organisation: "org", Name: "nginx-formula"}, meta.Key)
	assert.Equal(t, []string{"nginx", "nginx.ng"}, meta.Exports)
	require.Len(t, meta.Dependencies, 2)
	assert.Equal(t, "org/common-formula", meta.Dependencies[0].String())
	assert.Equal(t, "org/users-formula>=v1.2.0", meta.Dependencies[1].String())
}

func TestParseMinimalDocument(t *testing.T) {
	meta, err := metadata.Parse([]byte("dependencies: []\n"))
	require.NoError(t, err)
	assert.Empty(t, meta.Dependencies)
	assert.Empty(t, meta.Exports)
	assert.Equal(t, domain.FormulaKey{}, meta.Key)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "{{nope"},
		{"malformed dependency", "dependencies:\n  - not-a-formula\n"},
		{"constrained formula field", "formula: org/nginx-formula==v1.0.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestLoaderLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	content := "formula: org/nginx-formula\ndependencies:\n  - org/common-formula\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, metadata.FileName), []byte(content), 0o644))

	loader := metadata.NewLoader(log)
	meta, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "nginx", meta.Key.ShortName())
	require.Len(t, meta.Dependencies, 1)
}

func TestLoaderLoadMissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := metadata.NewLoader(mocks.NewMockLogger(ctrl))

	_, err := loader.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read metadata file")
}
