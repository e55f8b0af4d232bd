package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
)

func key(org, name string) domain.FormulaKey {
	return domain.FormulaKey{Organisation: org, Name: name}
}

func TestNewLockfileOrdersRecords(t *testing.T) {
	lock := domain.NewLockfile(map[domain.FormulaKey]*domain.ResolvedFormula{
		key("org", "zsh-formula"):   {Tag: "v2.0.0", Commit: "bbb"},
		key("org", "apache-formula"): {Tag: "v1.0.0", Commit: "aaa"},
	})

	require.Len(t, lock.Records, 2)
	assert.Equal(t, "apache-formula", lock.Records[0].Key.Name)
	assert.Equal(t, "zsh-formula", lock.Records[1].Key.Name)
}

func TestLockfileMarshalAndParse(t *testing.T) {
	lock := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: key("org", "apache-formula"), Tag: "v1.0.0", Commit: "0a1b2c3"},
		{Key: key("org", "nginx-formula"), Tag: "v2.1.0"},
	}}

	data := lock.Marshal()
	assert.Equal(t, "org/apache-formula==v1.0.0 0a1b2c3\norg/nginx-formula==v2.1.0\n", string(data))

	parsed, err := domain.ParseLockfile(data)
	require.NoError(t, err)
	assert.Equal(t, lock.Records, parsed.Records)
}

func TestParseLockfileSkipsCommentsAndBlanks(t *testing.T) {
	input := "# pinned formulas\n\norg/apache-formula==v1.0.0 0a1b2c3\n   \n# trailing comment\n"
	parsed, err := domain.ParseLockfile([]byte(input))
	require.NoError(t, err)
	require.Len(t, parsed.Records, 1)
	assert.Equal(t, "v1.0.0", parsed.Records[0].Tag)
	assert.Equal(t, "0a1b2c3", parsed.Records[0].Commit)
}

func TestParseLockfileRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a reference", "garbage\n"},
		{"bound instead of pin", "org/apache-formula>=v1.0.0\n"},
		{"unpinned", "org/apache-formula\n"},
		{"too many columns", "org/apache-formula==v1.0.0 0a1b2c3 extra\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.ParseLockfile([]byte(tt.input))
			require.ErrorContains(t, err, "malformed requirements record")
		})
	}
}

func TestLockfileChecksum(t *testing.T) {
	a := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: key("org", "apache-formula"), Tag: "v1.0.0", Commit: "aaa"},
	}}
	same := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: key("org", "apache-formula"), Tag: "v1.0.0", Commit: "aaa"},
	}}
	bumped := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: key("org", "apache-formula"), Tag: "v1.1.0", Commit: "aaa"},
	}}

	assert.Equal(t, a.Checksum(), same.Checksum())
	assert.NotEqual(t, a.Checksum(), bumped.Checksum())
}

func TestLockfileReferences(t *testing.T) {
	lock := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: key("org", "apache-formula"), Tag: "v1.0.0", Commit: "aaa"},
	}}

	refs := lock.References()
	require.Len(t, refs, 1)
	assert.Equal(t, domain.Constraint{Op: domain.OpEq, Version: "v1.0.0"}, refs[0].Constraint)
}

func TestLockfileDiff(t *testing.T) {
	existing := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: key("org", "apache-formula"), Tag: "v1.0.0"},
		{Key: key("org", "nginx-formula"), Tag: "v2.0.0"},
		{Key: key("org", "users-formula"), Tag: "v3.0.0"},
	}}
	fresh := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: key("org", "apache-formula"), Tag: "v1.1.0"},
		{Key: key("org", "postfix-formula"), Tag: "v0.1.0"},
		{Key: key("org", "users-formula"), Tag: "v3.0.0"},
	}}

	changes := existing.Diff(fresh)
	require.Len(t, changes, 3)

	assert.Equal(t, domain.ChangeVersion, changes[0].Kind)
	assert.Equal(t, "unequal entries org/apache-formula==v1.0.0 != org/apache-formula==v1.1.0", changes[0].String())

	assert.Equal(t, domain.ChangeRemoved, changes[1].Kind)
	assert.Equal(t, "deprecated entry org/nginx-formula==v2.0.0", changes[1].String())

	assert.Equal(t, domain.ChangeAdded, changes[2].Kind)
	assert.Equal(t, "new entry org/postfix-formula==v0.1.0", changes[2].String())
}

func TestLockfileDiffNoChanges(t *testing.T) {
	lock := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: key("org", "apache-formula"), Tag: "v1.0.0", Commit: "aaa"},
	}}
	other := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: key("org", "apache-formula"), Tag: "v1.0.0", Commit: "bbb"},
	}}

	// Commit drift alone is not a change; the tag is the pinned identity.
	assert.Empty(t, lock.Diff(other))
}
