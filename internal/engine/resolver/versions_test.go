package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports/mocks"
	"github.com/ministryofjustice/salt-shaker/internal/engine/resolver"
)

func singleResolution(name, constraint string) *resolver.Resolution {
	r := ref(name, constraint)
	return &resolver.Resolution{
		Formulas: map[domain.FormulaKey]*domain.ResolvedFormula{
			r.Key: {Key: r.Key, Constraint: r.Constraint},
		},
		Order: []domain.FormulaKey{r.Key},
	}
}

func TestResolveAllPicksHighestRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagService(ctrl)
	tags.EXPECT().ListTags(gomock.Any(), formulaKey("a")).
		Return([]string{"v1.0.0", "v1.10.0", "v1.9.0", "v2.0.0-rc1", "master"}, nil)
	tags.EXPECT().ResolveTag(gomock.Any(), formulaKey("a"), "v1.10.0").Return("c0ffee", nil)

	v := resolver.NewVersionResolver(tags, quietLogger(ctrl), 2)
	res := singleResolution("a", ">=v1.0.0")

	moves, err := v.ResolveAll(context.Background(), res, nil, false)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, "v1.10.0", res.Formulas[formulaKey("a")].Tag)
	assert.Equal(t, "c0ffee", res.Formulas[formulaKey("a")].Commit)
}

func TestResolveAllExactPinMatchesPreRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagService(ctrl)
	tags.EXPECT().ListTags(gomock.Any(), formulaKey("a")).
		Return([]string{"v1.0.0", "v2.0.0-rc1"}, nil)
	tags.EXPECT().ResolveTag(gomock.Any(), formulaKey("a"), "v2.0.0-rc1").Return("abc123", nil)

	v := resolver.NewVersionResolver(tags, quietLogger(ctrl), 2)
	res := singleResolution("a", "==v2.0.0-rc1")

	_, err := v.ResolveAll(context.Background(), res, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0-rc1", res.Formulas[formulaKey("a")].Tag)
}

func TestResolveAllSkipsPreReleaseForBounds(t *testing.T) {
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagService(ctrl)
	tags.EXPECT().ListTags(gomock.Any(), formulaKey("a")).
		Return([]string{"v1.0.0", "v1.1.0-rc1"}, nil)
	tags.EXPECT().ResolveTag(gomock.Any(), formulaKey("a"), "v1.0.0").Return("abc", nil)

	v := resolver.NewVersionResolver(tags, quietLogger(ctrl), 2)
	res := singleResolution("a", "")

	_, err := v.ResolveAll(context.Background(), res, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", res.Formulas[formulaKey("a")].Tag)
}

func TestResolveAllNoMatchingTag(t *testing.T) {
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagService(ctrl)
	tags.EXPECT().ListTags(gomock.Any(), formulaKey("a")).
		Return([]string{"v1.0.0", "master"}, nil)

	v := resolver.NewVersionResolver(tags, quietLogger(ctrl), 2)
	res := singleResolution("a", ">=v2.0.0")

	_, err := v.ResolveAll(context.Background(), res, nil, false)
	require.ErrorIs(t, err, domain.ErrNoMatchingTag)
}

func TestResolveAllReusesLockedPin(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No tag service expectations: the locked pin must not reach the remote.
	tags := mocks.NewMockTagService(ctrl)

	v := resolver.NewVersionResolver(tags, quietLogger(ctrl), 2)
	res := singleResolution("a", "==v1.0.0")
	lock := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: formulaKey("a"), Tag: "v1.0.0", Commit: "aaa"},
	}}

	moves, err := v.ResolveAll(context.Background(), res, lock, false)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, "v1.0.0", res.Formulas[formulaKey("a")].Tag)
	assert.Equal(t, "aaa", res.Formulas[formulaKey("a")].Commit)
}

func TestResolveAllReusesRecordedCommitForSelectedTag(t *testing.T) {
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagService(ctrl)
	// Tags are listed to select a version, but the recorded commit of the
	// selected tag must be reused without a ResolveTag round trip.
	tags.EXPECT().ListTags(gomock.Any(), formulaKey("a")).
		Return([]string{"v1.0.0", "v1.10.0"}, nil)

	v := resolver.NewVersionResolver(tags, quietLogger(ctrl), 2)
	res := singleResolution("a", ">=v1.0.0")
	lock := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: formulaKey("a"), Tag: "v1.10.0", Commit: "aaa"},
	}}

	moves, err := v.ResolveAll(context.Background(), res, lock, false)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, "v1.10.0", res.Formulas[formulaKey("a")].Tag)
	assert.Equal(t, "aaa", res.Formulas[formulaKey("a")].Commit)
}

func TestResolveAllResolvesCommitWhenLockedTagDiffers(t *testing.T) {
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagService(ctrl)
	tags.EXPECT().ListTags(gomock.Any(), formulaKey("a")).
		Return([]string{"v1.0.0", "v2.0.0"}, nil)
	tags.EXPECT().ResolveTag(gomock.Any(), formulaKey("a"), "v2.0.0").Return("bbb", nil)

	v := resolver.NewVersionResolver(tags, quietLogger(ctrl), 2)
	res := singleResolution("a", ">=v1.0.0")
	lock := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: formulaKey("a"), Tag: "v1.0.0", Commit: "aaa"},
	}}

	moves, err := v.ResolveAll(context.Background(), res, lock, false)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, "v2.0.0", res.Formulas[formulaKey("a")].Tag)
	assert.Equal(t, "bbb", res.Formulas[formulaKey("a")].Commit)
}

func TestResolveAllForceRecheckReportsTagMove(t *testing.T) {
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagService(ctrl)
	tags.EXPECT().ResolveTag(gomock.Any(), formulaKey("a"), "v1.0.0").Return("bbb", nil)

	v := resolver.NewVersionResolver(tags, quietLogger(ctrl), 2)
	res := singleResolution("a", "==v1.0.0")
	lock := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: formulaKey("a"), Tag: "v1.0.0", Commit: "aaa"},
	}}

	moves, err := v.ResolveAll(context.Background(), res, lock, true)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "tag v1.0.0 of org/a-formula moved from aaa to bbb", moves[0].String())
	// The fresh commit wins so the rewritten lockfile is accurate.
	assert.Equal(t, "bbb", res.Formulas[formulaKey("a")].Commit)
}

func TestResolveAllForceRecheckBackfillsMissingCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagService(ctrl)
	tags.EXPECT().ResolveTag(gomock.Any(), formulaKey("a"), "v1.0.0").Return("ccc", nil)

	v := resolver.NewVersionResolver(tags, quietLogger(ctrl), 2)
	res := singleResolution("a", "==v1.0.0")
	lock := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: formulaKey("a"), Tag: "v1.0.0"},
	}}

	moves, err := v.ResolveAll(context.Background(), res, lock, true)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, "ccc", res.Formulas[formulaKey("a")].Commit)
}
