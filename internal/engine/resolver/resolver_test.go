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

func formulaKey(name string) domain.FormulaKey {
	return domain.FormulaKey{Organisation: "org", Name: name + "-formula"}
}

func ref(name, constraint string) domain.DependencyReference {
	c, err := domain.ParseConstraint(constraint)
	if err != nil {
		panic(err)
	}
	return domain.DependencyReference{Key: formulaKey(name), Constraint: c}
}

func metadata(name string, deps ...domain.DependencyReference) *domain.FormulaMetadata {
	return &domain.FormulaMetadata{Key: formulaKey(name), Dependencies: deps}
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return log
}

func TestResolveLinearGraph(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockMetadataSource(ctrl)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("a")).Return(metadata("a", ref("b", ">=v1.0.0")), nil)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("b")).Return(metadata("b"), nil)

	r := resolver.NewResolver(source, quietLogger(ctrl))
	res, err := r.Resolve(context.Background(), metadata("root", ref("a", "")))
	require.NoError(t, err)

	assert.Equal(t, []domain.FormulaKey{formulaKey("a"), formulaKey("b")}, res.Order)
	assert.Equal(t, domain.Constraint{}, res.Formulas[formulaKey("a")].Constraint)
	assert.Equal(t, domain.Constraint{Op: domain.OpGte, Version: "v1.0.0"}, res.Formulas[formulaKey("b")].Constraint)
}

func TestResolveDepthFirstOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockMetadataSource(ctrl)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("a")).Return(metadata("a", ref("c", "")), nil)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("b")).Return(metadata("b"), nil)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("c")).Return(metadata("c"), nil)

	r := resolver.NewResolver(source, quietLogger(ctrl))
	res, err := r.Resolve(context.Background(), metadata("root", ref("a", ""), ref("b", "")))
	require.NoError(t, err)

	// a's subtree is fully expanded before b is visited.
	assert.Equal(t, []domain.FormulaKey{formulaKey("a"), formulaKey("c"), formulaKey("b")}, res.Order)
}

func TestResolveMergesDiamond(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockMetadataSource(ctrl)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("a")).Return(metadata("a", ref("c", ">=v1.0.0")), nil)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("b")).Return(metadata("b", ref("c", "<=v2.0.0")), nil)
	// c's metadata is fetched exactly once even though two formulas depend on it.
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("c")).Return(metadata("c"), nil)

	r := resolver.NewResolver(source, quietLogger(ctrl))
	res, err := r.Resolve(context.Background(), metadata("root", ref("a", ""), ref("b", "")))
	require.NoError(t, err)

	require.Len(t, res.Formulas, 3)
	assert.Equal(t, domain.Constraint{Op: domain.OpLte, Version: "v2.0.0"}, res.Formulas[formulaKey("c")].Constraint)
}

func TestResolveDuplicateInSameListSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockMetadataSource(ctrl)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("a")).Return(metadata("a"), nil).Times(1)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).Times(1)

	r := resolver.NewResolver(source, log)
	res, err := r.Resolve(context.Background(), metadata("root", ref("a", "==v1.0.0"), ref("a", "==v9.9.9")))
	require.NoError(t, err)

	// The second entry is dropped entirely, not merged.
	assert.Equal(t, domain.Constraint{Op: domain.OpEq, Version: "v1.0.0"}, res.Formulas[formulaKey("a")].Constraint)
}

func TestResolveBreaksCycles(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockMetadataSource(ctrl)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("a")).Return(metadata("a", ref("b", "")), nil)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("b")).Return(metadata("b", ref("a", "")), nil)

	r := resolver.NewResolver(source, quietLogger(ctrl))
	res, err := r.Resolve(context.Background(), metadata("root", ref("a", "")))
	require.NoError(t, err)
	assert.Len(t, res.Formulas, 2)
}

func TestResolveConstraintConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockMetadataSource(ctrl)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("a")).Return(metadata("a", ref("c", "==v2.0.0")), nil)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("c")).Return(metadata("c"), nil)

	r := resolver.NewResolver(source, quietLogger(ctrl))
	_, err := r.Resolve(context.Background(), metadata("root", ref("c", "==v1.0.0"), ref("a", "")))
	require.ErrorIs(t, err, domain.ErrConstraintConflict)
}

func TestResolveBoundConflictAcrossPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockMetadataSource(ctrl)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("x")).Return(metadata("x"), nil)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("a")).Return(metadata("a", ref("x", "<=v0.5.0")), nil)

	r := resolver.NewResolver(source, quietLogger(ctrl))
	_, err := r.Resolve(context.Background(), metadata("root", ref("x", ">=v2.0.0"), ref("a", "")))
	require.ErrorIs(t, err, domain.ErrConstraintConflict)
}

func TestResolveMetadataErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockMetadataSource(ctrl)
	source.EXPECT().FetchMetadata(gomock.Any(), formulaKey("a")).Return(nil, domain.ErrFormulaNotFound)

	r := resolver.NewResolver(source, quietLogger(ctrl))
	_, err := r.Resolve(context.Background(), metadata("root", ref("a", "")))
	require.ErrorIs(t, err, domain.ErrFormulaNotFound)
}

func TestResolvePinned(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := resolver.NewResolver(mocks.NewMockMetadataSource(ctrl), quietLogger(ctrl))

	lock := &domain.Lockfile{Records: []domain.LockRecord{
		{Key: formulaKey("a"), Tag: "v1.0.0", Commit: "aaa"},
		{Key: formulaKey("b"), Tag: "v2.0.0"},
	}}

	res := r.ResolvePinned(lock)
	assert.Equal(t, []domain.FormulaKey{formulaKey("a"), formulaKey("b")}, res.Order)
	assert.Equal(t, domain.Constraint{Op: domain.OpEq, Version: "v1.0.0"}, res.Formulas[formulaKey("a")].Constraint)
	// Tags are assigned by version resolution, not here.
	assert.Empty(t, res.Formulas[formulaKey("a")].Tag)
}
