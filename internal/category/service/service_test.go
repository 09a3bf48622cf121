package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/category/domain"
	"github.com/picksmart/storesync/internal/category/repository"
	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/config"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Category{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewSystem(),
		Repo:     repository.NewRepository(),
		Importer: (*config.ImporterConfigHolder)(nil),
	})
	return svc, db
}

func TestEnsureTree_MaterializesEveryPrefix(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.EnsureTree(ctx, []string{"Sports > Fitness > Mats"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Existed)

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)

	byPath := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		byPath[c.Path] = c
	}

	sports := byPath["Sports"]
	assert.Equal(t, 0, sports.Level)
	assert.Nil(t, sports.ParentID)
	assert.Equal(t, "sports", sports.Slug)

	fitness := byPath["Sports > Fitness"]
	assert.Equal(t, 1, fitness.Level)
	require.NotNil(t, fitness.ParentID)
	assert.Equal(t, sports.ID, *fitness.ParentID)

	mats := byPath["Sports > Fitness > Mats"]
	assert.Equal(t, 2, mats.Level)
	require.NotNil(t, mats.ParentID)
	assert.Equal(t, fitness.ID, *mats.ParentID)
}

func TestEnsureTree_IdempotentReruns(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureTree(ctx, []string{"Home > Kitchen"})
	require.NoError(t, err)

	result, err := svc.EnsureTree(ctx, []string{"Home > Kitchen", "Home"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Existed)
}

func TestEnsureTree_LeafNameCollisionQualifiedWithParent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureTree(ctx, []string{
		"Home > Accessories",
		"Kitchen > Accessories",
	})
	require.NoError(t, err)

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 4)

	byPath := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		byPath[c.Path] = c
	}

	assert.Equal(t, "Accessories", byPath["Home > Accessories"].Name)
	qualified := byPath["Kitchen > Accessories"]
	assert.Equal(t, "Kitchen Accessories", qualified.Name)
	assert.Equal(t, "kitchen-accessories", qualified.Slug)
}

func TestResolveLeaf(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureTree(ctx, []string{"Sports > Fitness"})
	require.NoError(t, err)

	id, err := svc.ResolveLeaf(ctx, "Sports > Fitness")
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = svc.ResolveLeaf(ctx, "Sports > Unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
