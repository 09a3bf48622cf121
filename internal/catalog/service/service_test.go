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

	"github.com/picksmart/storesync/internal/catalog/domain"
	"github.com/picksmart/storesync/internal/catalog/repository"
	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/reconcile"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Product{},
		&domain.Variant{},
		&domain.Image{},
		&domain.Metafield{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewSystem(),
		Repo:  repository.NewRepository(),
	})
	return svc, db
}

func mugInput() domain.ProductInput {
	return domain.ProductInput{
		Handle: "ceramic-mug",
		Title:  "Ceramic Mug",
		Vendor: "Picksmart",
		Tags:   []string{"kitchen"},
		Variants: []domain.VariantInput{
			{SKU: "M1", Option1Name: "Color", Option1Value: "Red", Price: 999, InventoryQty: 4, ImageSrc: "red.png"},
			{SKU: "M2", Option1Name: "Color", Option1Value: "Blue", Price: 1099, InventoryQty: 6},
		},
		Images: []domain.ImageInput{
			{Src: "red.png", Position: 1},
			{Src: "blue.png", Position: 2},
		},
		Metafields: []domain.MetafieldInput{
			{Namespace: "shopify", Key: "color-pattern", ValueType: "string", Value: "solid"},
		},
	}
}

func TestUpsert_CreateInsertsChildren(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	outcome, err := svc.Upsert(ctx, mugInput(), reconcile.ConflictSkip)
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeCreated, outcome)

	product, err := svc.GetByHandle(ctx, "ceramic-mug")
	require.NoError(t, err)
	assert.Equal(t, "Ceramic Mug", product.Title)
	assert.Equal(t, int64(999), product.Price)
	assert.Equal(t, 10, product.TotalInventory)
	require.Len(t, product.Variants, 2)
	require.Len(t, product.Images, 2)
	require.Len(t, product.Metafields, 1)

	// The red variant points at its owned image record.
	red := product.Variants[0]
	assert.Equal(t, "M1", red.SKU)
	require.NotNil(t, red.ImageID)
	assert.Equal(t, product.Images[0].ID, *red.ImageID)
	assert.Nil(t, product.Variants[1].ImageID)
}

func TestUpsert_SkipLeavesExistingUntouched(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, mugInput(), reconcile.ConflictSkip)
	require.NoError(t, err)

	changed := mugInput()
	changed.Title = "Renamed Mug"
	outcome, err := svc.Upsert(ctx, changed, reconcile.ConflictSkip)
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeSkipped, outcome)

	product, err := svc.GetByHandle(ctx, "ceramic-mug")
	require.NoError(t, err)
	assert.Equal(t, "Ceramic Mug", product.Title)
}

func TestUpsert_UpdateReplacesChildrenWholesale(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, mugInput(), reconcile.ConflictSkip)
	require.NoError(t, err)

	changed := mugInput()
	changed.Title = "Renamed Mug"
	changed.Variants = []domain.VariantInput{
		{SKU: "M3", Option1Name: "Color", Option1Value: "Green", Price: 1299, InventoryQty: 2},
	}
	changed.Images = nil
	changed.Metafields = nil

	outcome, err := svc.Upsert(ctx, changed, reconcile.ConflictUpdate)
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeUpdated, outcome)

	product, err := svc.GetByHandle(ctx, "ceramic-mug")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Mug", product.Title)
	assert.Equal(t, int64(1299), product.Price)
	assert.Equal(t, 2, product.TotalInventory)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "M3", product.Variants[0].SKU)
	assert.Empty(t, product.Images)
	assert.Empty(t, product.Metafields)
}

func TestUpsert_RejectsMissingKeyFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, domain.ProductInput{Title: "No Handle"}, reconcile.ConflictSkip)
	assert.ErrorIs(t, err, domain.ErrInvalidHandle)

	_, err = svc.Upsert(ctx, domain.ProductInput{Handle: "no-title"}, reconcile.ConflictSkip)
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)
}

func TestArchive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := mugInput()
	input.ShopifyID = 7788
	_, err := svc.Upsert(ctx, input, reconcile.ConflictSkip)
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, "ceramic-mug")
	require.NoError(t, err)
	assert.True(t, archived)

	product, err := svc.GetByHandle(ctx, "ceramic-mug")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, product.Status)

	// Unknown handles are acknowledged without an error.
	archived, err = svc.Archive(ctx, "never-seen")
	require.NoError(t, err)
	assert.False(t, archived)
}

func TestArchiveByShopifyID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := mugInput()
	input.ShopifyID = 7788
	_, err := svc.Upsert(ctx, input, reconcile.ConflictSkip)
	require.NoError(t, err)

	archived, err := svc.ArchiveByShopifyID(ctx, 7788)
	require.NoError(t, err)
	assert.True(t, archived)

	archived, err = svc.ArchiveByShopifyID(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, archived)
}
