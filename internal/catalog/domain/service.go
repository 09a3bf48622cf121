package domain

import (
	"context"
	"errors"

	"github.com/picksmart/storesync/internal/reconcile"
)

var (
	ErrNotFound      = errors.New("product_not_found")
	ErrInvalidHandle = errors.New("invalid_handle")
	ErrInvalidTitle  = errors.New("invalid_title")
)

// ProductInput is one aggregated product keyed by its external handle.
type ProductInput struct {
	Handle      string
	ShopifyID   int64
	Title       string
	BodyHTML    string
	Vendor      string
	ProductType string
	Tags        []string
	Published   bool
	Status      ProductStatus

	// CategoryID links the leaf category when the caller resolved one.
	// Nil leaves any existing linkage untouched.
	CategoryID *int64

	Variants   []VariantInput
	Images     []ImageInput
	Metafields []MetafieldInput
}

type VariantInput struct {
	Title          string
	SKU            string
	Barcode        string
	Price          int64
	CompareAtPrice int64
	Cost           int64
	InventoryQty   int
	Option1Name    string
	Option1Value   string
	Option2Name    string
	Option2Value   string
	Option3Name    string
	Option3Value   string
	WeightGrams    int

	// ImageSrc references an owned image by source URL.
	ImageSrc string
}

type ImageInput struct {
	Src      string
	AltText  string
	Position int
}

type MetafieldInput struct {
	Namespace string
	Key       string
	ValueType string
	Value     string
}

type ListRequest struct {
	Status string
	Vendor string
}

type Service interface {
	// Upsert reconciles one aggregated product against persisted state:
	// create when the handle is unseen, otherwise skip or update-in-place
	// depending on mode. Children are replaced wholesale inside one
	// transaction with the parent write.
	Upsert(ctx context.Context, input ProductInput, mode reconcile.ConflictMode) (reconcile.Outcome, error)

	// Archive marks the product archived when the source reports deletion.
	// Products are never hard-deleted. Returns false when the handle is
	// unknown locally.
	Archive(ctx context.Context, handle string) (bool, error)

	// ArchiveByShopifyID handles deletion notifications, which carry only
	// the source's numeric ID.
	ArchiveByShopifyID(ctx context.Context, shopifyID int64) (bool, error)

	GetByHandle(ctx context.Context, handle string) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
}
