package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByHandle(ctx context.Context, db *gorm.DB, handle string) (*Product, error)
	FindByShopifyID(ctx context.Context, db *gorm.DB, shopifyID int64) (*Product, error)
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Product, error)

	DeleteChildren(ctx context.Context, db *gorm.DB, productID int64) error
	InsertVariants(ctx context.Context, db *gorm.DB, variants []Variant) error
	InsertImages(ctx context.Context, db *gorm.DB, images []Image) error
	InsertMetafields(ctx context.Context, db *gorm.DB, metafields []Metafield) error
	LoadChildren(ctx context.Context, db *gorm.DB, product *Product) error
}
