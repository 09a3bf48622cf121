package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByShopifyID(ctx context.Context, db *gorm.DB, shopifyID int64) (*Customer, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Customer, error)
	Create(ctx context.Context, db *gorm.DB, customer *Customer) error
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
}
