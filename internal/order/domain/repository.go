package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Order, error)
	Create(ctx context.Context, db *gorm.DB, order *Order) error
	Update(ctx context.Context, db *gorm.DB, order *Order) error
	DeleteItems(ctx context.Context, db *gorm.DB, orderID int64) error
	InsertItems(ctx context.Context, db *gorm.DB, items []OrderItem) error
}
