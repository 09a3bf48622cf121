package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByPath(ctx context.Context, db *gorm.DB, path string) (*Category, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Category, error)
	Create(ctx context.Context, db *gorm.DB, category *Category) error
	List(ctx context.Context, db *gorm.DB) ([]Category, error)
}
