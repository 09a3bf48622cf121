package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/category/domain"
)

type categoryRepository struct{}

func NewRepository() domain.Repository {
	return &categoryRepository{}
}

func (r *categoryRepository) FindByPath(ctx context.Context, db *gorm.DB, path string) (*domain.Category, error) {
	var category domain.Category
	if err := db.WithContext(ctx).
		Where("path = ?", path).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Category, error) {
	var category domain.Category
	if err := db.WithContext(ctx).
		Where("name = ?", name).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) List(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var categories []domain.Category
	if err := db.WithContext(ctx).
		Order("path ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
