package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/customer/domain"
)

type customerRepository struct{}

func NewRepository() domain.Repository {
	return &customerRepository{}
}

func (r *customerRepository) FindByShopifyID(ctx context.Context, db *gorm.DB, shopifyID int64) (*domain.Customer, error) {
	var customer domain.Customer
	if err := db.WithContext(ctx).
		Where("shopify_id = ?", shopifyID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Customer, error) {
	var customer domain.Customer
	if err := db.WithContext(ctx).
		Where("email = ?", email).
		Order("id ASC").
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Save(customer).Error
}
