package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/order/domain"
)

type orderRepository struct{}

func NewRepository() domain.Repository {
	return &orderRepository{}
}

func (r *orderRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Order, error) {
	var order domain.Order
	if err := db.WithContext(ctx).
		Where("name = ?", name).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Create(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *orderRepository) Update(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Omit("Items").Save(order).Error
}

func (r *orderRepository) DeleteItems(ctx context.Context, db *gorm.DB, orderID int64) error {
	return db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&domain.OrderItem{}).Error
}

func (r *orderRepository) InsertItems(ctx context.Context, db *gorm.DB, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}
