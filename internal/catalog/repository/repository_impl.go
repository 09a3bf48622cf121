package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/catalog/domain"
)

type productRepository struct{}

func NewRepository() domain.Repository {
	return &productRepository{}
}

func (r *productRepository) FindByHandle(ctx context.Context, db *gorm.DB, handle string) (*domain.Product, error) {
	var product domain.Product
	if err := db.WithContext(ctx).
		Where("handle = ?", handle).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByShopifyID(ctx context.Context, db *gorm.DB, shopifyID int64) (*domain.Product, error) {
	var product domain.Product
	if err := db.WithContext(ctx).
		Where("shopify_id = ?", shopifyID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: false}).
		Omit("Variants", "Images", "Metafields").
		Save(product).Error
}

func (r *productRepository) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Product, error) {
	query := db.WithContext(ctx).Model(&domain.Product{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Vendor != "" {
		query = query.Where("vendor = ?", filter.Vendor)
	}

	var products []domain.Product
	if err := query.Order("handle ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) DeleteChildren(ctx context.Context, db *gorm.DB, productID int64) error {
	if err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&domain.Variant{}).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&domain.Image{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&domain.Metafield{}).Error
}

func (r *productRepository) InsertVariants(ctx context.Context, db *gorm.DB, variants []domain.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&variants).Error
}

func (r *productRepository) InsertImages(ctx context.Context, db *gorm.DB, images []domain.Image) error {
	if len(images) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&images).Error
}

func (r *productRepository) InsertMetafields(ctx context.Context, db *gorm.DB, metafields []domain.Metafield) error {
	if len(metafields) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&metafields).Error
}

func (r *productRepository) LoadChildren(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if err := db.WithContext(ctx).
		Where("product_id = ?", product.ID).
		Order("position ASC, id ASC").
		Find(&product.Variants).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Where("product_id = ?", product.ID).
		Order("position ASC, id ASC").
		Find(&product.Images).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("product_id = ?", product.ID).
		Order("namespace ASC, key ASC").
		Find(&product.Metafields).Error
}
