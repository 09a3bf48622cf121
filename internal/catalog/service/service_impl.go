package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/catalog/domain"
	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/reconcile"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Upsert(ctx context.Context, input domain.ProductInput, mode reconcile.ConflictMode) (reconcile.Outcome, error) {
	handle := strings.TrimSpace(input.Handle)
	if handle == "" {
		return "", domain.ErrInvalidHandle
	}
	if strings.TrimSpace(input.Title) == "" {
		return "", domain.ErrInvalidTitle
	}

	existing, err := s.repo.FindByHandle(ctx, s.db, handle)
	if err != nil && err != domain.ErrNotFound {
		return "", err
	}

	if existing == nil {
		if err := s.create(ctx, handle, input); err != nil {
			return "", err
		}
		return reconcile.OutcomeCreated, nil
	}

	if mode == reconcile.ConflictSkip {
		s.log.Debug("existing product left untouched",
			zap.String("handle", handle),
		)
		return reconcile.OutcomeSkipped, nil
	}

	if err := s.update(ctx, existing, input); err != nil {
		return "", err
	}
	return reconcile.OutcomeUpdated, nil
}

func (s *Service) create(ctx context.Context, handle string, input domain.ProductInput) error {
	now := s.clock.Now()

	product := &domain.Product{
		ID:        s.genID.Generate().Int64(),
		Handle:    handle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.applyInput(product, input)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, product); err != nil {
			return err
		}
		return s.insertChildren(ctx, tx, product.ID, input)
	})
}

func (s *Service) update(ctx context.Context, existing *domain.Product, input domain.ProductInput) error {
	s.applyInput(existing, input)
	existing.UpdatedAt = s.clock.Now()

	// Parent write and child replacement commit together so readers never
	// observe a product with half-swapped variants.
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, existing); err != nil {
			return err
		}
		if err := s.repo.DeleteChildren(ctx, tx, existing.ID); err != nil {
			return err
		}
		return s.insertChildren(ctx, tx, existing.ID, input)
	})
}

func (s *Service) applyInput(product *domain.Product, input domain.ProductInput) {
	if input.ShopifyID != 0 {
		product.ShopifyID = input.ShopifyID
	}
	product.Title = strings.TrimSpace(input.Title)
	product.BodyHTML = input.BodyHTML
	product.Vendor = strings.TrimSpace(input.Vendor)
	product.ProductType = strings.TrimSpace(input.ProductType)
	product.Tags = input.Tags
	product.Published = input.Published

	product.Status = input.Status
	if product.Status == "" {
		product.Status = domain.StatusActive
	}

	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}

	totalInventory := 0
	for _, v := range input.Variants {
		totalInventory += v.InventoryQty
	}
	product.TotalInventory = totalInventory

	if len(input.Variants) > 0 {
		first := input.Variants[0]
		product.Price = first.Price
		product.CompareAtPrice = first.CompareAtPrice
		product.Cost = first.Cost
	} else {
		product.Price = 0
		product.CompareAtPrice = 0
		product.Cost = 0
	}
}

func (s *Service) insertChildren(ctx context.Context, tx *gorm.DB, productID int64, input domain.ProductInput) error {
	now := s.clock.Now()

	images := make([]domain.Image, 0, len(input.Images))
	imageIDBySrc := make(map[string]int64, len(input.Images))
	for _, in := range input.Images {
		img := domain.Image{
			ID:        s.genID.Generate().Int64(),
			ProductID: productID,
			Src:       in.Src,
			AltText:   in.AltText,
			Position:  in.Position,
			CreatedAt: now,
			UpdatedAt: now,
		}
		images = append(images, img)
		if _, ok := imageIDBySrc[in.Src]; !ok {
			imageIDBySrc[in.Src] = img.ID
		}
	}
	if err := s.repo.InsertImages(ctx, tx, images); err != nil {
		return err
	}

	variants := make([]domain.Variant, 0, len(input.Variants))
	for i, in := range input.Variants {
		v := domain.Variant{
			ID:             s.genID.Generate().Int64(),
			ProductID:      productID,
			Title:          variantTitle(in),
			SKU:            in.SKU,
			Barcode:        in.Barcode,
			Price:          in.Price,
			CompareAtPrice: in.CompareAtPrice,
			Cost:           in.Cost,
			InventoryQty:   in.InventoryQty,
			Option1Name:    in.Option1Name,
			Option1Value:   in.Option1Value,
			Option2Name:    in.Option2Name,
			Option2Value:   in.Option2Value,
			Option3Name:    in.Option3Name,
			Option3Value:   in.Option3Value,
			WeightGrams:    in.WeightGrams,
			Position:       i + 1,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if in.ImageSrc != "" {
			if id, ok := imageIDBySrc[in.ImageSrc]; ok {
				imageID := id
				v.ImageID = &imageID
			}
		}
		variants = append(variants, v)
	}
	if err := s.repo.InsertVariants(ctx, tx, variants); err != nil {
		return err
	}

	metafields := make([]domain.Metafield, 0, len(input.Metafields))
	for _, in := range input.Metafields {
		raw, err := json.Marshal(in.Value)
		if err != nil {
			return err
		}
		metafields = append(metafields, domain.Metafield{
			ID:        s.genID.Generate().Int64(),
			ProductID: productID,
			Namespace: in.Namespace,
			Key:       in.Key,
			ValueType: in.ValueType,
			Value:     datatypes.JSON(raw),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return s.repo.InsertMetafields(ctx, tx, metafields)
}

func (s *Service) Archive(ctx context.Context, handle string) (bool, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return false, domain.ErrInvalidHandle
	}

	existing, err := s.repo.FindByHandle(ctx, s.db, handle)
	if err != nil {
		if err == domain.ErrNotFound {
			s.log.Info("archive requested for unknown handle",
				zap.String("handle", handle),
			)
			return false, nil
		}
		return false, err
	}
	return true, s.archive(ctx, existing)
}

func (s *Service) ArchiveByShopifyID(ctx context.Context, shopifyID int64) (bool, error) {
	if shopifyID == 0 {
		return false, domain.ErrInvalidHandle
	}

	existing, err := s.repo.FindByShopifyID(ctx, s.db, shopifyID)
	if err != nil {
		if err == domain.ErrNotFound {
			s.log.Info("archive requested for unknown shopify id",
				zap.Int64("shopify_id", shopifyID),
			)
			return false, nil
		}
		return false, err
	}
	return true, s.archive(ctx, existing)
}

func (s *Service) archive(ctx context.Context, existing *domain.Product) error {
	if existing.Status == domain.StatusArchived {
		return nil
	}
	existing.Status = domain.StatusArchived
	existing.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, existing)
}

func (s *Service) GetByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, domain.ErrInvalidHandle
	}

	product, err := s.repo.FindByHandle(ctx, s.db, handle)
	if err != nil {
		return nil, err
	}
	if err := s.repo.LoadChildren(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	return s.repo.List(ctx, s.db, req)
}

func variantTitle(in domain.VariantInput) string {
	if in.Title != "" {
		return in.Title
	}
	parts := make([]string, 0, 3)
	for _, value := range []string{in.Option1Value, in.Option2Value, in.Option3Value} {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, strings.TrimSpace(value))
		}
	}
	return strings.Join(parts, " / ")
}
