package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/customer/domain"
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
		log:   p.Log.Named("customer.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Upsert(ctx context.Context, input domain.CustomerInput, mode reconcile.ConflictMode) (reconcile.Outcome, error) {
	email := normalizeEmail(input.Email)
	if input.ShopifyID == 0 && email == "" {
		return "", domain.ErrInvalidKey
	}

	existing, err := s.find(ctx, input.ShopifyID, email)
	if err != nil && err != domain.ErrNotFound {
		return "", err
	}

	now := s.clock.Now()
	if existing == nil {
		customer := &domain.Customer{
			ID:        s.genID.Generate().Int64(),
			ShopifyID: input.ShopifyID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applyInput(customer, input, email)
		if err := s.repo.Create(ctx, s.db, customer); err != nil {
			return "", err
		}
		return reconcile.OutcomeCreated, nil
	}

	if mode == reconcile.ConflictSkip {
		s.log.Debug("existing customer left untouched",
			zap.Int64("shopify_id", existing.ShopifyID),
		)
		return reconcile.OutcomeSkipped, nil
	}

	// An email-matched record may be learning its external ID for the
	// first time.
	if input.ShopifyID != 0 {
		existing.ShopifyID = input.ShopifyID
	}
	applyInput(existing, input, email)
	existing.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return "", err
	}
	return reconcile.OutcomeUpdated, nil
}

func (s *Service) FindLocalID(ctx context.Context, shopifyID int64, email string) (int64, error) {
	existing, err := s.find(ctx, shopifyID, normalizeEmail(email))
	if err != nil {
		return 0, err
	}
	return existing.ID, nil
}

func (s *Service) find(ctx context.Context, shopifyID int64, email string) (*domain.Customer, error) {
	if shopifyID != 0 {
		customer, err := s.repo.FindByShopifyID(ctx, s.db, shopifyID)
		if err == nil {
			return customer, nil
		}
		if err != domain.ErrNotFound {
			return nil, err
		}
	}
	if email == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByEmail(ctx, s.db, email)
}

func applyInput(customer *domain.Customer, input domain.CustomerInput, email string) {
	customer.Email = email
	customer.FirstName = strings.TrimSpace(input.FirstName)
	customer.LastName = strings.TrimSpace(input.LastName)
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.AcceptsMarketing = input.AcceptsMarketing
	customer.Tags = input.Tags
	customer.Note = input.Note
	customer.Address1 = input.Address1
	customer.Address2 = input.Address2
	customer.Company = input.Company
	customer.City = input.City
	customer.Province = input.Province
	customer.Country = input.Country
	customer.Zip = input.Zip
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
