package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/clock"
	customerdomain "github.com/picksmart/storesync/internal/customer/domain"
	"github.com/picksmart/storesync/internal/order/domain"
	"github.com/picksmart/storesync/internal/reconcile"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Customers customerdomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	genID     *snowflake.Node
	clock     clock.Clock
	customers customerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("order.service"),
		repo:      p.Repo,
		genID:     p.GenID,
		clock:     p.Clock,
		customers: p.Customers,
	}
}

func (s *Service) Upsert(ctx context.Context, input domain.OrderInput, mode reconcile.ConflictMode) (reconcile.Outcome, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", domain.ErrInvalidName
	}

	existing, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil && err != domain.ErrNotFound {
		return "", err
	}

	if existing == nil {
		if err := s.create(ctx, name, input); err != nil {
			return "", err
		}
		return reconcile.OutcomeCreated, nil
	}

	if mode == reconcile.ConflictSkip {
		s.log.Debug("existing order left untouched",
			zap.String("name", name),
		)
		return reconcile.OutcomeSkipped, nil
	}

	if err := s.update(ctx, existing, input); err != nil {
		return "", err
	}
	return reconcile.OutcomeUpdated, nil
}

func (s *Service) create(ctx context.Context, name string, input domain.OrderInput) error {
	now := s.clock.Now()
	order := &domain.Order{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.applyInput(ctx, order, input)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, order); err != nil {
			return err
		}
		return s.repo.InsertItems(ctx, tx, s.buildItems(order.ID, input.Items))
	})
}

func (s *Service) update(ctx context.Context, existing *domain.Order, input domain.OrderInput) error {
	s.applyInput(ctx, existing, input)
	existing.UpdatedAt = s.clock.Now()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, existing); err != nil {
			return err
		}
		if err := s.repo.DeleteItems(ctx, tx, existing.ID); err != nil {
			return err
		}
		return s.repo.InsertItems(ctx, tx, s.buildItems(existing.ID, input.Items))
	})
}

func (s *Service) applyInput(ctx context.Context, order *domain.Order, input domain.OrderInput) {
	if input.ShopifyID != 0 {
		order.ShopifyID = input.ShopifyID
	}
	order.Email = strings.ToLower(strings.TrimSpace(input.Email))
	order.FinancialStatus = input.FinancialStatus
	order.FulfillmentStatus = input.FulfillmentStatus
	order.Currency = input.Currency
	order.Subtotal = input.Subtotal
	order.TotalTax = input.TotalTax
	order.TotalShipping = input.TotalShipping
	order.TotalDiscounts = input.TotalDiscounts
	order.Total = input.Total
	order.ProcessedAt = input.ProcessedAt
	order.CancelledAt = input.CancelledAt

	// Guest checkouts stay unlinked. A missing customer record is not an
	// error either; the linkage is best effort.
	if input.CustomerShopifyID != 0 || order.Email != "" {
		customerID, err := s.customers.FindLocalID(ctx, input.CustomerShopifyID, order.Email)
		switch {
		case err == nil:
			order.CustomerID = &customerID
		case err == customerdomain.ErrNotFound:
			s.log.Debug("no local customer for order",
				zap.String("name", order.Name),
			)
		default:
			s.log.Warn("customer lookup failed",
				zap.String("name", order.Name),
				zap.Error(err),
			)
		}
	}
}

func (s *Service) buildItems(orderID int64, inputs []domain.OrderItemInput) []domain.OrderItem {
	now := s.clock.Now()
	items := make([]domain.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, domain.OrderItem{
			ID:        s.genID.Generate().Int64(),
			OrderID:   orderID,
			Title:     in.Title,
			SKU:       in.SKU,
			Quantity:  in.Quantity,
			Price:     in.Price,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return items
}
