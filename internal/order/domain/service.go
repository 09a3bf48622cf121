package domain

import (
	"context"
	"errors"
	"time"

	"github.com/picksmart/storesync/internal/reconcile"
)

var (
	ErrNotFound    = errors.New("order_not_found")
	ErrInvalidName = errors.New("order_missing_name")
)

type OrderInput struct {
	Name      string
	ShopifyID int64

	// CustomerShopifyID and Email identify the shopper. The reconciler
	// resolves them to a local customer; both may be empty for guests.
	CustomerShopifyID int64
	Email             string

	FinancialStatus   string
	FulfillmentStatus string
	Currency          string

	Subtotal       int64
	TotalTax       int64
	TotalShipping  int64
	TotalDiscounts int64
	Total          int64

	ProcessedAt *time.Time
	CancelledAt *time.Time

	Items []OrderItemInput
}

type OrderItemInput struct {
	Title    string
	SKU      string
	Quantity int
	Price    int64
}

type Service interface {
	Upsert(ctx context.Context, input OrderInput, mode reconcile.ConflictMode) (reconcile.Outcome, error)
}
