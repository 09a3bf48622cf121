package domain

import (
	"context"
	"errors"

	"github.com/picksmart/storesync/internal/reconcile"
)

var (
	ErrNotFound   = errors.New("customer_not_found")
	ErrInvalidKey = errors.New("customer_missing_external_key")
)

// CustomerInput is one shopper record to reconcile. At least one of
// ShopifyID or Email must be set.
type CustomerInput struct {
	ShopifyID        int64
	Email            string
	FirstName        string
	LastName         string
	Phone            string
	AcceptsMarketing bool
	Tags             []string
	Note             string

	Address1 string
	Address2 string
	Company  string
	City     string
	Province string
	Country  string
	Zip      string
}

type Service interface {
	Upsert(ctx context.Context, input CustomerInput, mode reconcile.ConflictMode) (reconcile.Outcome, error)

	// FindLocalID matches an order reference to a stored customer, by
	// ShopifyID first and email as fallback. Returns ErrNotFound when
	// neither matches.
	FindLocalID(ctx context.Context, shopifyID int64, email string) (int64, error)
}
