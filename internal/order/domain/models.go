package domain

import "time"

// Order is one placed order. Name (the "#1001" style order number) is the
// external stable key; ShopifyID is kept when the source supplies it.
// Customer linkage is optional because guest checkouts have none.
type Order struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"type:text;not null;uniqueIndex:ux_orders_name"`
	ShopifyID int64  `json:"shopify_id" gorm:"index"`

	CustomerID *int64 `json:"customer_id,omitempty" gorm:"index"`
	Email      string `json:"email" gorm:"type:text;index"`

	FinancialStatus   string `json:"financial_status" gorm:"type:text"`
	FulfillmentStatus string `json:"fulfillment_status" gorm:"type:text"`
	Currency          string `json:"currency" gorm:"type:text"`

	// Monetary totals in minor currency units.
	Subtotal       int64 `json:"subtotal" gorm:"not null;default:0"`
	TotalTax       int64 `json:"total_tax" gorm:"not null;default:0"`
	TotalShipping  int64 `json:"total_shipping" gorm:"not null;default:0"`
	TotalDiscounts int64 `json:"total_discounts" gorm:"not null;default:0"`
	Total          int64 `json:"total" gorm:"not null;default:0"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a frozen snapshot of what was bought at order time. It
// deliberately carries no foreign key into the catalog: later product edits
// or archival must never rewrite order history.
type OrderItem struct {
	ID      int64 `json:"id" gorm:"primaryKey"`
	OrderID int64 `json:"order_id" gorm:"not null;index"`

	Title    string `json:"title" gorm:"type:text;not null"`
	SKU      string `json:"sku" gorm:"type:text"`
	Quantity int    `json:"quantity" gorm:"not null;default:0"`
	Price    int64  `json:"price" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OrderItem) TableName() string { return "order_items" }
