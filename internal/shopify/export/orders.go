package export

import (
	"strconv"
	"strings"
	"time"

	orderdomain "github.com/picksmart/storesync/internal/order/domain"
)

// BuildOrders groups order export rows by order name. The export repeats one
// row per line item; order-level fields are populated only on the first row
// of each order, continuation rows carry line-item columns alone.
func BuildOrders(export *Export) ([]orderdomain.OrderInput, AggregateSummary) {
	summary := AggregateSummary{Rows: len(export.Rows)}

	byName := make(map[string]*orderdomain.OrderInput)
	order := make([]string, 0)

	for _, row := range export.Rows {
		name := strings.TrimSpace(row.Get(ColOrderName))
		if name == "" {
			summary.SkippedRows++
			continue
		}

		acc, ok := byName[name]
		if !ok {
			subtotal, _ := ParseMoney(row.Get(ColOrderSubtotal))
			taxes, _ := ParseMoney(row.Get(ColOrderTaxes))
			shipping, _ := ParseMoney(row.Get(ColOrderShipping))
			discount, _ := ParseMoney(row.Get(ColOrderDiscount))
			total, _ := ParseMoney(row.Get(ColOrderTotal))

			acc = &orderdomain.OrderInput{
				Name:              name,
				ShopifyID:         parseInt64(row.Get(ColOrderID)),
				Email:             strings.TrimSpace(row.Get(ColOrderEmail)),
				FinancialStatus:   strings.TrimSpace(row.Get(ColOrderFinancial)),
				FulfillmentStatus: strings.TrimSpace(row.Get(ColOrderFulfillment)),
				Currency:          strings.TrimSpace(row.Get(ColOrderCurrency)),
				Subtotal:          subtotal,
				TotalTax:          taxes,
				TotalShipping:     shipping,
				TotalDiscounts:    discount,
				Total:             total,
				ProcessedAt:       parseTime(row.Get(ColOrderPaidAt)),
				CancelledAt:       parseTime(row.Get(ColOrderCancelledAt)),
			}
			byName[name] = acc
			order = append(order, name)
		}

		title := strings.TrimSpace(row.Get(ColLineitemName))
		if title == "" {
			continue
		}
		price, _ := ParseMoney(row.Get(ColLineitemPrice))
		acc.Items = append(acc.Items, orderdomain.OrderItemInput{
			Title:    title,
			SKU:      strings.TrimSpace(row.Get(ColLineitemSKU)),
			Quantity: parseInt(row.Get(ColLineitemQuantity)),
			Price:    price,
		})
	}

	orders := make([]orderdomain.OrderInput, 0, len(order))
	for _, name := range order {
		orders = append(orders, *byName[name])
	}
	summary.Entities = len(orders)
	return orders, summary
}

func parseInt64(raw string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// parseTime accepts the export's timestamp shapes, e.g.
// "2024-03-05 11:22:33 -0500" or RFC 3339.
func parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05 -0700",
		time.RFC3339,
		"2006-01-02 15:04:05",
	} {
		if ts, err := time.Parse(layout, raw); err == nil {
			utc := ts.UTC()
			return &utc
		}
	}
	return nil
}
