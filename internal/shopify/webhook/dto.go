package webhook

import (
	"strings"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
	customerdomain "github.com/picksmart/storesync/internal/customer/domain"
	orderdomain "github.com/picksmart/storesync/internal/order/domain"
	"github.com/picksmart/storesync/internal/shopify/export"
)

// Payload shapes mirror the platform's entity JSON. Only the fields the
// reconcilers consume are declared.

type productPayload struct {
	ID          int64            `json:"id"`
	Handle      string           `json:"handle"`
	Title       string           `json:"title"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Tags        string           `json:"tags"`
	Status      string           `json:"status"`
	Variants    []variantPayload `json:"variants"`
	Images      []imagePayload   `json:"images"`
}

type variantPayload struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Barcode           string `json:"barcode"`
	Price             string `json:"price"`
	CompareAtPrice    string `json:"compare_at_price"`
	InventoryQuantity int    `json:"inventory_quantity"`
	Option1           string `json:"option1"`
	Option2           string `json:"option2"`
	Option3           string `json:"option3"`
	Grams             int    `json:"grams"`
}

type imagePayload struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Position int    `json:"position"`
}

type productDeletePayload struct {
	ID int64 `json:"id"`
}

type customerPayload struct {
	ID               int64           `json:"id"`
	Email            string          `json:"email"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	Phone            string          `json:"phone"`
	AcceptsMarketing bool            `json:"accepts_marketing"`
	Tags             string          `json:"tags"`
	Note             string          `json:"note"`
	DefaultAddress   *addressPayload `json:"default_address"`
}

type addressPayload struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	Company  string `json:"company"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
}

type orderPayload struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	FinancialStatus   string            `json:"financial_status"`
	FulfillmentStatus string            `json:"fulfillment_status"`
	Currency          string            `json:"currency"`
	SubtotalPrice     string            `json:"subtotal_price"`
	TotalTax          string            `json:"total_tax"`
	TotalDiscounts    string            `json:"total_discounts"`
	TotalPrice        string            `json:"total_price"`
	Customer          *customerPayload  `json:"customer"`
	LineItems         []lineItemPayload `json:"line_items"`
}

type lineItemPayload struct {
	Title    string `json:"title"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

func (p productPayload) toInput() catalogdomain.ProductInput {
	input := catalogdomain.ProductInput{
		Handle:      p.Handle,
		ShopifyID:   p.ID,
		Title:       p.Title,
		BodyHTML:    p.BodyHTML,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        export.SplitTags(p.Tags),
		Published:   strings.EqualFold(p.Status, "active"),
		Status:      parseStatus(p.Status),
	}

	srcByID := make(map[int64]string, len(p.Images))
	for _, img := range p.Images {
		input.Images = append(input.Images, catalogdomain.ImageInput{
			Src:      img.Src,
			AltText:  img.Alt,
			Position: img.Position,
		})
		srcByID[img.ID] = img.Src
	}

	for _, v := range p.Variants {
		price, _ := export.ParseMoney(v.Price)
		compareAt, _ := export.ParseMoney(v.CompareAtPrice)
		input.Variants = append(input.Variants, catalogdomain.VariantInput{
			Title:          v.Title,
			SKU:            v.SKU,
			Barcode:        v.Barcode,
			Price:          price,
			CompareAtPrice: compareAt,
			InventoryQty:   v.InventoryQuantity,
			Option1Value:   v.Option1,
			Option2Value:   v.Option2,
			Option3Value:   v.Option3,
			WeightGrams:    v.Grams,
		})
	}
	return input
}

func parseStatus(raw string) catalogdomain.ProductStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "draft":
		return catalogdomain.StatusDraft
	case "archived":
		return catalogdomain.StatusArchived
	default:
		return catalogdomain.StatusActive
	}
}

func (p customerPayload) toInput() customerdomain.CustomerInput {
	input := customerdomain.CustomerInput{
		ShopifyID:        p.ID,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Phone:            p.Phone,
		AcceptsMarketing: p.AcceptsMarketing,
		Tags:             export.SplitTags(p.Tags),
		Note:             p.Note,
	}
	if addr := p.DefaultAddress; addr != nil {
		input.Address1 = addr.Address1
		input.Address2 = addr.Address2
		input.Company = addr.Company
		input.City = addr.City
		input.Province = addr.Province
		input.Country = addr.Country
		input.Zip = addr.Zip
	}
	return input
}

func (p orderPayload) toInput() orderdomain.OrderInput {
	subtotal, _ := export.ParseMoney(p.SubtotalPrice)
	tax, _ := export.ParseMoney(p.TotalTax)
	discounts, _ := export.ParseMoney(p.TotalDiscounts)
	total, _ := export.ParseMoney(p.TotalPrice)

	input := orderdomain.OrderInput{
		Name:              p.Name,
		ShopifyID:         p.ID,
		Email:             p.Email,
		FinancialStatus:   p.FinancialStatus,
		FulfillmentStatus: p.FulfillmentStatus,
		Currency:          p.Currency,
		Subtotal:          subtotal,
		TotalTax:          tax,
		TotalDiscounts:    discounts,
		Total:             total,
	}
	if p.Customer != nil {
		input.CustomerShopifyID = p.Customer.ID
		if input.Email == "" {
			input.Email = p.Customer.Email
		}
	}
	for _, item := range p.LineItems {
		price, _ := export.ParseMoney(item.Price)
		input.Items = append(input.Items, orderdomain.OrderItemInput{
			Title:    item.Title,
			SKU:      item.SKU,
			Quantity: item.Quantity,
			Price:    price,
		})
	}
	return input
}
