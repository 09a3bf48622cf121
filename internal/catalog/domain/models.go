package domain

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusDraft    ProductStatus = "draft"
	StatusArchived ProductStatus = "archived"
)

// Product is a sellable item. Handle is the external stable key assigned by
// the source platform; it is the only safe natural key for matching across
// re-ingestions. The local snowflake ID is never written back into the
// external key space.
type Product struct {
	ID     int64  `json:"id" gorm:"primaryKey"`
	Handle string `json:"handle" gorm:"type:text;not null;uniqueIndex:ux_products_handle"`

	// ShopifyID is the source's numeric ID, learned from webhook payloads.
	// Deletion notifications carry only this ID, never the handle.
	ShopifyID int64 `json:"shopify_id" gorm:"index"`

	Title       string         `json:"title" gorm:"type:text;not null"`
	BodyHTML    string         `json:"body_html" gorm:"type:text"`
	Vendor      string         `json:"vendor" gorm:"type:text"`
	ProductType string         `json:"product_type" gorm:"type:text"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	Published   bool           `json:"published" gorm:"not null;default:false"`
	Status      ProductStatus  `json:"status" gorm:"type:text;not null;default:'active';index"`

	// Pricing snapshot in minor currency units.
	Price          int64 `json:"price" gorm:"not null;default:0"`
	CompareAtPrice int64 `json:"compare_at_price" gorm:"not null;default:0"`
	Cost           int64 `json:"cost" gorm:"not null;default:0"`

	// Denormalized aggregate stock across variants.
	TotalInventory int `json:"total_inventory" gorm:"not null;default:0"`

	CategoryID *int64 `json:"category_id,omitempty" gorm:"index"`

	Variants   []Variant   `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	Images     []Image     `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	Metafields []Metafield `json:"metafields,omitempty" gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// Variant is one purchasable configuration of a Product. It is owned
// exclusively by its Product and deleted with it.
type Variant struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	ProductID int64  `json:"product_id" gorm:"not null;index"`
	Title     string `json:"title" gorm:"type:text"`
	SKU       string `json:"sku" gorm:"type:text;index"`
	Barcode   string `json:"barcode" gorm:"type:text"`

	Price          int64 `json:"price" gorm:"not null;default:0"`
	CompareAtPrice int64 `json:"compare_at_price" gorm:"not null;default:0"`
	Cost           int64 `json:"cost" gorm:"not null;default:0"`

	InventoryQty int `json:"inventory_qty" gorm:"not null;default:0"`

	Option1Name  string `json:"option1_name" gorm:"type:text"`
	Option1Value string `json:"option1_value" gorm:"type:text"`
	Option2Name  string `json:"option2_name" gorm:"type:text"`
	Option2Value string `json:"option2_value" gorm:"type:text"`
	Option3Name  string `json:"option3_name" gorm:"type:text"`
	Option3Value string `json:"option3_value" gorm:"type:text"`

	WeightGrams int `json:"weight_grams" gorm:"not null;default:0"`

	// Reference to an owned Image of the same product, not ownership.
	ImageID *int64 `json:"image_id,omitempty"`

	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Variant) TableName() string { return "product_variants" }

// Image is a positioned visual asset owned by one Product. Display order is
// ascending position; ties keep insertion order.
type Image struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	ProductID int64     `json:"product_id" gorm:"not null;index"`
	Src       string    `json:"src" gorm:"type:text;not null"`
	AltText   string    `json:"alt_text" gorm:"type:text"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Image) TableName() string { return "product_images" }

// Metafield is a namespaced key/value attached to a Product.
// (ProductID, Namespace, Key) is unique; re-ingestion overwrites.
type Metafield struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	ProductID int64          `json:"product_id" gorm:"not null;uniqueIndex:ux_metafields_product_ns_key,priority:1"`
	Namespace string         `json:"namespace" gorm:"type:text;not null;uniqueIndex:ux_metafields_product_ns_key,priority:2"`
	Key       string         `json:"key" gorm:"type:text;not null;uniqueIndex:ux_metafields_product_ns_key,priority:3"`
	ValueType string         `json:"value_type" gorm:"type:text"`
	Value     datatypes.JSON `json:"value" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Metafield) TableName() string { return "product_metafields" }
