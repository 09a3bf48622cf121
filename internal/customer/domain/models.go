package domain

import (
	"time"

	"github.com/lib/pq"
)

// Customer mirrors one shopper record from the source platform. ShopifyID is
// the external stable key; email is the secondary match key used when a
// record arrives without an ID.
type Customer struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	ShopifyID int64  `json:"shopify_id" gorm:"not null;uniqueIndex:ux_customers_shopify_id"`
	Email     string `json:"email" gorm:"type:text;index:ix_customers_email"`

	FirstName        string         `json:"first_name" gorm:"type:text"`
	LastName         string         `json:"last_name" gorm:"type:text"`
	Phone            string         `json:"phone" gorm:"type:text"`
	AcceptsMarketing bool           `json:"accepts_marketing" gorm:"not null;default:false"`
	Tags             pq.StringArray `json:"tags" gorm:"type:text[]"`
	Note             string         `json:"note" gorm:"type:text"`

	Address1 string `json:"address1" gorm:"type:text"`
	Address2 string `json:"address2" gorm:"type:text"`
	Company  string `json:"company" gorm:"type:text"`
	City     string `json:"city" gorm:"type:text"`
	Province string `json:"province" gorm:"type:text"`
	Country  string `json:"country" gorm:"type:text"`
	Zip      string `json:"zip" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Customer) TableName() string { return "customers" }
