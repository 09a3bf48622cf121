package domain

import "time"

// Category is one node in the catalog taxonomy. Path is the full breadcrumb
// joined with the configured separator and is the natural key for tree
// reconstruction. Name and Slug are globally unique; a name colliding with a
// node elsewhere in the tree is qualified with its parent name before
// slugging.
type Category struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"type:text;not null;uniqueIndex:ux_categories_name"`
	Slug     string `json:"slug" gorm:"type:text;not null;uniqueIndex:ux_categories_slug"`
	Path     string `json:"path" gorm:"type:text;not null;uniqueIndex:ux_categories_path"`
	ParentID *int64 `json:"parent_id,omitempty" gorm:"index"`

	// Level is zero-based depth. Roots are level 0.
	Level int `json:"level" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }
