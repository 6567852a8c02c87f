package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Slug        string `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Keywords    string `gorm:"size:200" json:"keywords"`
	Active      bool   `json:"active"`
	Available   bool   `json:"available"`
	// Image mirrors the default variation's image file.
	Image string `gorm:"size:255" json:"image"`
	Priced
	Categories []Category         `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	Images     []ProductImage     `json:"images,omitempty"`
	Variations []ProductVariation `json:"variations,omitempty"`
	DateAdded  time.Time          `gorm:"autoCreateTime" json:"date_added"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type ProductCategory struct {
	ProductID  string `gorm:"size:36;primaryKey"`
	CategoryID string `gorm:"size:36;primaryKey"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// URL is the storefront path a product is addressed by.
func (p *Product) URL() string {
	return "/products/" + p.Slug
}
