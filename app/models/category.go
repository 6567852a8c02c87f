package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const CategorySlugSeparator = "/"

const CategoryTitleSeparator = " / "

type Category struct {
	ID        string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Title     string     `gorm:"size:100;not null" json:"title"`
	Slug      string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Titles    string     `gorm:"size:1000" json:"titles"`
	ParentID  *string    `gorm:"size:36;index" json:"parent_id,omitempty"`
	Parent    *Category  `gorm:"foreignKey:ParentID" json:"-"`
	Children  []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Ordering  int        `json:"ordering"`
	Active    bool       `json:"active"`
	Products  []Product  `gorm:"many2many:product_categories;" json:"products,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
