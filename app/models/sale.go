package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale writes a sale price onto every product and variation in its scope while active.
type Sale struct {
	ID string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Discount
	Products   []Product  `gorm:"many2many:sale_products;" json:"products,omitempty"`
	Categories []Category `gorm:"many2many:sale_categories;" json:"categories,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}
