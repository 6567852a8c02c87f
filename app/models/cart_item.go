package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartItem struct {
	ID     string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CartID string `gorm:"size:36;index;not null" json:"cart_id"`
	SelectedProduct
	URL       string    `gorm:"size:200" json:"url"`
	Image     string    `gorm:"size:200" json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ci.ID == "" {
		ci.ID = uuid.New().String()
	}
	return
}
