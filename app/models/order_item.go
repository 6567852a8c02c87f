package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem is the immutable copy of a cart line taken at checkout.
type OrderItem struct {
	ID      string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID string `gorm:"size:36;not null;index" json:"order_id"`
	SelectedProduct
	CreatedAt time.Time `json:"created_at"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}

func NewOrderItemFromCart(orderID string, ci CartItem) OrderItem {
	return OrderItem{
		OrderID:         orderID,
		SelectedProduct: ci.SelectedProduct,
	}
}
