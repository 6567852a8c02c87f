package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cart struct {
	ID          string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Items       []CartItem `gorm:"foreignKey:CartID" json:"items"`
	LastUpdated time.Time  `gorm:"autoUpdateTime;index" json:"last_updated"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (c *Cart) HasItems() bool {
	return len(c.Items) > 0
}

func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

func (c *Cart) Skus() []string {
	skus := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		skus = append(skus, item.Sku)
	}
	return skus
}
