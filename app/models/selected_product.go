package models

import (
	"github.com/Rakhulsr/go-cartridge/app/utils/calc"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SelectedProduct is the line item snapshot shared by cart and order items.
type SelectedProduct struct {
	Sku         string          `gorm:"size:100;index;not null" json:"sku"`
	Description string          `gorm:"size:200" json:"description"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total_price"`
}

// BeforeSave recomputes TotalPrice from the unit price and quantity.
func (sp *SelectedProduct) BeforeSave(tx *gorm.DB) (err error) {
	sp.TotalPrice = calc.CalculateLineTotal(sp.UnitPrice, sp.Quantity)
	return
}
