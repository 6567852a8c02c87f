package models

import (
	"time"

	"github.com/Rakhulsr/go-cartridge/app/utils/calc"
	"github.com/shopspring/decimal"
)

// Priced holds the unit and sale price columns shared by Product and ProductVariation.
// SaleID tags a sale price written by a Sale so it can be cleared again.
type Priced struct {
	UnitPrice decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"unit_price"`
	SaleID    *string             `gorm:"size:36;index" json:"sale_id,omitempty"`
	SalePrice decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"sale_price"`
	SaleFrom  *time.Time          `json:"sale_from,omitempty"`
	SaleTo    *time.Time          `json:"sale_to,omitempty"`
}

func (p Priced) OnSale(now time.Time) bool {
	return calc.OnSale(p.SalePrice, p.SaleFrom, p.SaleTo, now)
}

func (p Priced) HasPrice(now time.Time) bool {
	return p.OnSale(now) || p.UnitPrice.Valid
}

func (p Priced) Price(now time.Time) decimal.Decimal {
	return calc.EffectivePrice(p.UnitPrice, p.SalePrice, p.SaleFrom, p.SaleTo, now)
}
