package models

import (
	"strings"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/utils/calc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountCode is entered at checkout and reduces the order total. It never
// changes catalog prices.
type DiscountCode struct {
	ID string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Discount
	Code         string              `gorm:"size:20;not null;uniqueIndex" json:"code"`
	MinPurchase  decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"min_purchase"`
	FreeShipping bool                `json:"free_shipping"`
	Products     []Product           `gorm:"many2many:discount_code_products;" json:"products,omitempty"`
	Categories   []Category          `gorm:"many2many:discount_code_categories;" json:"categories,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (dc *DiscountCode) BeforeCreate(tx *gorm.DB) (err error) {
	if dc.ID == "" {
		dc.ID = uuid.New().String()
	}
	dc.Code = NormalizeDiscountCode(dc.Code)
	return
}

func NormalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Calculate returns the discount for a purchase of amount.
func (dc *DiscountCode) Calculate(amount decimal.Decimal) decimal.Decimal {
	switch {
	case dc.DiscountDeduct.Valid:
		return calc.CalculateDeduction(amount, dc.DiscountDeduct.Decimal)
	case dc.DiscountPercent.Valid:
		return calc.CalculateDiscount(amount, dc.DiscountPercent.Decimal).Round(2)
	}
	return decimal.Zero
}

func (dc *DiscountCode) MeetsMinimum(amount decimal.Decimal) bool {
	return !dc.MinPurchase.Valid || dc.MinPurchase.Decimal.LessThanOrEqual(amount)
}

func (dc *DiscountCode) IsScoped() bool {
	return len(dc.Products) > 0 || len(dc.Categories) > 0
}
