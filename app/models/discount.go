package models

import (
	"time"

	"github.com/Rakhulsr/go-cartridge/app/utils/calc"
	"github.com/shopspring/decimal"
)

// Discount holds the reduction rule and validity window shared by Sale and DiscountCode.
// Only one of DiscountDeduct, DiscountPercent and DiscountExact is expected to be set.
type Discount struct {
	Title           string              `gorm:"size:100;not null" json:"title"`
	Active          bool                `json:"active"`
	DiscountDeduct  decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"discount_deduct"`
	DiscountPercent decimal.NullDecimal `gorm:"type:decimal(4,2)" json:"discount_percent"`
	DiscountExact   decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"discount_exact"`
	ValidFrom       *time.Time          `json:"valid_from,omitempty"`
	ValidTo         *time.Time          `json:"valid_to,omitempty"`
}

func (d Discount) Reduction() calc.Reduction {
	return calc.Reduction{
		Deduct:  d.DiscountDeduct,
		Percent: d.DiscountPercent,
		Exact:   d.DiscountExact,
	}
}

func (d Discount) IsValidAt(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidTo != nil && now.After(*d.ValidTo) {
		return false
	}
	return true
}
