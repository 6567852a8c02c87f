package calc

import (
	"time"

	"github.com/shopspring/decimal"
)

// OnSale reports whether salePrice applies at now. Nil bounds are open.
func OnSale(salePrice decimal.NullDecimal, from, to *time.Time, now time.Time) bool {
	if !salePrice.Valid {
		return false
	}
	if from != nil && now.Before(*from) {
		return false
	}
	if to != nil && now.After(*to) {
		return false
	}
	return true
}

func EffectivePrice(unitPrice, salePrice decimal.NullDecimal, from, to *time.Time, now time.Time) decimal.Decimal {
	if OnSale(salePrice, from, to, now) {
		return salePrice.Decimal
	}
	if unitPrice.Valid {
		return unitPrice.Decimal
	}
	return decimal.Zero
}
