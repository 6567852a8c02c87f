package calc

import "github.com/shopspring/decimal"

// Reduction is a bulk price rule. Only the first valid mode is used, checked
// in the order Deduct, Percent, Exact.
type Reduction struct {
	Deduct  decimal.NullDecimal
	Percent decimal.NullDecimal
	Exact   decimal.NullDecimal
}

func (r Reduction) IsZero() bool {
	return !r.Deduct.Valid && !r.Percent.Valid && !r.Exact.Valid
}

// Apply returns the reduced price for unitPrice and whether the rule applies to it.
// A deduction is skipped where it would not leave a positive price and an exact
// price is skipped where the unit price is already at or below it.
func (r Reduction) Apply(unitPrice decimal.Decimal) (decimal.Decimal, bool) {
	switch {
	case r.Deduct.Valid:
		if !unitPrice.GreaterThan(r.Deduct.Decimal) {
			return decimal.Zero, false
		}
		return unitPrice.Sub(r.Deduct.Decimal), true
	case r.Percent.Valid:
		return unitPrice.Sub(CalculateDiscount(unitPrice, r.Percent.Decimal)).Round(2), true
	case r.Exact.Valid:
		if !unitPrice.GreaterThan(r.Exact.Decimal) {
			return decimal.Zero, false
		}
		return r.Exact.Decimal, true
	}
	return decimal.Zero, false
}
