package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// CalculateDiscount returns discountPercent percent of baseTotal.
func CalculateDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Div(hundred).Mul(discountPercent)
}

// CalculateDeduction returns deduct when it is strictly less than amount, zero otherwise.
func CalculateDeduction(amount, deduct decimal.Decimal) decimal.Decimal {
	if deduct.LessThan(amount) {
		return deduct
	}
	return decimal.Zero
}

func CalculateLineTotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// CalculateGrandTotal treats invalid shipping and discount as zero.
func CalculateGrandTotal(itemTotal decimal.Decimal, shipping, discount decimal.NullDecimal) decimal.Decimal {
	total := itemTotal
	if shipping.Valid {
		total = total.Add(shipping.Decimal)
	}
	if discount.Valid {
		total = total.Sub(discount.Decimal)
	}
	return total
}
