package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

const DefaultCurrencySymbol = "$"

// Money formats amount with two decimals and thousand separators, e.g. "$1,234.50".
func Money(amount decimal.Decimal, symbol string) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	ac := accounting.Accounting{Symbol: symbol, Precision: 2, Thousand: ",", Decimal: "."}
	return ac.FormatMoneyDecimal(amount)
}

// NullMoney formats a nullable amount, returning "" when it is not set.
func NullMoney(amount decimal.NullDecimal, symbol string) string {
	if !amount.Valid {
		return ""
	}
	return Money(amount.Decimal, symbol)
}
