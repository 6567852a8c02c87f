package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		symbol string
		want   string
	}{
		{"default symbol", "10", "", "$10.00"},
		{"thousands", "1234.5", "$", "$1,234.50"},
		{"custom symbol", "99.99", "Rp ", "Rp 99.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.amount), tt.symbol))
		})
	}
}

func TestNullMoney(t *testing.T) {
	assert.Equal(t, "", NullMoney(decimal.NullDecimal{}, "$"))
	assert.Equal(t, "$5.00", NullMoney(decimal.NewNullDecimal(decimal.NewFromInt(5)), "$"))
}
