package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundCents_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"24.255", "24.26"},
		{"158.805", "158.81"},
		{"0.004", "0"},
		{"0.005", "0.01"},
		{"-1.005", "-1.01"},
	}
	for _, tt := range tests {
		got := RoundCents(decimal.RequireFromString(tt.in))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s -> %s", tt.in, got)
	}
}

func TestMoney_Format(t *testing.T) {
	usd := func(s string) Money { return NewMoney(decimal.RequireFromString(s), CurrencyUSD) }

	assert.Equal(t, "$19.99", usd("19.99").Format())
	assert.Equal(t, "$0.10", usd("0.1").Format())
	assert.Equal(t, "-€3.50", NewMoney(decimal.RequireFromString("-3.5"), CurrencyEUR).Format())
	assert.Equal(t, "USD 7.00", usd("7").String())
	assert.Equal(t, "JPY 1.00", NewMoney(decimal.NewFromInt(1), Currency("JPY")).Format())
}

func TestSupportedCurrencies(t *testing.T) {
	for _, c := range SupportedCurrencies() {
		got, err := ParseCurrency(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	assert.Len(t, SupportedCurrencies(), len(currencySymbols))
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("")
	require.NoError(t, err)
	assert.Equal(t, CurrencyUSD, c)

	c, err = ParseCurrency(" eur ")
	require.NoError(t, err)
	assert.Equal(t, CurrencyEUR, c)

	_, err = ParseCurrency("XYZ")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}
