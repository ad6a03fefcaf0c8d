// Package valueobject contains value objects that represent concepts without identity.
// Value objects are immutable and compared by their attributes rather than identity.
// They encapsulate validation logic and ensure data integrity.
//
// Value Objects follow these principles:
//   - Immutability: Once created, they cannot be changed.
//   - Equality: Two value objects are equal if all their attributes are equal.
//   - Self-validation: They validate their own data upon creation.
//   - Side-effect free: Methods returns new instances rather than modifying state
package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a monetary currency using ISO 4217 codes.
type Currency string

// Supported currencies in the system.
const (
	CurrencyUSD Currency = "USD" // US Dollar
	CurrencyEUR Currency = "EUR" // Euro
	CurrencyGBP Currency = "GBP" // British Pound
	CurrencyCAD Currency = "CAD" // Canadian Dollar
	CurrencyAUD Currency = "AUD" // Australian Dollar
)

// CentPlaces is the number of decimal places every exposed amount is rounded to.
const CentPlaces int32 = 2

// ErrInvalidCurrency is returned for a currency code outside the supported set.
var ErrInvalidCurrency = errors.New("invalid currency code")

// SupportedCurrencies lists the currencies ParseCurrency accepts.
func SupportedCurrencies() []Currency {
	return []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyCAD, CurrencyAUD}
}

// ParseCurrency validates an ISO 4217 code. An empty string yields USD.
func ParseCurrency(s string) (Currency, error) {
	code := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if code == "" {
		return CurrencyUSD, nil
	}
	if _, ok := currencySymbols[code]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return code, nil
}

// RoundCents rounds an amount to cents, half away from zero.
//
// Parameters:
//   - d: the amount at full precision
//
// Returns:
//   - decimal.Decimal: the amount rounded to two places
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// Money pairs an amount with its currency for display.
//
// Example usage:
//
//	price := valueobject.NewMoney(decimal.RequireFromString("19.99"), valueobject.CurrencyUSD)
//	price.Format() // $19.99
type Money struct {
	// Amount in major units (e.g., dollars).
	Amount decimal.Decimal `json:"amount"`

	// Currency using ISO 4217 code
	Currency Currency `json:"currency"`
}

// NewMoney creates a new Money value object.
//
// Parameters:
//   - amount: amount in major units
//   - currency: ISO 4217 currency code
//
// Returns:
//   - Money: the created Money value object
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// IsNegative checks if the Money amount is negative.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// String returns a formatted string representation of the Money.
//
// Returns:
//   - string: Formatted string (e.g., "USD 19.99")
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(CentPlaces))
}

// Format returns the money formatted with its currency symbol.
//
// Returns:
//   - string: Formatted string with currency symbol (e.g., "$19.99", "-€3.50")
func (m Money) Format() string {
	symbol := currencySymbol(m.Currency)
	if m.IsNegative() {
		return "-" + symbol + m.Amount.Neg().StringFixed(CentPlaces)
	}
	return symbol + m.Amount.StringFixed(CentPlaces)
}

var currencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyGBP: "£",
	CurrencyCAD: "CA$",
	CurrencyAUD: "A$",
}

// currencySymbol returns the symbol for a given currency.
func currencySymbol(c Currency) string {
	if symbol, ok := currencySymbols[c]; ok {
		return symbol
	}
	return string(c) + " "
}
