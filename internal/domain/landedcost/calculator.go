// Package landedcost computes the duty/VAT cascade of an import and the
// resulting landed cost.
package landedcost

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/apperr"
	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

// DutyBase selects which costs make up the dutyable value.
type DutyBase string

// Duty base policies.
const (
	// DutyBaseInclusive assesses duty on product value + shipping + insurance (CIF).
	DutyBaseInclusive DutyBase = "inclusive"

	// DutyBaseExclusive assesses duty on the product value alone (FOB).
	DutyBaseExclusive DutyBase = "exclusive"
)

// ParseDutyBase parses a policy name. An empty string selects DutyBaseInclusive.
func ParseDutyBase(s string) (DutyBase, error) {
	switch DutyBase(strings.ToLower(strings.TrimSpace(s))) {
	case "", DutyBaseInclusive:
		return DutyBaseInclusive, nil
	case DutyBaseExclusive:
		return DutyBaseExclusive, nil
	}
	return "", fmt.Errorf("unknown duty base %q (use inclusive or exclusive)", s)
}

var hundred = decimal.NewFromInt(100)

// Input is the request for a landed-cost calculation. Rates are fractions
// (0.05 = 5%). Optional amounts default to zero and Quantity to one.
type Input struct {
	ProductValue  float64              `json:"productValue"`
	DutyRate      float64              `json:"dutyRate"`
	VATRate       float64              `json:"vatRate"`
	ShippingCost  float64              `json:"shippingCost,omitempty"`
	InsuranceCost float64              `json:"insuranceCost,omitempty"`
	FBAFeeAmount  float64              `json:"fbaFeeAmount,omitempty"`
	Quantity      int                  `json:"quantity,omitempty"`
	Currency      valueobject.Currency `json:"currency,omitempty"`

	// FBAFees, when valid, replaces FBAFeeAmount. Callers holding an exact
	// decimal fee total set it so the amount never passes through float64.
	FBAFees decimal.NullDecimal `json:"-"`
}

// Breakdown is the landed-cost cascade. Every amount is rounded to cents once,
// at exposure, and TotalLandedCost is the exact sum of DutyableValue,
// DutyAmount, VATAmount and FBAFeeAmount.
type Breakdown struct {
	Currency          valueobject.Currency `json:"currency"`
	Quantity          int                  `json:"quantity"`
	ProductValue      decimal.Decimal      `json:"productValue"`
	ShippingCost      decimal.Decimal      `json:"shippingCost"`
	InsuranceCost     decimal.Decimal      `json:"insuranceCost"`
	DutyableValue     decimal.Decimal      `json:"dutyableValue"`
	DutyAmount        decimal.Decimal      `json:"dutyAmount"`
	VATableValue      decimal.Decimal      `json:"vatableValue"`
	VATAmount         decimal.Decimal      `json:"vatAmount"`
	FBAFeeAmount      decimal.Decimal      `json:"fbaFeeAmount"`
	TotalLandedCost   decimal.Decimal      `json:"totalLandedCost"`
	CostPerUnit       decimal.Decimal      `json:"costPerUnit"`
	EffectiveDutyRate decimal.Decimal      `json:"effectiveDutyRate"`
}

// Calculator applies one duty base policy to every calculation.
type Calculator struct {
	dutyBase DutyBase
	currency valueobject.Currency
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithDutyBase sets the duty base policy.
func WithDutyBase(base DutyBase) Option {
	return func(c *Calculator) {
		c.dutyBase = base
	}
}

// WithCurrency sets the currency reported when an input leaves it empty.
func WithCurrency(currency valueobject.Currency) Option {
	return func(c *Calculator) {
		c.currency = currency
	}
}

// NewCalculator creates a Calculator. Defaults: inclusive duty base, USD.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		dutyBase: DutyBaseInclusive,
		currency: valueobject.CurrencyUSD,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DutyBase returns the calculator's duty base policy.
func (c *Calculator) DutyBase() DutyBase {
	return c.dutyBase
}

// DutyableValue returns the unrounded customs value of a shipment under the
// calculator's policy.
func (c *Calculator) DutyableValue(productValue, shippingCost, insuranceCost decimal.Decimal) decimal.Decimal {
	if c.dutyBase == DutyBaseExclusive {
		return productValue
	}
	return productValue.Add(shippingCost).Add(insuranceCost)
}

// Calculate runs the landed-cost cascade.
//
// Business Rules (order matters):
//  1. dutyable = product value (+ shipping + insurance under the inclusive policy)
//  2. duty     = dutyable * duty rate
//  3. vatable  = dutyable + duty
//  4. VAT      = vatable * VAT rate
//  5. total    = dutyable + duty + VAT + FBA fees
//  6. effective duty rate = duty / product value * 100
//
// Intermediate values keep full precision; each exposed value is rounded
// to cents once, and the total is summed from the rounded parts.
//
// Parameters:
//   - in: shipment values and rates
//
// Returns:
//   - Breakdown: the cascade
//   - error: *apperr.InvalidInputError naming the offending field
func (c *Calculator) Calculate(in Input) (Breakdown, error) {
	if err := c.validate(in); err != nil {
		return Breakdown{}, err
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	currency := in.Currency
	if currency == "" {
		currency = c.currency
	}

	productValue := decimal.NewFromFloat(in.ProductValue)
	shipping := decimal.NewFromFloat(in.ShippingCost)
	insurance := decimal.NewFromFloat(in.InsuranceCost)
	fbaFees := decimal.NewFromFloat(in.FBAFeeAmount)
	if in.FBAFees.Valid {
		fbaFees = in.FBAFees.Decimal
	}

	dutyable := c.DutyableValue(productValue, shipping, insurance)
	duty := dutyable.Mul(decimal.NewFromFloat(in.DutyRate))
	vatable := dutyable.Add(duty)
	vat := vatable.Mul(decimal.NewFromFloat(in.VATRate))

	b := Breakdown{
		Currency:          currency,
		Quantity:          quantity,
		ProductValue:      valueobject.RoundCents(productValue),
		ShippingCost:      valueobject.RoundCents(shipping),
		InsuranceCost:     valueobject.RoundCents(insurance),
		DutyableValue:     valueobject.RoundCents(dutyable),
		DutyAmount:        valueobject.RoundCents(duty),
		VATableValue:      valueobject.RoundCents(vatable),
		VATAmount:         valueobject.RoundCents(vat),
		FBAFeeAmount:      valueobject.RoundCents(fbaFees),
		EffectiveDutyRate: valueobject.RoundCents(duty.Div(productValue).Mul(hundred)),
	}
	b.TotalLandedCost = b.DutyableValue.Add(b.DutyAmount).Add(b.VATAmount).Add(b.FBAFeeAmount)
	b.CostPerUnit = valueobject.RoundCents(b.TotalLandedCost.Div(decimal.NewFromInt(int64(quantity))))
	return b, nil
}

func (c *Calculator) validate(in Input) error {
	if !isFinite(in.ProductValue) || in.ProductValue <= 0 {
		return apperr.NewInvalidInput("productValue", "Product value must be greater than 0")
	}
	if !isFinite(in.DutyRate) || in.DutyRate < 0 || in.DutyRate > 1 {
		return apperr.NewInvalidInput("dutyRate", "Duty rate must be between 0 and 1")
	}
	if !isFinite(in.VATRate) || in.VATRate < 0 || in.VATRate > 1 {
		return apperr.NewInvalidInput("vatRate", "VAT rate must be between 0 and 1")
	}

	amounts := []struct {
		field string
		label string
		value float64
	}{
		{"shippingCost", "Shipping cost", in.ShippingCost},
		{"insuranceCost", "Insurance cost", in.InsuranceCost},
		{"fbaFeeAmount", "FBA fee amount", in.FBAFeeAmount},
	}
	for _, a := range amounts {
		if !isFinite(a.value) || a.value < 0 {
			return apperr.NewInvalidInput(a.field, "%s must not be negative", a.label)
		}
	}

	if in.FBAFees.Valid && in.FBAFees.Decimal.IsNegative() {
		return apperr.NewInvalidInput("fbaFeeAmount", "FBA fee amount must not be negative")
	}

	if in.Quantity < 0 {
		return apperr.NewInvalidInput("quantity", "Quantity must not be negative")
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
