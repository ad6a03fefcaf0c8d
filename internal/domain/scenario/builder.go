// Package scenario builds profitability scenarios from the fee and landed-cost
// calculators and compares them.
package scenario

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/apperr"
	"github.com/hapkiduki/landedcost/internal/domain/fba"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// Input describes one what-if scenario. ProductValue, ShippingCost and
// InsuranceCost cover the whole shipment; SellingPrice is per unit.
type Input struct {
	Name          string                 `json:"name"`
	Dimensions    valueobject.Dimensions `json:"dimensions"`
	Weight        valueobject.Weight     `json:"weight"`
	Category      string                 `json:"category"`
	ProductValue  float64                `json:"productValue"`
	DutyRate      float64                `json:"dutyRate"`
	VATRate       float64                `json:"vatRate"`
	ShippingCost  float64                `json:"shippingCost,omitempty"`
	InsuranceCost float64                `json:"insuranceCost,omitempty"`
	SellingPrice  float64                `json:"sellingPrice"`
	Quantity      int                    `json:"quantity,omitempty"`
	Currency      valueobject.Currency   `json:"currency,omitempty"`
}

// Result is a landed-cost breakdown and a per-unit fee breakdown with the
// profitability figures derived from them.
type Result struct {
	Name         string              `json:"name"`
	SellingPrice decimal.Decimal     `json:"sellingPrice"`
	Quantity     int                 `json:"quantity"`
	Revenue      decimal.Decimal     `json:"revenue"`
	LandedCost   landedcost.Breakdown `json:"landedCost"`
	Fees         fba.FeeBreakdown    `json:"fees"`

	// ProfitAmount is Revenue minus the total landed cost.
	ProfitAmount decimal.Decimal `json:"profitAmount"`

	// ProfitMargin is profit as a percentage of revenue.
	ProfitMargin decimal.Decimal `json:"profitMargin"`

	// ROI is profit as a percentage of the total landed cost.
	ROI decimal.Decimal `json:"roi"`

	// BreakEvenQuantity is the number of units that must sell to recover the
	// total landed cost.
	BreakEvenQuantity int64 `json:"breakEvenQuantity"`
}

// Builder runs the fee and landed-cost calculators for a scenario.
type Builder struct {
	fees   *fba.Calculator
	landed *landedcost.Calculator
}

// NewBuilder creates a Builder. Nil calculators select the defaults.
func NewBuilder(fees *fba.Calculator, landed *landedcost.Calculator) *Builder {
	if fees == nil {
		fees = fba.NewCalculator(nil)
	}
	if landed == nil {
		landed = landedcost.NewCalculator()
	}
	return &Builder{fees: fees, landed: landed}
}

// Build computes a scenario result.
//
// Business Rules:
//  1. fees are computed per unit at the selling price
//  2. the landed cost folds in the per-unit fee total times quantity
//  3. revenue = selling price * quantity; profit = revenue - total landed cost
//  4. margin = profit / revenue * 100; ROI = profit / total landed cost * 100
//  5. break-even quantity = ceil(total landed cost / selling price)
//
// Parameters:
//   - in: the scenario
//
// Returns:
//   - Result: the computed scenario
//   - error: a validation error from either calculator, or
//     *apperr.InvalidInputError when the selling price rounds to less than a cent
func (b *Builder) Build(in Input) (Result, error) {
	if math.IsNaN(in.SellingPrice) || math.IsInf(in.SellingPrice, 0) {
		return Result{}, apperr.NewInvalidInput("sellingPrice", "Selling price must be a finite number")
	}
	price := valueobject.RoundCents(decimal.NewFromFloat(in.SellingPrice))
	if !price.IsPositive() {
		return Result{}, apperr.NewInvalidInput("sellingPrice", "Selling price must be at least 0.01")
	}
	if in.Quantity < 0 {
		return Result{}, apperr.NewInvalidInput("quantity", "Quantity must not be negative")
	}
	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	fees, err := b.fees.Calculate(fba.Input{
		Dimensions: in.Dimensions,
		Weight:     in.Weight,
		Category:   in.Category,
		Price:      in.SellingPrice,
	})
	if err != nil {
		return Result{}, err
	}

	units := decimal.NewFromInt(int64(quantity))

	landed, err := b.landed.Calculate(landedcost.Input{
		ProductValue:  in.ProductValue,
		DutyRate:      in.DutyRate,
		VATRate:       in.VATRate,
		ShippingCost:  in.ShippingCost,
		InsuranceCost: in.InsuranceCost,
		FBAFees:       decimal.NewNullDecimal(fees.Total.Mul(units)),
		Quantity:      quantity,
		Currency:      in.Currency,
	})
	if err != nil {
		return Result{}, err
	}

	revenue := price.Mul(units)
	total := landed.TotalLandedCost
	profit := revenue.Sub(total)

	return Result{
		Name:              strings.TrimSpace(in.Name),
		SellingPrice:      price,
		Quantity:          quantity,
		Revenue:           revenue,
		LandedCost:        landed,
		Fees:              fees,
		ProfitAmount:      profit,
		ProfitMargin:      percentOf(profit, revenue),
		ROI:               percentOf(profit, total),
		BreakEvenQuantity: total.Div(price).Ceil().IntPart(),
	}, nil
}

// percentOf returns part / whole * 100 rounded to cents, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return valueobject.RoundCents(part.Div(whole).Mul(hundred))
}
