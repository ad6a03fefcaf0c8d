// Package fba computes Fulfillment-by-Amazon fee breakdowns.
package fba

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/apperr"
	"github.com/hapkiduki/landedcost/internal/domain/feeschedule"
	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

// daysPerMonth pro-rates the monthly storage rate to a per-day fee.
var daysPerMonth = decimal.NewFromInt(30)

// Input is the request for a fee calculation.
type Input struct {
	Dimensions valueobject.Dimensions `json:"dimensions"`
	Weight     valueobject.Weight     `json:"weight"`
	Category   string                 `json:"category"`
	Price      float64                `json:"price"`
}

// FeeBreakdown is the per-unit fee breakdown. All amounts are rounded to
// cents and Total is the exact sum of the four components.
type FeeBreakdown struct {
	SizeTier       valueobject.SizeTier              `json:"sizeTier"`
	Measurement    valueobject.NormalizedMeasurement `json:"measurement"`
	FulfillmentFee decimal.Decimal                   `json:"fulfillmentFee"`
	StorageFee     decimal.Decimal                   `json:"storageFee"`
	ReferralFee    decimal.Decimal                   `json:"referralFee"`
	OtherFees      decimal.Decimal                   `json:"otherFees"`
	Total          decimal.Decimal                   `json:"total"`

	// MonthlyStorageFee is the full-month storage charge for one unit. It is
	// informational and not part of Total.
	MonthlyStorageFee decimal.Decimal `json:"monthlyStorageFee"`
}

// Calculator runs normalize -> classify -> table lookups against a fee schedule.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	schedule *feeschedule.Schedule
}

// NewCalculator creates a Calculator over the given schedule.
// A nil schedule selects feeschedule.Default().
func NewCalculator(schedule *feeschedule.Schedule) *Calculator {
	if schedule == nil {
		schedule = feeschedule.Default()
	}
	return &Calculator{schedule: schedule}
}

// Schedule returns the fee schedule the calculator reads from.
func (c *Calculator) Schedule() *feeschedule.Schedule {
	return c.schedule
}

// Calculate computes the fee breakdown for one unit.
//
// Business Rules:
//   - storage fee = cubic feet * monthly rate / 30 (per-day basis); the
//     undivided monthly charge is reported separately
//   - referral fee = price * category referral rate
//   - other fees = flat category fee
//   - each component is rounded to cents before summing into Total
//
// Parameters:
//   - in: dimensions, weight, category and selling price
//
// Returns:
//   - FeeBreakdown: the per-unit fees
//   - error: *apperr.InvalidMeasurementError, *apperr.InvalidInputError for a
//     negative price, or *apperr.UnmappedFeeTableEntryError if the schedule
//     has a gap
func (c *Calculator) Calculate(in Input) (FeeBreakdown, error) {
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return FeeBreakdown{}, apperr.NewInvalidInput("price", "Price must be a finite number")
	}
	if in.Price < 0 {
		return FeeBreakdown{}, apperr.NewInvalidInput("price", "Price must not be negative")
	}

	m, err := valueobject.Normalize(in.Dimensions, in.Weight)
	if err != nil {
		return FeeBreakdown{}, err
	}
	tier := valueobject.Classify(m)

	fulfillment, err := c.schedule.FulfillmentFee(tier, m.WeightLb)
	if err != nil {
		return FeeBreakdown{}, err
	}
	monthly, err := c.monthlyStorage(tier, m)
	if err != nil {
		return FeeBreakdown{}, err
	}
	storage := monthly.Div(daysPerMonth)

	category, _ := c.schedule.Category(in.Category)
	referral := decimal.NewFromFloat(in.Price).Mul(category.ReferralRate)

	b := FeeBreakdown{
		SizeTier:       tier,
		Measurement:    m,
		FulfillmentFee: valueobject.RoundCents(fulfillment),
		StorageFee:     valueobject.RoundCents(storage),
		ReferralFee:    valueobject.RoundCents(referral),
		OtherFees:      valueobject.RoundCents(category.OtherFees),

		MonthlyStorageFee: valueobject.RoundCents(monthly),
	}
	b.Total = b.FulfillmentFee.Add(b.StorageFee).Add(b.ReferralFee).Add(b.OtherFees)
	return b, nil
}

func (c *Calculator) monthlyStorage(tier valueobject.SizeTier, m valueobject.NormalizedMeasurement) (decimal.Decimal, error) {
	rate, err := c.schedule.StorageRate(tier)
	if err != nil {
		return decimal.Decimal{}, err
	}
	cubicFeet := decimal.NewFromFloat(m.VolumeCubicInches()).Div(decimal.NewFromInt(1728))
	return cubicFeet.Mul(rate), nil
}
