package feeschedule

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

// openEnded is the bound of the last bracket in every tier.
var openEnded = math.Inf(1)

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultDefinition returns the built-in fee tables (USD).
func DefaultDefinition() Definition {
	return Definition{
		Fulfillment: map[valueobject.SizeTier][]Bracket{
			// The tier caps weight at 1 lb, so a single band covers it.
			valueobject.SizeTierSmallStandard: {
				{MaxWeightLb: openEnded, Fee: usd("3.22")},
			},
			valueobject.SizeTierLargeStandard: {
				{MaxWeightLb: 1, Fee: usd("3.30")},
				{MaxWeightLb: 2, Fee: usd("3.45")},
				{MaxWeightLb: 3, Fee: usd("3.58")},
				{MaxWeightLb: openEnded, Fee: usd("5.42")},
			},
			valueobject.SizeTierOversize: {
				{MaxWeightLb: 20, Fee: usd("13.05")},
				{MaxWeightLb: 50, Fee: usd("18.45")},
				{MaxWeightLb: openEnded, Fee: usd("25.60")},
			},
			valueobject.SizeTierSpecialOversize: {
				{MaxWeightLb: 70, Fee: usd("26.33")},
				{MaxWeightLb: 90, Fee: usd("30.50")},
				{MaxWeightLb: 150, Fee: usd("52.80")},
				{MaxWeightLb: openEnded, Fee: usd("89.98")},
			},
		},
		StorageRates: map[valueobject.SizeTier]decimal.Decimal{
			valueobject.SizeTierSmallStandard:   usd("0.75"),
			valueobject.SizeTierLargeStandard:   usd("0.75"),
			valueobject.SizeTierOversize:        usd("0.48"),
			valueobject.SizeTierSpecialOversize: usd("0.48"),
		},
		Categories: map[string]CategoryFees{
			"Electronics": {ReferralRate: usd("0.08"), OtherFees: usd("0.80")},
			"Home Goods":  {ReferralRate: usd("0.15"), OtherFees: decimal.Zero},
			"Sports":      {ReferralRate: usd("0.15"), OtherFees: decimal.Zero},
			"Clothing":    {ReferralRate: usd("0.17"), OtherFees: decimal.Zero},
			"Books":       {ReferralRate: usd("0.15"), OtherFees: usd("1.80")},
			"Toys":        {ReferralRate: usd("0.15"), OtherFees: decimal.Zero},
			"Beauty":      {ReferralRate: usd("0.08"), OtherFees: decimal.Zero},
			"Jewelry":     {ReferralRate: usd("0.20"), OtherFees: decimal.Zero},
		},
		DefaultCategory: CategoryFees{ReferralRate: usd("0.15"), OtherFees: decimal.Zero},
	}
}

var (
	defaultOnce     sync.Once
	defaultSchedule *Schedule
)

// Default returns the process-wide built-in schedule. It is built on first
// use and never mutated.
//
// Panics if the built-in tables are invalid.
func Default() *Schedule {
	defaultOnce.Do(func() {
		defaultSchedule = MustNew(DefaultDefinition())
	})
	return defaultSchedule
}

// MustNew is like New but panics on an invalid definition.
func MustNew(def Definition) *Schedule {
	s, err := New(def)
	if err != nil {
		panic(err)
	}
	return s
}
