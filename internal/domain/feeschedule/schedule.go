// Package feeschedule holds the fulfillment, storage and category fee tables.
// A Schedule is validated once on construction and is read-only afterwards,
// so a single instance can be shared by any number of concurrent calculations.
package feeschedule

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/apperr"
	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

// ErrInvalidSchedule is returned when a fee table fails validation.
var ErrInvalidSchedule = errors.New("invalid fee schedule")

// Bracket is one "weight <= MaxWeightLb" band of a tier's fulfillment fees.
type Bracket struct {
	// MaxWeightLb is the inclusive upper bound in pounds. The last bracket of a
	// tier is open-ended (+Inf).
	MaxWeightLb float64 `json:"maxWeightLb"`

	// Fee is the per-unit fulfillment fee for the band.
	Fee decimal.Decimal `json:"fee"`
}

// CategoryFees are the per-category selling fees.
type CategoryFees struct {
	// ReferralRate is the fraction of the selling price charged as referral fee.
	ReferralRate decimal.Decimal `json:"referralRate"`

	// OtherFees is a flat per-unit fee (e.g., closing fee).
	OtherFees decimal.Decimal `json:"otherFees"`
}

// Definition is the declarative input to New.
type Definition struct {
	// Fulfillment maps each tier to its ascending weight brackets.
	Fulfillment map[valueobject.SizeTier][]Bracket

	// StorageRates maps each tier to the monthly rate per cubic foot.
	StorageRates map[valueobject.SizeTier]decimal.Decimal

	// Categories maps a case-sensitive category name to its fees.
	Categories map[string]CategoryFees

	// DefaultCategory applies to categories missing from Categories.
	DefaultCategory CategoryFees
}

// Schedule is an immutable, validated set of fee tables.
type Schedule struct {
	fulfillment     map[valueobject.SizeTier][]Bracket
	storageRates    map[valueobject.SizeTier]decimal.Decimal
	categories      map[string]CategoryFees
	defaultCategory CategoryFees
}

// New validates a definition and returns a Schedule that owns a private copy
// of its tables.
//
// The tables must be total over valueobject.AllSizeTiers: every tier needs
// at least one bracket, strictly ascending bounds ending in +Inf, non-decreasing
// fees, and a storage rate.
//
// Parameters:
//   - def: the fee tables
//
// Returns:
//   - *Schedule: the validated schedule
//   - error: ErrInvalidSchedule (wrapped) describing the first problem found
func New(def Definition) (*Schedule, error) {
	if err := validate(def); err != nil {
		return nil, err
	}

	s := &Schedule{
		fulfillment:     make(map[valueobject.SizeTier][]Bracket, len(def.Fulfillment)),
		storageRates:    make(map[valueobject.SizeTier]decimal.Decimal, len(def.StorageRates)),
		categories:      make(map[string]CategoryFees, len(def.Categories)),
		defaultCategory: def.DefaultCategory,
	}
	for tier, brackets := range def.Fulfillment {
		s.fulfillment[tier] = append([]Bracket(nil), brackets...)
	}
	for tier, rate := range def.StorageRates {
		s.storageRates[tier] = rate
	}
	for name, fees := range def.Categories {
		s.categories[name] = fees
	}
	return s, nil
}

func validate(def Definition) error {
	for _, tier := range valueobject.AllSizeTiers() {
		brackets, ok := def.Fulfillment[tier]
		if !ok || len(brackets) == 0 {
			return fmt.Errorf("%w: no fulfillment brackets for tier %s", ErrInvalidSchedule, tier)
		}
		for i, b := range brackets {
			if b.Fee.IsNegative() {
				return fmt.Errorf("%w: negative fee in tier %s bracket %d", ErrInvalidSchedule, tier, i)
			}
			if i == 0 {
				continue
			}
			prev := brackets[i-1]
			if b.MaxWeightLb <= prev.MaxWeightLb {
				return fmt.Errorf("%w: brackets of tier %s are not strictly ascending", ErrInvalidSchedule, tier)
			}
			if b.Fee.LessThan(prev.Fee) {
				return fmt.Errorf("%w: fee decreases with weight in tier %s", ErrInvalidSchedule, tier)
			}
		}
		if last := brackets[len(brackets)-1]; !math.IsInf(last.MaxWeightLb, 1) {
			return fmt.Errorf("%w: last bracket of tier %s must be open-ended", ErrInvalidSchedule, tier)
		}

		rate, ok := def.StorageRates[tier]
		if !ok {
			return fmt.Errorf("%w: no storage rate for tier %s", ErrInvalidSchedule, tier)
		}
		if rate.IsNegative() {
			return fmt.Errorf("%w: negative storage rate for tier %s", ErrInvalidSchedule, tier)
		}
	}

	for name, fees := range def.Categories {
		if err := validateCategory(fees); err != nil {
			return fmt.Errorf("%w: category %q: %v", ErrInvalidSchedule, name, err)
		}
	}
	if err := validateCategory(def.DefaultCategory); err != nil {
		return fmt.Errorf("%w: default category: %v", ErrInvalidSchedule, err)
	}
	return nil
}

func validateCategory(fees CategoryFees) error {
	if fees.ReferralRate.IsNegative() || fees.ReferralRate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("referral rate must be between 0 and 1")
	}
	if fees.OtherFees.IsNegative() {
		return errors.New("other fees must not be negative")
	}
	return nil
}

// FulfillmentFee returns the fee of the first bracket whose bound is at or
// above weightLb.
//
// Parameters:
//   - tier: the package's size tier
//   - weightLb: the package weight in pounds
//
// Returns:
//   - decimal.Decimal: the per-unit fulfillment fee
//   - error: *apperr.UnmappedFeeTableEntryError if no bracket matches
func (s *Schedule) FulfillmentFee(tier valueobject.SizeTier, weightLb float64) (decimal.Decimal, error) {
	for _, b := range s.fulfillment[tier] {
		if weightLb <= b.MaxWeightLb {
			return b.Fee, nil
		}
	}
	return decimal.Decimal{}, &apperr.UnmappedFeeTableEntryError{
		Table:    "fulfillment",
		Tier:     tier.String(),
		WeightLb: weightLb,
	}
}

// StorageRate returns the monthly storage rate per cubic foot for a tier.
func (s *Schedule) StorageRate(tier valueobject.SizeTier) (decimal.Decimal, error) {
	rate, ok := s.storageRates[tier]
	if !ok {
		return decimal.Decimal{}, &apperr.UnmappedFeeTableEntryError{Table: "storage", Tier: tier.String()}
	}
	return rate, nil
}

// Category returns the fees for a category, falling back to the default entry
// when the name is not listed. The match is case-sensitive.
//
// Returns:
//   - CategoryFees: the fees that apply
//   - bool: false when the default entry was used
func (s *Schedule) Category(name string) (CategoryFees, bool) {
	if fees, ok := s.categories[name]; ok {
		return fees, true
	}
	return s.defaultCategory, false
}

// Brackets returns a copy of a tier's brackets, for display.
func (s *Schedule) Brackets(tier valueobject.SizeTier) []Bracket {
	return append([]Bracket(nil), s.fulfillment[tier]...)
}

// CategoryNames returns the listed categories in sorted order.
func (s *Schedule) CategoryNames() []string {
	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultCategory returns the fallback category fees.
func (s *Schedule) DefaultCategory() CategoryFees {
	return s.defaultCategory
}
