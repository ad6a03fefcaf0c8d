package valueobject

import (
	"fmt"
	"strings"
)

// SizeTier is the fulfillment-fee classification bucket of a package.
// The zero value is not a valid tier.
type SizeTier int

// Size tiers, smallest first.
const (
	SizeTierSmallStandard SizeTier = iota + 1
	SizeTierLargeStandard
	SizeTierOversize
	SizeTierSpecialOversize
)

// Classification thresholds, inches and pounds. Upper bounds are inclusive.
const (
	smallStandardMaxLongest  = 15.0
	smallStandardMaxMedian   = 12.0
	smallStandardMaxShortest = 0.75
	smallStandardMaxWeight   = 1.0

	largeStandardMaxLongest  = 18.0
	largeStandardMaxMedian   = 14.0
	largeStandardMaxShortest = 8.0
	largeStandardMaxWeight   = 20.0

	specialOversizeMinLongest = 108.0
	specialOversizeMinGirth   = 165.0
	specialOversizeMinWeight  = 70.0
)

var sizeTierNames = map[SizeTier]string{
	SizeTierSmallStandard:   "small_standard",
	SizeTierLargeStandard:   "large_standard",
	SizeTierOversize:        "oversize",
	SizeTierSpecialOversize: "special_oversize",
}

// AllSizeTiers returns every tier in ascending order.
func AllSizeTiers() []SizeTier {
	return []SizeTier{
		SizeTierSmallStandard,
		SizeTierLargeStandard,
		SizeTierOversize,
		SizeTierSpecialOversize,
	}
}

// String returns the snake_case name of the tier.
func (t SizeTier) String() string {
	if name, ok := sizeTierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("size_tier(%d)", int(t))
}

// IsValid reports whether t is one of the declared tiers.
func (t SizeTier) IsValid() bool {
	_, ok := sizeTierNames[t]
	return ok
}

// IsStandard reports whether t is one of the standard-size tiers.
func (t SizeTier) IsStandard() bool {
	return t == SizeTierSmallStandard || t == SizeTierLargeStandard
}

// MarshalText implements encoding.TextMarshaler.
func (t SizeTier) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid size tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SizeTier) UnmarshalText(text []byte) error {
	parsed, err := ParseSizeTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseSizeTier parses a tier name as produced by String.
func ParseSizeTier(s string) (SizeTier, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for tier, n := range sizeTierNames {
		if n == name {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("unknown size tier %q", s)
}

// Classify returns the size tier of a normalized measurement.
//
// Rules are evaluated smallest tier first, and the special-oversize check runs
// before the generic oversize fallback, so every positive measurement maps to
// exactly one tier. Values equal to a threshold belong to the smaller tier.
//
// Parameters:
//   - m: measurement in inches and pounds
//
// Returns:
//   - SizeTier: the package's size tier
func Classify(m NormalizedMeasurement) SizeTier {
	longest, median, shortest := m.Sorted()
	weight := m.WeightLb

	switch {
	case longest <= smallStandardMaxLongest &&
		median <= smallStandardMaxMedian &&
		shortest <= smallStandardMaxShortest &&
		weight <= smallStandardMaxWeight:
		return SizeTierSmallStandard
	case longest <= largeStandardMaxLongest &&
		median <= largeStandardMaxMedian &&
		shortest <= largeStandardMaxShortest &&
		weight <= largeStandardMaxWeight:
		return SizeTierLargeStandard
	case longest > specialOversizeMinLongest ||
		2*(median+shortest) > specialOversizeMinGirth ||
		weight > specialOversizeMinWeight:
		return SizeTierSpecialOversize
	default:
		return SizeTierOversize
	}
}

// TierLimits describes the inclusive upper bounds of a tier, for display.
// Zero means the dimension is unbounded for that tier.
type TierLimits struct {
	Tier        SizeTier `json:"tier"`
	MaxLongest  float64  `json:"maxLongestIn,omitempty"`
	MaxMedian   float64  `json:"maxMedianIn,omitempty"`
	MaxShortest float64  `json:"maxShortestIn,omitempty"`
	MaxGirth    float64  `json:"maxGirthIn,omitempty"`
	MaxWeight   float64  `json:"maxWeightLb,omitempty"`
}

// SizeTierLimits returns the thresholds used by Classify.
func SizeTierLimits() []TierLimits {
	return []TierLimits{
		{Tier: SizeTierSmallStandard, MaxLongest: smallStandardMaxLongest, MaxMedian: smallStandardMaxMedian, MaxShortest: smallStandardMaxShortest, MaxWeight: smallStandardMaxWeight},
		{Tier: SizeTierLargeStandard, MaxLongest: largeStandardMaxLongest, MaxMedian: largeStandardMaxMedian, MaxShortest: largeStandardMaxShortest, MaxWeight: largeStandardMaxWeight},
		{Tier: SizeTierOversize, MaxLongest: specialOversizeMinLongest, MaxGirth: specialOversizeMinGirth, MaxWeight: specialOversizeMinWeight},
		{Tier: SizeTierSpecialOversize},
	}
}
