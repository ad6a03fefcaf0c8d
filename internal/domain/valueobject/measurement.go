// Package valueobject contains value objects that represent concepts without identity.
package valueobject

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hapkiduki/landedcost/internal/domain/apperr"
)

// LengthUnit is a unit of length accepted for product dimensions.
type LengthUnit string

// Supported length units.
const (
	LengthUnitInch       LengthUnit = "in"
	LengthUnitCentimeter LengthUnit = "cm"
)

// WeightUnit is a unit of mass accepted for product weight.
type WeightUnit string

// Supported weight units.
const (
	WeightUnitOunce    WeightUnit = "oz"
	WeightUnitPound    WeightUnit = "lb"
	WeightUnitGram     WeightUnit = "g"
	WeightUnitKilogram WeightUnit = "kg"
)

// Conversion factors into the canonical unit system (inches, pounds).
const (
	centimetersPerInch = 2.54
	ouncesPerPound     = 16.0
	gramsPerPound      = 453.59237
	kilogramsPerPound  = 0.45359237
	cubicInchesPerFoot = 1728.0

	// conversionPrecision is the number of decimals kept after a unit
	// conversion, so 38.1 cm lands exactly on 15 in.
	conversionPrecision = 1e6
)

// ParseLengthUnit resolves a unit string, accepting common spellings.
//
// Parameters:
//   - s: unit as supplied by the caller (case-insensitive)
//
// Returns:
//   - LengthUnit: the canonical unit
//   - bool: false if the unit is not recognised
func ParseLengthUnit(s string) (LengthUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "inch", "inches", "\"":
		return LengthUnitInch, true
	case "cm", "centimeter", "centimeters", "centimetre", "centimetres":
		return LengthUnitCentimeter, true
	}
	return "", false
}

// ParseWeightUnit resolves a unit string, accepting common spellings.
//
// Parameters:
//   - s: unit as supplied by the caller (case-insensitive)
//
// Returns:
//   - WeightUnit: the canonical unit
//   - bool: false if the unit is not recognised
func ParseWeightUnit(s string) (WeightUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oz", "ounce", "ounces":
		return WeightUnitOunce, true
	case "lb", "lbs", "pound", "pounds":
		return WeightUnitPound, true
	case "g", "gram", "grams":
		return WeightUnitGram, true
	case "kg", "kilogram", "kilograms", "kgs":
		return WeightUnitKilogram, true
	}
	return "", false
}

// Dimensions represents the physical package dimensions as supplied by the caller.
type Dimensions struct {
	// Length along the first axis.
	Length float64 `json:"length"`

	// Width along the second axis.
	Width float64 `json:"width"`

	// Height along the third axis.
	Height float64 `json:"height"`

	// Unit of all three values.
	Unit LengthUnit `json:"unit"`
}

// NewDimensions creates a new Dimensions value object.
//
// Parameters:
//   - length, width, height: the three package sides
//   - unit: unit of the three values
//
// Returns:
//   - Dimensions: new Dimensions value object
func NewDimensions(length, width, height float64, unit LengthUnit) Dimensions {
	return Dimensions{
		Length: length,
		Width:  width,
		Height: height,
		Unit:   unit,
	}
}

// String returns a formatted string representation.
//
// Returns:
//   - string: formatted dimensions (e.g., "16.0x10.0x4.0 in")
func (d Dimensions) String() string {
	return fmt.Sprintf("%.1fx%.1fx%.1f %s", d.Length, d.Width, d.Height, d.Unit)
}

// Weight represents a package weight as supplied by the caller.
type Weight struct {
	// Value of the weight.
	Value float64 `json:"value"`

	// Unit of Value.
	Unit WeightUnit `json:"unit"`
}

// NewWeight creates a new Weight value object.
func NewWeight(value float64, unit WeightUnit) Weight {
	return Weight{Value: value, Unit: unit}
}

// String returns a formatted string representation (e.g., "12.00 oz").
func (w Weight) String() string {
	return fmt.Sprintf("%.2f %s", w.Value, w.Unit)
}

// NormalizedMeasurement is the canonical form every calculation works on:
// dimensions in inches and weight in pounds. It is derived per call and
// never persisted.
type NormalizedMeasurement struct {
	LengthIn float64 `json:"lengthIn"`
	WidthIn  float64 `json:"widthIn"`
	HeightIn float64 `json:"heightIn"`
	WeightLb float64 `json:"weightLb"`
}

// Normalize validates dimensions and weight and converts them to inches and pounds.
//
// Parameters:
//   - d: package dimensions in any supported length unit
//   - w: package weight in any supported weight unit
//
// Returns:
//   - NormalizedMeasurement: the canonical measurement
//   - error: *apperr.InvalidMeasurementError if a value is not positive and
//     finite, converts to zero, gives an infinite volume, or a unit is not
//     recognised
func Normalize(d Dimensions, w Weight) (NormalizedMeasurement, error) {
	lengthUnit, ok := ParseLengthUnit(string(d.Unit))
	if !ok {
		return NormalizedMeasurement{}, apperr.NewInvalidMeasurement("dimensions.unit",
			"dimensions.unit %q is not supported (use in or cm)", d.Unit)
	}
	weightUnit, ok := ParseWeightUnit(string(w.Unit))
	if !ok {
		return NormalizedMeasurement{}, apperr.NewInvalidMeasurement("weight.unit",
			"weight.unit %q is not supported (use oz, lb, g or kg)", w.Unit)
	}

	sides := []struct {
		field string
		value float64
	}{
		{"dimensions.length", d.Length},
		{"dimensions.width", d.Width},
		{"dimensions.height", d.Height},
		{"weight.value", w.Value},
	}
	for _, s := range sides {
		if err := requirePositive(s.field, s.value); err != nil {
			return NormalizedMeasurement{}, err
		}
	}

	m := NormalizedMeasurement{
		LengthIn: toInches(d.Length, lengthUnit),
		WidthIn:  toInches(d.Width, lengthUnit),
		HeightIn: toInches(d.Height, lengthUnit),
		WeightLb: toPounds(w.Value, weightUnit),
	}

	converted := []struct {
		field string
		value float64
	}{
		{"dimensions.length", m.LengthIn},
		{"dimensions.width", m.WidthIn},
		{"dimensions.height", m.HeightIn},
		{"weight.value", m.WeightLb},
	}
	for _, c := range converted {
		if c.value <= 0 {
			return NormalizedMeasurement{}, apperr.NewInvalidMeasurement(c.field, "%s is too small", c.field)
		}
	}
	if math.IsInf(m.VolumeCubicInches(), 0) || math.IsInf(m.Girth(), 0) {
		return NormalizedMeasurement{}, apperr.NewInvalidMeasurement("dimensions",
			"dimensions are too large")
	}
	return m, nil
}

func requirePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperr.NewInvalidMeasurement(field, "%s must be a finite number", field)
	}
	if v <= 0 {
		return apperr.NewInvalidMeasurement(field, "%s must be greater than 0", field)
	}
	return nil
}

func toInches(v float64, unit LengthUnit) float64 {
	if unit == LengthUnitCentimeter {
		return roundConverted(v / centimetersPerInch)
	}
	return v
}

func toPounds(v float64, unit WeightUnit) float64 {
	switch unit {
	case WeightUnitOunce:
		return roundConverted(v / ouncesPerPound)
	case WeightUnitGram:
		return roundConverted(v / gramsPerPound)
	case WeightUnitKilogram:
		return roundConverted(v / kilogramsPerPound)
	}
	return v
}

// roundConverted keeps conversionPrecision decimals. Values too large to
// scale are already coarser than that and are returned as is.
func roundConverted(v float64) float64 {
	scaled := v * conversionPrecision
	if math.IsInf(scaled, 0) {
		return v
	}
	return math.Round(scaled) / conversionPrecision
}

// Sorted returns the three sides ordered longest, median, shortest.
func (m NormalizedMeasurement) Sorted() (longest, median, shortest float64) {
	sides := []float64{m.LengthIn, m.WidthIn, m.HeightIn}
	sort.Sort(sort.Reverse(sort.Float64Slice(sides)))
	return sides[0], sides[1], sides[2]
}

// Girth is 2 * (median + shortest) in inches.
func (m NormalizedMeasurement) Girth() float64 {
	_, median, shortest := m.Sorted()
	return 2 * (median + shortest)
}

// VolumeCubicInches returns L*W*H in cubic inches.
func (m NormalizedMeasurement) VolumeCubicInches() float64 {
	return m.LengthIn * m.WidthIn * m.HeightIn
}

// VolumeCubicFeet returns the volume in cubic feet.
func (m NormalizedMeasurement) VolumeCubicFeet() float64 {
	return m.VolumeCubicInches() / cubicInchesPerFoot
}
