package entity

import "strings"

// AlternativeType tells what an alternative changes about a product.
type AlternativeType string

const (
	AlternativeClassification AlternativeType = "classification" // A different HS code
	AlternativeOrigin         AlternativeType = "origin"         // A different country of origin
	AlternativeOther          AlternativeType = "other"          // Trade programme, preference, etc.
)

// ParseAlternativeType parses a type name case-insensitively.
func ParseAlternativeType(s string) (AlternativeType, error) {
	t := AlternativeType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case AlternativeClassification, AlternativeOrigin, AlternativeOther:
		return t, nil
	}
	return "", ErrInvalidAlternativeType
}

// Alternative is a candidate classification or origin for a product, with the
// duty rate it would attract and how confident the lookup is that it applies.
type Alternative struct {
	// Type is what the alternative changes
	Type AlternativeType `json:"type"`

	// Value is the proposed HS code, country, or programme name
	Value string `json:"value"`

	// DutyRate is the duty rate under the alternative, as a fraction
	DutyRate float64 `json:"dutyRate"`

	// Confidence is the lookup's confidence score in [0,1]
	Confidence float64 `json:"confidence"`

	// Note is an optional free-text justification from the lookup
	Note string `json:"note,omitempty"`
}

// Validate checks the alternative's fields.
//
// Returns:
//   - error: the first failing rule, or nil
func (a Alternative) Validate() error {
	if _, err := ParseAlternativeType(string(a.Type)); err != nil {
		return err
	}
	if strings.TrimSpace(a.Value) == "" {
		return ErrEmptyAlternativeValue
	}
	if !(a.DutyRate >= 0 && a.DutyRate <= 1) {
		return ErrInvalidDutyRate
	}
	if !(a.Confidence >= 0 && a.Confidence <= 1) {
		return ErrInvalidConfidence
	}
	return nil
}
