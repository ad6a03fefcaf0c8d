// Package entity contains the core business entities of the domain layer.
package entity

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Product errors define domain-specific error conditions for products.
var (
	ErrInvalidProductID       = errors.New("product id cannot be empty")
	ErrInvalidProductCost     = errors.New("product cost must be positive")
	ErrNegativeLogisticsCost  = errors.New("shipping and insurance cost cannot be negative")
	ErrInvalidDutyRate        = errors.New("duty rate must be between 0 and 1")
	ErrNegativeAnnualVolume   = errors.New("annual volume cannot be negative")
	ErrInvalidHSCode          = errors.New("HS code must contain 6 to 10 digits")
	ErrInvalidOriginCountry   = errors.New("origin country must be an ISO 3166-1 alpha-2 code")
	ErrInvalidAlternativeType = errors.New("invalid alternative type")
	ErrInvalidConfidence      = errors.New("confidence must be between 0 and 1")
	ErrEmptyAlternativeValue  = errors.New("alternative value cannot be empty")
)

// Classification is the customs classification a product currently ships under.
type Classification struct {
	// HSCode is the harmonized system code (digits only, 6 to 10 long).
	HSCode string `json:"hsCode"`

	// OriginCountry is the ISO 3166-1 alpha-2 country of origin.
	OriginCountry string `json:"originCountry"`

	// DutyRate is the duty rate as a fraction (0.05 = 5%).
	DutyRate float64 `json:"dutyRate"`
}

// Validate checks the classification fields.
//
// Returns:
//   - error: the first failing rule, or nil
func (c Classification) Validate() error {
	digits := strings.ReplaceAll(c.HSCode, ".", "")
	if len(digits) < 6 || len(digits) > 10 || strings.Trim(digits, "0123456789") != "" {
		return ErrInvalidHSCode
	}
	if len(c.OriginCountry) != 2 {
		return ErrInvalidOriginCountry
	}
	if !(c.DutyRate >= 0 && c.DutyRate <= 1) {
		return ErrInvalidDutyRate
	}
	return nil
}

// Product is a read-only snapshot of a catalogue product, as supplied by the
// product data collaborator. The calculation core never mutates it.
type Product struct {
	// ID is the unique identifier for the product
	ID string `json:"id"`

	// SKU is the stock keeping unit identifier
	SKU string `json:"sku,omitempty"`

	// Name is the name of the product
	Name string `json:"name,omitempty"`

	// Category is the marketplace category used for referral fees
	Category string `json:"category"`

	// Cost is the per-unit product value declared at customs
	Cost decimal.Decimal `json:"cost"`

	// ShippingCost is the per-unit freight to the destination
	ShippingCost decimal.Decimal `json:"shippingCost"`

	// InsuranceCost is the per-unit cargo insurance
	InsuranceCost decimal.Decimal `json:"insuranceCost"`

	// AnnualVolume is the expected number of units imported per year (0 if unknown)
	AnnualVolume int64 `json:"annualVolume,omitempty"`

	// Classification is the current customs classification
	Classification Classification `json:"classification"`
}

// NewProduct creates a Product snapshot with the provided details.
// Shipping and insurance default to zero; use the With* methods to set them.
//
// Parameters:
//   - id: product identifier (required)
//   - category: marketplace category
//   - cost: per-unit product value (must be positive)
//   - classification: current customs classification
//
// Returns:
//   - *Product: newly created Product
//   - error: validation error if input is invalid
func NewProduct(id, category string, cost decimal.Decimal, classification Classification) (*Product, error) {
	p := &Product{
		ID:             strings.TrimSpace(id),
		Category:       category,
		Cost:           cost,
		ShippingCost:   decimal.Zero,
		InsuranceCost:  decimal.Zero,
		Classification: classification,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// WithLogistics returns a copy of the product with shipping and insurance set.
func (p Product) WithLogistics(shipping, insurance decimal.Decimal) Product {
	p.ShippingCost = shipping
	p.InsuranceCost = insurance
	return p
}

// WithAnnualVolume returns a copy of the product with the yearly unit volume set.
func (p Product) WithAnnualVolume(units int64) Product {
	p.AnnualVolume = units
	return p
}

// Validate checks every invariant of the snapshot.
//
// Returns:
//   - error: the first failing rule, or nil
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrInvalidProductID
	}
	if !p.Cost.IsPositive() {
		return ErrInvalidProductCost
	}
	if p.ShippingCost.IsNegative() || p.InsuranceCost.IsNegative() {
		return ErrNegativeLogisticsCost
	}
	if p.AnnualVolume < 0 {
		return ErrNegativeAnnualVolume
	}
	return p.Classification.Validate()
}
