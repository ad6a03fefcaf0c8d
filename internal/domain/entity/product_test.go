package entity

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClassification() Classification {
	return Classification{HSCode: "8518.30", OriginCountry: "CN", DutyRate: 0.049}
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(" sku-1 ", "Electronics", decimal.NewFromInt(40), validClassification())
	require.NoError(t, err)
	assert.Equal(t, "sku-1", p.ID)
	assert.True(t, p.ShippingCost.IsZero())
	assert.True(t, p.InsuranceCost.IsZero())

	withLogistics := p.WithLogistics(decimal.NewFromInt(5), decimal.RequireFromString("0.40"))
	assert.True(t, withLogistics.ShippingCost.Equal(decimal.NewFromInt(5)))
	assert.True(t, p.ShippingCost.IsZero(), "original must not change")

	assert.Equal(t, int64(1200), p.WithAnnualVolume(1200).AnnualVolume)
	assert.Zero(t, p.AnnualVolume)
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		cost    decimal.Decimal
		class   Classification
		wantErr error
	}{
		{"empty id", "  ", decimal.NewFromInt(1), validClassification(), ErrInvalidProductID},
		{"zero cost", "p1", decimal.Zero, validClassification(), ErrInvalidProductCost},
		{"short HS code", "p1", decimal.NewFromInt(1), Classification{HSCode: "8518", OriginCountry: "CN"}, ErrInvalidHSCode},
		{"letters in HS code", "p1", decimal.NewFromInt(1), Classification{HSCode: "85A830", OriginCountry: "CN"}, ErrInvalidHSCode},
		{"bad origin", "p1", decimal.NewFromInt(1), Classification{HSCode: "851830", OriginCountry: "CHN"}, ErrInvalidOriginCountry},
		{"rate as percentage", "p1", decimal.NewFromInt(1), Classification{HSCode: "851830", OriginCountry: "CN", DutyRate: 4.9}, ErrInvalidDutyRate},
		{"NaN rate", "p1", decimal.NewFromInt(1), Classification{HSCode: "851830", OriginCountry: "CN", DutyRate: math.NaN()}, ErrInvalidDutyRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.id, "Toys", tt.cost, tt.class)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProduct_ValidateLogistics(t *testing.T) {
	p, err := NewProduct("p1", "Toys", decimal.NewFromInt(10), validClassification())
	require.NoError(t, err)

	bad := p.WithLogistics(decimal.NewFromInt(-1), decimal.Zero)
	assert.ErrorIs(t, bad.Validate(), ErrNegativeLogisticsCost)

	neg := p.WithAnnualVolume(-5)
	assert.ErrorIs(t, neg.Validate(), ErrNegativeAnnualVolume)
}

func TestAlternative_Validate(t *testing.T) {
	ok := Alternative{Type: AlternativeOrigin, Value: "VN", DutyRate: 0, Confidence: 0.7}
	assert.NoError(t, ok.Validate())

	tests := []struct {
		name    string
		alt     Alternative
		wantErr error
	}{
		{"unknown type", Alternative{Type: "tariff", Value: "x", Confidence: 1}, ErrInvalidAlternativeType},
		{"blank value", Alternative{Type: AlternativeOther, Value: " ", Confidence: 1}, ErrEmptyAlternativeValue},
		{"rate above one", Alternative{Type: AlternativeOther, Value: "GSP", DutyRate: 2, Confidence: 1}, ErrInvalidDutyRate},
		{"confidence above one", Alternative{Type: AlternativeOther, Value: "GSP", Confidence: 1.5}, ErrInvalidConfidence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.alt.Validate(), tt.wantErr)
		})
	}
}

func TestParseAlternativeType(t *testing.T) {
	got, err := ParseAlternativeType(" Classification ")
	require.NoError(t, err)
	assert.Equal(t, AlternativeClassification, got)

	_, err = ParseAlternativeType("")
	assert.ErrorIs(t, err, ErrInvalidAlternativeType)
}
