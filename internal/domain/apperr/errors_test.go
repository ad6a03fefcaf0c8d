package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	measurement := NewInvalidMeasurement("weight.value", "weight.value must be greater than 0")
	input := NewInvalidInput("productValue", "Product value must be greater than 0")
	table := &UnmappedFeeTableEntryError{Table: "fulfillment", Tier: "oversize", WeightLb: 12}

	assert.ErrorIs(t, measurement, ErrInvalidMeasurement)
	assert.ErrorIs(t, input, ErrInvalidInput)
	assert.ErrorIs(t, table, ErrUnmappedFeeTableEntry)

	assert.NotErrorIs(t, measurement, ErrInvalidInput)
	assert.NotErrorIs(t, table, ErrInvalidInput)
}

func TestIsValidation(t *testing.T) {
	wrapped := fmt.Errorf("calculate fees: %w", NewInvalidInput("price", "Price must not be negative"))

	assert.True(t, IsValidation(wrapped))
	assert.True(t, IsValidation(NewInvalidMeasurement("dimensions.unit", "bad unit")))
	assert.False(t, IsValidation(&UnmappedFeeTableEntryError{Table: "storage", Tier: "x"}))
	assert.False(t, IsValidation(errors.New("boom")))
}

func TestField(t *testing.T) {
	assert.Equal(t, "price", Field(fmt.Errorf("wrap: %w", NewInvalidInput("price", "bad"))))
	assert.Equal(t, "dimensions.height", Field(NewInvalidMeasurement("dimensions.height", "bad")))
	assert.Equal(t, "", Field(errors.New("plain")))
}

func TestUnmappedFeeTableEntryMessage(t *testing.T) {
	err := &UnmappedFeeTableEntryError{Table: "fulfillment", Tier: "large_standard", WeightLb: 2.5}
	assert.Equal(t, `fulfillment fee table has no entry for tier "large_standard" (weight 2.5000 lb)`, err.Error())
}
