// Package apperr contains the error taxonomy shared by the calculation core.
// Validation errors carry the offending field so the boundary can return a
// field-identifying message; table errors indicate a misconfigured fee schedule.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors used with errors.Is to classify failures.
var (
	// ErrInvalidMeasurement is matched by every *InvalidMeasurementError.
	ErrInvalidMeasurement = errors.New("invalid measurement")

	// ErrInvalidInput is matched by every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnmappedFeeTableEntry is matched by every *UnmappedFeeTableEntryError.
	ErrUnmappedFeeTableEntry = errors.New("unmapped fee table entry")
)

// InvalidMeasurementError reports a non-positive value or an unrecognised unit
// in a dimension or weight input.
type InvalidMeasurementError struct {
	// Field is the dotted path of the offending input (e.g. "dimensions.length").
	Field string

	// Message is the user-facing description.
	Message string
}

// NewInvalidMeasurement creates an InvalidMeasurementError.
//
// Parameters:
//   - field: the offending input field
//   - format: message format, followed by its arguments
//
// Returns:
//   - *InvalidMeasurementError: the error
func NewInvalidMeasurement(field, format string, args ...any) *InvalidMeasurementError {
	return &InvalidMeasurementError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *InvalidMeasurementError) Error() string {
	return e.Message
}

// Is reports whether target is ErrInvalidMeasurement.
func (e *InvalidMeasurementError) Is(target error) bool {
	return target == ErrInvalidMeasurement
}

// InvalidInputError reports an out-of-range monetary or rate input.
type InvalidInputError struct {
	// Field is the offending input field (e.g. "productValue").
	Field string

	// Message is the user-facing description.
	Message string
}

// NewInvalidInput creates an InvalidInputError.
//
// Parameters:
//   - field: the offending input field
//   - format: message format, followed by its arguments
//
// Returns:
//   - *InvalidInputError: the error
func NewInvalidInput(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnmappedFeeTableEntryError means a fee table is not total over the size
// tiers. It is a programming error and must never reach a user verbatim.
type UnmappedFeeTableEntryError struct {
	// Table names the lookup that failed ("fulfillment", "storage").
	Table string

	// Tier is the size tier that had no entry.
	Tier string

	// WeightLb is the weight used for the lookup, if any.
	WeightLb float64
}

func (e *UnmappedFeeTableEntryError) Error() string {
	return fmt.Sprintf("%s fee table has no entry for tier %q (weight %.4f lb)", e.Table, e.Tier, e.WeightLb)
}

// Is reports whether target is ErrUnmappedFeeTableEntry.
func (e *UnmappedFeeTableEntryError) Is(target error) bool {
	return target == ErrUnmappedFeeTableEntry
}

// IsValidation checks if the error was caused by caller input rather than
// by the system.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true for invalid measurement or invalid input errors
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidMeasurement) || errors.Is(err, ErrInvalidInput)
}

// Field returns the offending field of a validation error, or "" when err
// carries none.
func Field(err error) string {
	var me *InvalidMeasurementError
	if errors.As(err, &me) {
		return me.Field
	}
	var ie *InvalidInputError
	if errors.As(err, &ie) {
		return ie.Field
	}
	return ""
}
