// Package repository contains the read-only data access interfaces the
// calculation core depends on, and their shared errors.
package repository

import "errors"

// Repository errors define common error conditions across all repositories.
// These errors are used to communicate specific failure conditions
// from the data access layer to the application layer.
var (
	// ErrProductNotFound is returned when a product cannot be found by ID.
	ErrProductNotFound = errors.New("product not found")

	// ErrConnectionFailed is returned when the database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrCorruptRecord is returned when a stored row violates a domain invariant.
	ErrCorruptRecord = errors.New("stored record is invalid")

	// ErrInvalidInput is returned when repository receives invalid input.
	ErrInvalidInput = errors.New("invalid input provided")
)

// IsNotFoundError checks if the error is a not found error.
// This is useful for handling not-found cases uniformly.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true if the error indicates a resource was not found
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}
