// Package common defines the sentinel errors shared between the repository,
// service, and HTTP layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrValidation covers bad input shape or size. User-correctable, no retry.
	ErrValidation = errors.New("validation error")

	// ErrNotFound means no document exists for the given short id.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the supplied credential does not match the owner's.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStore is a transient storage failure. Safe to retry with backoff.
	ErrStore = errors.New("store error")

	// ErrShortIDConflict means a generated short id collided with an existing
	// row. The service retries with a fresh id; it never reaches clients.
	ErrShortIDConflict = errors.New("short id conflict")
)
