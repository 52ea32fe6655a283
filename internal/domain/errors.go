// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every component. Specific errors wrap one of these
// so callers can classify with errors.Is.
var (
	// ErrInvalidInput is returned for input the caller must fix: an out-of-range
	// quality, an empty question list, a malformed entity.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when an addressed session or schedule does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an operation is not allowed in the
	// entity's current lifecycle state, e.g. completing a finished session.
	ErrInvalidState = fmt.Errorf("%w: invalid state", ErrInvalidInput)

	// ErrDependencyUnavailable marks a failure of a persistence adapter or
	// other collaborator.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Entity validation errors.
var (
	ErrEmptyUserID      = fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)
	ErrEmptyQuestionID  = fmt.Errorf("%w: question ID cannot be empty", ErrInvalidInput)
	ErrInvalidQuality   = fmt.Errorf("%w: quality must be between 0 and 5", ErrInvalidInput)
	ErrNegativeTime     = fmt.Errorf("%w: time spent cannot be negative", ErrInvalidInput)
	ErrMissingTimestamp = fmt.Errorf("%w: timestamp cannot be zero", ErrInvalidInput)
)

// IsInvalidInput reports whether err belongs to the InvalidInput class.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound reports whether err belongs to the NotFound class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
