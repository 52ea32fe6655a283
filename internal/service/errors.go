package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/scry-progress/internal/domain"
)

// ServiceError wraps a failure of a store or other collaborator. It matches
// domain.ErrDependencyUnavailable as well as the wrapped error.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is classifies every ServiceError as a dependency failure.
func (e *ServiceError) Is(target error) bool {
	return target == domain.ErrDependencyUnavailable
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// wrapError passes caller-facing errors (invalid input, not found,
// cancellation) through unchanged and wraps everything else in a ServiceError.
func wrapError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return NewServiceError(operation, message, err)
}
