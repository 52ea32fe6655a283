package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-progress/internal/api/shared"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/domain/srs"
	"github.com/phrazzld/scry-progress/internal/service"
	"github.com/phrazzld/scry-progress/internal/service/auth"
	"github.com/phrazzld/scry-progress/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	// Checked before InvalidInput, which it wraps.
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrDependencyUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// safeMessages lists the client-facing text for errors whose meaning the
// caller can act on. Order matters: more specific errors first.
var safeMessages = []struct {
	err     error
	message string
}{
	{auth.ErrExpiredToken, "Token expired"},
	{auth.ErrInvalidToken, "Invalid token"},
	{auth.ErrTokenNotYetValid, "Invalid token"},
	{auth.ErrMissingToken, "Invalid token"},
	{store.ErrSessionNotFound, "Session not found"},
	{store.ErrScheduleNotFound, "Question has not been reviewed yet"},
	{domain.ErrNotFound, "Not found"},
	{domain.ErrSessionNotInProgress, "Session is not in progress"},
	{domain.ErrInvalidState, "Operation not allowed in the current state"},
	{domain.ErrInvalidQuality, "Quality must be between 0 and 5"},
	{srs.ErrInvalidDays, "Days must be at least 1"},
	{domain.ErrEmptyQuestionList, "Session requires at least one question"},
	{domain.ErrInvalidSessionMode, "Unknown session mode"},
	{domain.ErrInvalidSessionStatus, "Unknown session status"},
	{domain.ErrQuestionIndexBack, "Question index cannot move backwards"},
	{domain.ErrQuestionIndexRange, "Question index out of range"},
	{domain.ErrNegativeTime, "Time spent cannot be negative"},
	{domain.ErrEmptyQuestionID, "Question ID is required"},
	{service.ErrUnknownStreakKind, "Unknown streak kind"},
	{store.ErrDuplicate, "Resource already exists"},
	{domain.ErrInvalidInput, "Invalid request"},
	{domain.ErrDependencyUnavailable, "Service temporarily unavailable"},
	{context.DeadlineExceeded, "Service temporarily unavailable"},
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}
	for _, m := range safeMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return "An unexpected error occurred"
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// HandleValidationError responds 400 with the first failed field.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}

// SanitizeValidationError turns a validator error into a message naming the
// JSON field and the rule it broke, without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "must be a UUID"
	default:
		return "validation failed"
	}
}
