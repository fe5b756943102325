package api

import (
	"errors"
	"net/http"

	"github.com/hanzideck/hanzideck-api/internal/service/study"
	"github.com/hanzideck/hanzideck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authorization errors
	case errors.Is(err, study.ErrCardNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrProgressNotFound),
		errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrProgressExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, study.ErrInvalidSubmission):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, study.ErrCardNotOwned):
		return "You do not own this card"

	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, study.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrProgressNotFound):
		return "Card progress not found"

	case errors.Is(err, store.ErrProgressExists),
		errors.Is(err, store.ErrDuplicate):
		return "Card progress already exists"

	case errors.Is(err, study.ErrInvalidSubmission):
		return "Invalid review submission"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
