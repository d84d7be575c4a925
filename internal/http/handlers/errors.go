package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-recipe-backend/internal/services"
)

// Stable error codes returned in ErrorResponse.Code.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUpstream         = "upstream_error"
	ErrCodeGeneration       = "generation_failed"
	ErrCodeInternal         = "internal_error"
)

// classify maps a service error to its HTTP status and code.
func classify(err error) (status int, code string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, services.ErrGeneration):
		return http.StatusInternalServerError, ErrCodeGeneration
	case errors.Is(err, services.ErrUpstream):
		return http.StatusInternalServerError, ErrCodeUpstream
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}
