// Package apperrors holds the error classes shared by the rating and season
// engines. Callers test with errors.Is; details are wrapped on top.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is a caller-correctable input problem, rejected before any mutation.
	ErrValidation = errors.New("validation error")
	// ErrConsistency protects the historical ledger from an out-of-order mutation.
	ErrConsistency = errors.New("consistency error")
	// ErrTooOldToRevert marks a tournament without pre-update snapshots.
	ErrTooOldToRevert = errors.New("tournament too old to revert")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

// HTTPStatus maps an error to the status the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConsistency), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTooOldToRevert):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
