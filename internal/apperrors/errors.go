// Package apperrors defines the error taxonomy shared by services and
// handlers, and the mapping from errors to envelope status codes.
package apperrors

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

var (
	// ErrInvalidEntityType means a module name did not resolve to a registered entity.
	ErrInvalidEntityType = errors.New("invalid entity type")
	// ErrInvalidColumn means a column name is not part of the entity's schema.
	ErrInvalidColumn = errors.New("invalid column")
	// ErrValidation means the input was malformed at the boundary.
	ErrValidation = errors.New("validation failed")
)

// Code maps an error to the envelope status code. Programmer errors
// (invalid entity type / column) surface as 500; anything unclassified
// defaults to 500 as well. Auth failures never travel as errors, the
// middleware writes their envelopes directly.
func Code(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
