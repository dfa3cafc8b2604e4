// Package server provides the HTTP REST API for the application tracker.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/funnel"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch {
	case db.IsNotFound(err):
		return http.StatusNotFound
	case funnel.IsInvalidTransition(err):
		return http.StatusUnprocessableEntity
	case db.IsConflict(err):
		return http.StatusConflict
	}
	switch err.(type) {
	case *ErrValidation, validator.ValidationErrors:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
