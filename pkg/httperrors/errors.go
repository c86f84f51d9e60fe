package httperrors

import (
	"errors"
	"net/http"

	"github.com/ecole-gestion/backend/pkg/models"
)

// HTTPError is the body of all error responses that do not have a resource specific envelope.
type HTTPError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// New returns the response body for an error.
func New(err error) HTTPError {
	return HTTPError{
		Error: err.Error(),
	}
}

// Status returns the HTTP status code for an error.
//
// Errors the database layer could not make sense of are translated to
// models.ErrGeneral before they reach the controllers, so everything
// that is neither general nor a missing resource is a problem with
// the request itself.
func Status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}
