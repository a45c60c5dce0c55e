package handler

import (
	"net/http"

	"github.com/softpunk/emberfell/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest    = apierr.CodeInvalidRequest
	CodeUnauthorized      = apierr.CodeUnauthorized
	CodeCharacterNotFound = apierr.CodeCharacterNotFound
	CodeNotOwner          = apierr.CodeNotOwner
	CodeInvalidName       = apierr.CodeInvalidName
	CodeInvalidClass      = apierr.CodeInvalidClass
	CodeInvalidGender     = apierr.CodeInvalidGender
	CodeInternalError     = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
