package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/softpunk/emberfell/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeCharacterNotFound = "CHARACTER_NOT_FOUND"
	CodeNotOwner          = "NOT_OWNER"
	CodeInvalidName       = "INVALID_NAME"
	CodeInvalidClass      = "INVALID_CLASS"
	CodeInvalidGender     = "INVALID_GENDER"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrCharacterNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCharacterNotFound, "Character not found"}}
	case errors.Is(err, model.ErrNotCharacterOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotOwner, "Character belongs to another player"}}
	case errors.Is(err, model.ErrInvalidCharacterName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidName, "Character name must be 2-24 characters"}}
	case errors.Is(err, model.ErrInvalidCharacterClass):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidClass, "Class must be warrior, mage or ranger"}}
	case errors.Is(err, model.ErrInvalidGender):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGender, "Gender must be male or female"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Player identity headers required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
