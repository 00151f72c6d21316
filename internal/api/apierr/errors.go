package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huntworks/trailhunt/internal/model"
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
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeInvalidCheckpoint = "INVALID_CHECKPOINT"
	CodeUnknownCheckpoint = "UNKNOWN_CHECKPOINT"
	CodeAlreadyCleared    = "ALREADY_CLEARED"
	CodeInvalidPassphrase = "INVALID_PASSPHRASE"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
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
	case errors.Is(err, model.ErrUnauthenticated):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthenticated, "Authentication required"}}
	case errors.Is(err, model.ErrInvalidCheckpoint):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCheckpoint, "Checkpoint id must be a positive integer"}}
	case errors.Is(err, model.ErrUnknownCheckpoint):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownCheckpoint, "Checkpoint not found"}}
	case errors.Is(err, model.ErrAlreadyCleared):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyCleared, "Checkpoint already cleared"}}
	case errors.Is(err, model.ErrInvalidPassphrase):
		return &httpError{http.StatusForbidden, APIError{CodeInvalidPassphrase, "Passphrase does not match"}}
	case errors.Is(err, model.ErrStoreUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStoreUnavailable, "Progress store unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthenticatedError creates an unauthenticated error
func NewUnauthenticatedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthenticated, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
