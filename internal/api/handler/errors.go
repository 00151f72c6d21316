package handler

import (
	"net/http"

	"github.com/huntworks/trailhunt/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest    = apierr.CodeInvalidRequest
	CodeUnauthenticated   = apierr.CodeUnauthenticated
	CodeInvalidCheckpoint = apierr.CodeInvalidCheckpoint
	CodeUnknownCheckpoint = apierr.CodeUnknownCheckpoint
	CodeAlreadyCleared    = apierr.CodeAlreadyCleared
	CodeInvalidPassphrase = apierr.CodeInvalidPassphrase
	CodeStoreUnavailable  = apierr.CodeStoreUnavailable
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
