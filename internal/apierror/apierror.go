// Package apierror defines the error taxonomy surfaced at the API
// boundary. Every business failure maps to an APIError with an HTTP
// status; anything else is reported as an internal error.
package apierror

import "net/http"

// APIError carries an HTTP status alongside a client-safe message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewValidation reports a missing or blank required field.
func NewValidation(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

// NewConflict reports a duplicate username or email.
func NewConflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: message}
}

// NewNotFound reports a missing user or channel.
func NewNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

// NewUnauthorized reports a failed credential or token check.
func NewUnauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

// NewUpload reports a media store failure on a required asset.
func NewUpload(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

// NewInternal reports an unexpected store or signing failure.
func NewInternal(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: message}
}

// NewInvalidRefreshToken is the single surface for every refresh-flow
// failure. Signature, expiry, unknown subject and stored-value mismatch
// are deliberately indistinguishable to the caller.
func NewInvalidRefreshToken() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: "invalid refresh token"}
}
