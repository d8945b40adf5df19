package ai

import (
	"fmt"
	"net/http"
)

// TransportError is a typed error for a non-2xx response from an upstream
// provider API. Retryable is derived from the HTTP status code so retry
// logic never depends on message text.
type TransportError struct {
	Provider   ProviderID
	StatusCode int
	Message    string
	Retryable  bool
}

// Error returns the error message.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// newTransportError builds a TransportError, classifying retryability
// from the status code.
func newTransportError(provider ProviderID, statusCode int, message string) *TransportError {
	return &TransportError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  retryableStatus(statusCode),
	}
}

// retryableStatus reports whether a provider HTTP status is worth retrying:
// rate limits and transient upstream failures only.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable:
		return true
	}
	return false
}

// ValidationError rejects a request before any outbound call is made.
type ValidationError struct {
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return e.Message
}

// NotConfiguredError indicates the requested provider has no credential
// configured server-side.
type NotConfiguredError struct {
	Provider ProviderID
}

// Error returns the error message.
func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("provider %q is not configured", e.Provider)
}
