// Package errors provides the standardized error taxonomy for provider
// adapters. Errors here are internal control flow only: adapters classify
// and log them, then collapse to an empty result at their public boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamStatus      ErrorCode = "UPSTREAM_STATUS"
	ErrCodeUpstreamTimeout     ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeMissingCredentials  ErrorCode = "MISSING_CREDENTIALS"
	ErrCodeMalformedPayload    ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeDatabaseUnavailable ErrorCode = "DATABASE_UNAVAILABLE"
	ErrCodeCacheUnavailable    ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// ProviderError is a structured error raised inside a provider adapter.
type ProviderError struct {
	Code      ErrorCode `json:"code"`
	Provider  string    `json:"provider"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ProviderError[%s] %s: %s", e.Code, e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.cause
}

// New creates a ProviderError with the given code.
func New(code ErrorCode, provider, message string) *ProviderError {
	return &ProviderError{
		Code:      code,
		Provider:  provider,
		Message:   message,
		Retryable: retryable(code),
		Timestamp: time.Now().UTC(),
	}
}

// Wrap creates a ProviderError carrying an underlying cause.
func Wrap(code ErrorCode, provider string, cause error) *ProviderError {
	return &ProviderError{
		Code:      code,
		Provider:  provider,
		Message:   cause.Error(),
		Retryable: retryable(code),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// FromHTTPStatus classifies a non-success upstream status code.
func FromHTTPStatus(provider string, status int) *ProviderError {
	code := ErrCodeUpstreamStatus
	if status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout {
		code = ErrCodeUpstreamTimeout
	}
	return New(code, provider, fmt.Sprintf("upstream returned status %d", status))
}

func retryable(code ErrorCode) bool {
	switch code {
	case ErrCodeUpstreamUnavailable, ErrCodeUpstreamTimeout, ErrCodeDatabaseUnavailable, ErrCodeCacheUnavailable:
		return true
	default:
		return false
	}
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal for plain errors.
func CodeOf(err error) ErrorCode {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrCodeInternal
}
