package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during
	// a retry backoff.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of fetch errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses other than 429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents connection and timeout failures.
	ErrorClassNetwork ErrorClass = "network"
)

// HTTPError is returned for non-2xx responses from the source.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("source returned status %d: %s", e.StatusCode, e.Message)
}

// NotFound reports whether the error is a definitive 404 miss.
func (e *HTTPError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// NetworkError is returned for connection failures, DNS failures and
// timeout expiry.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Cause)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is an HTTP 404 from the source.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.NotFound()
}

// classify categorizes an error for retry decisions and observability.
func classify(err error) ErrorClass {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return ErrorClassNetwork
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusTooManyRequests:
			return ErrorClassRateLimit
		case httpErr.StatusCode >= 500:
			return ErrorClassServer
		case httpErr.StatusCode >= 400:
			return ErrorClassClient
		}
	}

	return ErrorClassNetwork
}

// shouldRetry determines if an error should be retried based on its class.
// 4xx other than 429 is a definitive miss and is never retried.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		return false
	}
}
