package corpusapi

import (
	"errors"
	"fmt"
)

// Connector-specific errors.
var (
	// ErrConfigInvalid indicates an out-of-range configuration value.
	ErrConfigInvalid = errors.New("corpusapi: invalid configuration")

	// ErrConfigInvalidBaseURL indicates the base URL cannot be parsed.
	ErrConfigInvalidBaseURL = errors.New("corpusapi: invalid base URL")

	// ErrEmptyData indicates a single-record response with no data field.
	ErrEmptyData = errors.New("corpusapi: empty data in response")

	// ErrInvalidCursor indicates the checkpoint cursor format is invalid.
	ErrInvalidCursor = errors.New("corpusapi: invalid cursor format")
)

// APIError represents a non-2xx response from the Corpus API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("corpusapi: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// isRetryable reports whether a status code is worth retrying for an
// idempotent GET.
func isRetryable(statusCode int) bool {
	switch statusCode {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
