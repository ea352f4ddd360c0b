package corpusapi

import (
	"fmt"
	"net/url"
	"time"
)

// Defaults for the connector configuration.
const (
	DefaultPageSize            = 100
	DefaultInitialPage         = 1
	DefaultTimeoutSeconds      = 30
	DefaultMaxRetries          = 3
	DefaultRetryBackoffSeconds = 5
	DefaultConnectionPoolSize  = 10

	// DefaultRequestRate is the proactive throttle rate in requests/second.
	DefaultRequestRate = 5.0
)

// DefaultCheckpointKeyPrefix prefixes the key under which the page cursor is
// persisted.
const DefaultCheckpointKeyPrefix = "checkpoints/families/"

// Config holds the connector configuration. Pool size, timeout and retry
// settings are configuration of the transport, not behaviour of the
// connector.
type Config struct {
	// BaseURL is the root of the Corpus API, e.g.
	// "https://api.example.org/v1". Validated at construction.
	BaseURL string

	// PageSize is the number of family records requested per page.
	PageSize int

	// InitialPage is the page index pagination starts from.
	InitialPage int

	// MaxPages bounds a single run; 0 means unbounded.
	MaxPages int

	// TimeoutSeconds is the per-request timeout. It applies to each page or
	// record fetch individually and is never inherited across pages.
	TimeoutSeconds int

	// MaxRetries is how many times an idempotent GET is retried before the
	// page is considered failed.
	MaxRetries int

	// RetryBackoffSeconds is the fixed delay between retries.
	RetryBackoffSeconds int

	// ConnectionPoolSize bounds concurrent connections to the API.
	ConnectionPoolSize int

	// RequestRate is the proactive throttle rate in requests/second.
	RequestRate float64

	// CheckpointKeyPrefix prefixes the key under which the page cursor is
	// persisted. The storage backend is an external collaborator.
	CheckpointKeyPrefix string
}

// DefaultConfig returns a Config with defaults applied for everything but
// the base URL.
func DefaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL:             baseURL,
		PageSize:            DefaultPageSize,
		InitialPage:         DefaultInitialPage,
		TimeoutSeconds:      DefaultTimeoutSeconds,
		MaxRetries:          DefaultMaxRetries,
		RetryBackoffSeconds: DefaultRetryBackoffSeconds,
		ConnectionPoolSize:  DefaultConnectionPoolSize,
		RequestRate:         DefaultRequestRate,
		CheckpointKeyPrefix: DefaultCheckpointKeyPrefix,
	}
}

// Validate checks the configuration. Connection-level setup failures are
// reported here, at construction, never during iteration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q", ErrConfigInvalidBaseURL, c.BaseURL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page size %d", ErrConfigInvalid, c.PageSize)
	}
	if c.InitialPage <= 0 {
		return fmt.Errorf("%w: initial page %d", ErrConfigInvalid, c.InitialPage)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries %d", ErrConfigInvalid, c.MaxRetries)
	}
	if c.ConnectionPoolSize <= 0 {
		return fmt.Errorf("%w: connection pool size %d", ErrConfigInvalid, c.ConnectionPoolSize)
	}
	if c.RequestRate <= 0 {
		return fmt.Errorf("%w: request rate %v", ErrConfigInvalid, c.RequestRate)
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryBackoff returns the fixed retry delay as a duration.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffSeconds) * time.Second
}
