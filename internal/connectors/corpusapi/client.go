package corpusapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
	"github.com/policyatlas/atlas-cli/internal/logger"
)

// maxErrorBodyBytes bounds how much of an error response body is kept for
// the error message.
const maxErrorBodyBytes = 512

// Client is a thin HTTP client for the Corpus API with fixed-delay retries
// for idempotent GETs and proactive request throttling.
type Client struct {
	httpClient    *http.Client
	baseURL       *url.URL
	tokenProvider driven.TokenProvider
	limiter       *rate.Limiter
	maxRetries    int
	retryBackoff  time.Duration
}

// NewClient creates a client from validated configuration. The token
// provider is optional; when nil, requests are unauthenticated.
func NewClient(cfg *Config, tokenProvider driven.TokenProvider) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalidBaseURL, err)
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.ConnectionPoolSize,
		MaxIdleConnsPerHost: cfg.ConnectionPoolSize,
		MaxConnsPerHost:     cfg.ConnectionPoolSize,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: transport,
		},
		baseURL:       base,
		tokenProvider: tokenProvider,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestRate), 1),
		maxRetries:    cfg.MaxRetries,
		retryBackoff:  cfg.RetryBackoff(),
	}, nil
}

// GetJSON performs a GET against path with the given query, decodes the
// response body into out, and returns the endpoint URL and status code.
// Transport errors and retryable status codes (429, 5xx) are retried up to
// maxRetries times with a fixed backoff before the request is considered
// failed.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) (string, int, error) {
	endpoint := c.endpointURL(path, query)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying %s (attempt %d/%d)", endpoint, attempt, c.maxRetries)
			select {
			case <-ctx.Done():
				return endpoint, 0, ctx.Err()
			case <-time.After(c.retryBackoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return endpoint, 0, err
		}

		status, err := c.doOnce(ctx, endpoint, out)
		if err == nil {
			return endpoint, status, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !isRetryable(apiErr.StatusCode) {
			return endpoint, apiErr.StatusCode, err
		}
		if ctx.Err() != nil {
			return endpoint, 0, ctx.Err()
		}
	}

	return endpoint, 0, fmt.Errorf("retries exhausted: %w", lastErr)
}

// doOnce performs a single GET attempt.
func (c *Client) doOnce(ctx context.Context, endpoint string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokenProvider != nil {
		token, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return 0, fmt.Errorf("get token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug("fetching %s", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return resp.StatusCode, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        endpoint,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// endpointURL joins the base URL with a path and query.
func (c *Client) endpointURL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
