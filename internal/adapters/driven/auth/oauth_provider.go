package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
)

// Ensure OAuthTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*OAuthTokenProvider)(nil)

// defaultRefreshBuffer is how long before expiry a cached token is treated
// as stale. Refreshing early avoids racing the upstream clock.
const defaultRefreshBuffer = 5 * time.Minute

// OAuthTokenProvider provides OAuth access tokens with automatic refresh.
// It wraps any oauth2.TokenSource and caches the current token until close
// to expiry.
type OAuthTokenProvider struct {
	source oauth2.TokenSource

	mu            sync.RWMutex
	cachedToken   string
	cacheExpiry   time.Time
	refreshBuffer time.Duration
}

// NewOAuthTokenProvider creates a token provider backed by the given token
// source.
func NewOAuthTokenProvider(source oauth2.TokenSource) *OAuthTokenProvider {
	return &OAuthTokenProvider{
		source:        source,
		refreshBuffer: defaultRefreshBuffer,
	}
}

// NewClientCredentialsProvider creates a token provider that obtains tokens
// via the OAuth2 client credentials grant.
func NewClientCredentialsProvider(ctx context.Context, clientID, clientSecret, tokenURL string, scopes []string) (*OAuthTokenProvider, error) {
	if clientID == "" || clientSecret == "" || tokenURL == "" {
		return nil, fmt.Errorf("%w: client id, secret and token url are required", domain.ErrAuthRequired)
	}

	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}
	return NewOAuthTokenProvider(cfg.TokenSource(ctx)), nil
}

// GetToken returns a valid access token, refreshing if necessary.
func (p *OAuthTokenProvider) GetToken(ctx context.Context) (string, error) {
	// Fast path: check cache with read lock
	p.mu.RLock()
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		token := p.cachedToken
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	// Slow path: refresh under write lock
	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		return p.cachedToken, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := p.source.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token source returned empty token", domain.ErrTokenRefreshFailed)
	}

	p.cachedToken = token.AccessToken
	p.cacheExpiry = token.Expiry
	if !token.Expiry.IsZero() {
		p.cacheExpiry = token.Expiry.Add(-p.refreshBuffer)
	}

	return p.cachedToken, nil
}
