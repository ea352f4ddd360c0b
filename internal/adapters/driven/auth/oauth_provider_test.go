package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

// countingSource is an oauth2.TokenSource that counts calls.
type countingSource struct {
	calls int
	token *oauth2.Token
	err   error
}

func (s *countingSource) Token() (*oauth2.Token, error) {
	s.calls++
	return s.token, s.err
}

func TestStaticTokenProvider(t *testing.T) {
	provider := NewStaticTokenProvider("secret")
	token, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret", token)
}

func TestNullTokenProvider(t *testing.T) {
	provider := NewNullTokenProvider()
	token, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestOAuthTokenProvider(t *testing.T) {
	t.Run("returns the source token", func(t *testing.T) {
		source := &countingSource{token: &oauth2.Token{
			AccessToken: "tok-1",
			Expiry:      time.Now().Add(time.Hour),
		}}
		provider := NewOAuthTokenProvider(source)

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
	})

	t.Run("caches until close to expiry", func(t *testing.T) {
		source := &countingSource{token: &oauth2.Token{
			AccessToken: "tok-1",
			Expiry:      time.Now().Add(time.Hour),
		}}
		provider := NewOAuthTokenProvider(source)

		for i := 0; i < 5; i++ {
			_, err := provider.GetToken(context.Background())
			require.NoError(t, err)
		}
		assert.Equal(t, 1, source.calls)
	})

	t.Run("refreshes when the cached token is inside the buffer", func(t *testing.T) {
		source := &countingSource{token: &oauth2.Token{
			AccessToken: "tok-1",
			Expiry:      time.Now().Add(time.Minute),
		}}
		provider := NewOAuthTokenProvider(source)

		_, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		_, err = provider.GetToken(context.Background())
		require.NoError(t, err)

		// One minute to expiry is inside the five-minute buffer.
		assert.Equal(t, 2, source.calls)
	})

	t.Run("wraps source failures", func(t *testing.T) {
		source := &countingSource{err: fmt.Errorf("upstream down")}
		provider := NewOAuthTokenProvider(source)

		_, err := provider.GetToken(context.Background())
		assert.ErrorIs(t, err, domain.ErrTokenRefreshFailed)
	})

	t.Run("rejects empty tokens", func(t *testing.T) {
		source := &countingSource{token: &oauth2.Token{}}
		provider := NewOAuthTokenProvider(source)

		_, err := provider.GetToken(context.Background())
		assert.ErrorIs(t, err, domain.ErrTokenRefreshFailed)
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		source := &countingSource{token: &oauth2.Token{AccessToken: "tok-1"}}
		provider := NewOAuthTokenProvider(source)

		_, err := provider.GetToken(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewClientCredentialsProvider(t *testing.T) {
	t.Run("requires client id, secret and token url", func(t *testing.T) {
		_, err := NewClientCredentialsProvider(context.Background(), "", "", "", nil)
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("builds a provider from full settings", func(t *testing.T) {
		provider, err := NewClientCredentialsProvider(context.Background(),
			"id", "secret", "https://auth.example.org/token", []string{"read"})
		require.NoError(t, err)
		assert.NotNil(t, provider)
	})
}
