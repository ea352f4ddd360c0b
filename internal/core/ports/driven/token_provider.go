package driven

import "context"

// TokenProvider supplies an access token for upstream API calls. It is an
// explicit, injected component with its own refresh policy; there is no
// ambient process-wide token state.
type TokenProvider interface {
	// GetToken returns a currently valid token, refreshing if necessary.
	GetToken(ctx context.Context) (string, error)
}
