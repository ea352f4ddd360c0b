// Package auth provides TokenProvider implementations for the upstream API:
// static tokens, no-auth, and OAuth2 with automatic refresh.
package auth
