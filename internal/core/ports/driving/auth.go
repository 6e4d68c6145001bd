package driving

import (
	"context"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// Authenticator manages the bearer token lifecycle.
type Authenticator interface {
	// Login requests a new token.
	Login(ctx context.Context) domain.Result

	// Logout revokes token, or the current token when token is empty.
	Logout(ctx context.Context, token string) domain.Result

	// AuthHeaders returns the Authorization header, refreshing first when
	// the token is expired and can be refreshed.
	AuthHeaders(ctx context.Context) map[string]string

	// Authenticated reports whether the current token is still usable.
	Authenticated() bool

	// TokenExpired is the inverse of Authenticated.
	TokenExpired() bool

	// Refreshable reports whether a new token can be minted.
	Refreshable() bool

	// BaseURL returns the current API base URL.
	BaseURL() string

	// Connection returns the transport settings for dispatched calls.
	Connection() domain.Connection

	// Token returns a snapshot of the current token state.
	Token() domain.Token
}
