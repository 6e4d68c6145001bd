package services

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

type falconTokenSource struct {
	ctx context.Context
	f   *FalconInterface
}

// TokenSource exposes the managed bearer token as an oauth2.TokenSource,
// so HTTP clients built with oauth2.NewClient share the refresh logic.
func (f *FalconInterface) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &falconTokenSource{ctx: ctx, f: f}
}

// Token returns the current token, logging in first when it is expired.
func (s *falconTokenSource) Token() (*oauth2.Token, error) {
	s.f.AuthHeaders(s.ctx)
	tok := s.f.Token()
	if tok.Value == "" {
		return nil, fmt.Errorf("no token issued: %s", tok.FailReason)
	}
	return &oauth2.Token{
		AccessToken: tok.Value,
		TokenType:   "Bearer",
		Expiry:      tok.ExpiresAt(),
	}, nil
}
