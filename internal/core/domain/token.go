package domain

import "time"

// AccessTokenTTL is the lifetime assumed for raw tokens supplied by the caller.
const AccessTokenTTL = 1799 * time.Second

// FailReasonInvalid is recorded when login is attempted with invalid credentials.
const FailReasonInvalid = "INVALID"

// Token is the bearer token state of an auth interface.
type Token struct {
	Value    string
	IssuedAt time.Time
	// TTL is the lifetime declared by the token endpoint.
	TTL         time.Duration
	RenewWindow time.Duration
	// Status is the HTTP status of the last token request.
	Status     int
	FailReason string
	// FailHeaders are the response headers of the last failed token request.
	FailHeaders map[string]string
}

// Expired reports whether the token should be treated as expired at now:
// (now - IssuedAt) >= (TTL - RenewWindow).
func (t Token) Expired(now time.Time) bool {
	return now.Sub(t.IssuedAt) >= t.TTL-t.RenewWindow
}

// ExpiresAt returns the moment the token is treated as expired.
func (t Token) ExpiresAt() time.Time {
	return t.IssuedAt.Add(t.TTL - t.RenewWindow)
}

// Cleared returns the token with its value removed and TTL zeroed.
func (t Token) Cleared() Token {
	t.Value = ""
	t.TTL = 0
	return t
}

// CachedToken is a token persisted together with the base URL it was minted for.
type CachedToken struct {
	Value     string
	IssuedAt  time.Time
	TTL       time.Duration
	BaseURL   string
	UpdatedAt time.Time
}

// Usable reports whether the cached token has at least renewWindow left at now.
func (c CachedToken) Usable(now time.Time, renewWindow time.Duration) bool {
	if c.Value == "" {
		return false
	}
	return now.Sub(c.IssuedAt) < c.TTL-renewWindow
}
