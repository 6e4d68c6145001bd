package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// Ensure FalconInterface implements the Authenticator interface.
var _ driving.Authenticator = (*FalconInterface)(nil)

// Token endpoint routes.
const (
	TokenRoute  = "/oauth2/token"
	RevokeRoute = "/oauth2/revoke"
)

// InterfaceConfig configures a FalconInterface.
type InterfaceConfig struct {
	Credentials domain.Credentials
	// AccessToken authenticates with a pre-minted token. The resulting
	// interface cannot refresh.
	AccessToken string
	// Environment is consulted when neither Credentials nor AccessToken are set.
	Environment driven.CredentialSource

	BaseURL          string
	DisableSSLVerify bool
	Proxy            domain.Proxy
	Timeout          domain.Timeout
	UserAgent        string
	// RenewWindow is clamped to [120s, 1200s].
	RenewWindow time.Duration

	Dispatcher driven.Dispatcher
	// TokenCache is optional.
	TokenCache driven.TokenCache
	// Now defaults to time.Now.
	Now func() time.Time
}

// FalconInterface owns the credentials, connection settings and token
// state of one API client. Any number of service classes may share it.
type FalconInterface struct {
	dispatcher  driven.Dispatcher
	cache       driven.TokenCache
	environment driven.CredentialSource
	now         func() time.Time

	mu          sync.RWMutex
	creds       domain.Credentials
	settings    domain.Settings
	token       domain.Token
	refreshable bool
	style       domain.AuthStyle

	refresh singleflight.Group
}

// NewFalconInterface creates an auth interface. No network call is made.
func NewFalconInterface(cfg InterfaceConfig) *FalconInterface {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	renew := domain.ClampRenewWindow(cfg.RenewWindow)

	f := &FalconInterface{
		dispatcher:  cfg.Dispatcher,
		cache:       cfg.TokenCache,
		environment: cfg.Environment,
		now:         now,
		creds:       cfg.Credentials,
		settings: domain.Settings{
			BaseURL:     domain.ConfirmBaseURL(cfg.BaseURL),
			SSLVerify:   !cfg.DisableSSLVerify,
			Proxy:       cfg.Proxy,
			Timeout:     cfg.Timeout,
			UserAgent:   cfg.UserAgent,
			RenewWindow: renew,
		},
		token:       domain.Token{RenewWindow: renew},
		refreshable: true,
		style:       domain.AuthStyleCredentials,
	}

	switch {
	case cfg.AccessToken != "":
		f.token.Value = cfg.AccessToken
		f.token.TTL = domain.AccessTokenTTL
		f.token.IssuedAt = now()
		f.refreshable = false
		f.style = domain.AuthStyleToken
	case !cfg.Credentials.Valid() && cfg.Environment != nil:
		f.style = domain.AuthStyleEnvironment
	}

	return f
}

// Login requests a new bearer token. Invalid credentials fail with a
// synthesized 403 and no network call.
func (f *FalconInterface) Login(ctx context.Context) domain.Result {
	creds := f.credentials(ctx)
	if !creds.Valid() {
		f.mu.Lock()
		f.token.TTL = 0
		f.token.Status = http.StatusForbidden
		f.token.FailReason = domain.FailReasonInvalid
		f.mu.Unlock()
		logger.Warn("login skipped: invalid credentials")
		return domain.NewError(domain.KindInvalidCredentials, "Invalid credentials specified").Result()
	}

	f.mu.RLock()
	settings := f.settings
	f.mu.RUnlock()

	resp := f.dispatcher.Dispatch(ctx, domain.Request{
		Operation:      "oauth2AccessToken",
		Method:         http.MethodPost,
		URL:            settings.BaseURL + TokenRoute,
		Headers:        map[string]string{},
		Data:           creds.FormValues(),
		Connection:     settings.Connection(),
		Authenticating: true,
	})

	if resp.IsBinary() {
		f.mu.Lock()
		f.token.TTL = 0
		f.token.Status = http.StatusForbidden
		f.token.FailReason = "UNEXPECTED"
		f.mu.Unlock()
		return domain.ErrorEnvelope(http.StatusForbidden, "Unexpected API response received", nil)
	}

	result := resp.Result()
	value, ttl, ok := parseTokenBody(result)

	f.mu.Lock()
	f.token.Status = result.StatusCode
	if result.StatusCode == http.StatusCreated && ok {
		f.token.Value = value
		f.token.TTL = ttl
		f.token.IssuedAt = f.now()
		f.token.FailReason = ""
		f.token.FailHeaders = nil
		f.settings.BaseURL = AutodiscoverRegion(f.settings.BaseURL, result.Headers)
	} else {
		f.token.TTL = 0
		f.token.FailReason = result.FirstError()
		f.token.FailHeaders = result.Headers
	}
	token := f.token
	baseURL := f.settings.BaseURL
	f.mu.Unlock()

	if result.StatusCode == http.StatusCreated && ok {
		logger.Debug("login succeeded, token valid for %s at %s", ttl, baseURL)
		f.store(ctx, creds, token, baseURL)
	} else {
		logger.Warn("login failed with status %d: %s", result.StatusCode, token.FailReason)
	}

	return result
}

func parseTokenBody(result domain.Result) (string, time.Duration, bool) {
	value, ok := result.Body["access_token"].(string)
	if !ok || value == "" {
		return "", 0, false
	}
	var seconds float64
	switch v := result.Body["expires_in"].(type) {
	case float64:
		seconds = v
	case int:
		seconds = float64(v)
	}
	return value, time.Duration(seconds) * time.Second, true
}

// Logout revokes token, or the current token when token is empty.
// The revoke request authenticates with HTTP Basic client credentials.
func (f *FalconInterface) Logout(ctx context.Context, token string) domain.Result {
	creds := f.credentials(ctx)
	if !creds.Valid() {
		return domain.NewError(domain.KindInvalidCredentials, "Invalid credentials specified").Result()
	}

	f.mu.RLock()
	settings := f.settings
	current := f.token.Value
	f.mu.RUnlock()
	if token == "" {
		token = current
	}

	basic := base64.StdEncoding.EncodeToString([]byte(creds.ClientID + ":" + creds.ClientSecret))
	resp := f.dispatcher.Dispatch(ctx, domain.Request{
		Operation:      "oauth2RevokeToken",
		Method:         http.MethodPost,
		URL:            settings.BaseURL + RevokeRoute,
		Headers:        map[string]string{"Authorization": "Basic " + basic},
		Data:           map[string]string{"token": token},
		Connection:     settings.Connection(),
		Authenticating: true,
	})
	result := resp.Result()

	if result.StatusCode == http.StatusOK || result.StatusCode == http.StatusNoContent {
		if token == current {
			f.mu.Lock()
			f.token = f.token.Cleared()
			f.mu.Unlock()
			f.forget(ctx, creds)
		}
		logger.Debug("token revoked")
	} else {
		logger.Warn("token revocation failed with status %d", result.StatusCode)
	}
	return result
}

// AuthHeaders returns the Authorization header. When the token is expired
// and refreshable it logs in first; concurrent callers share one login.
// An empty token still yields "Bearer " so the wrapped API reports 401.
func (f *FalconInterface) AuthHeaders(ctx context.Context) map[string]string {
	if f.TokenExpired() && f.Refreshable() {
		f.ensureToken(ctx)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return map[string]string{"Authorization": "Bearer " + f.token.Value}
}

// ensureToken adopts a cached token when one is usable, otherwise logs in.
func (f *FalconInterface) ensureToken(ctx context.Context) {
	_, _, _ = f.refresh.Do("login", func() (any, error) {
		if !f.TokenExpired() {
			return nil, nil
		}
		if f.Restore(ctx) {
			return nil, nil
		}
		f.Login(ctx)
		return nil, nil
	})
}

// Restore adopts a live token from the token cache. It reports whether
// a token was adopted.
func (f *FalconInterface) Restore(ctx context.Context) bool {
	if f.cache == nil || !f.Refreshable() {
		return false
	}
	creds := f.credentials(ctx)
	if !creds.Valid() {
		return false
	}
	cached, err := f.cache.Load(ctx, creds.CacheKey())
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !cached.Usable(f.now(), f.settings.RenewWindow) {
		return false
	}
	f.token.Value = cached.Value
	f.token.IssuedAt = cached.IssuedAt
	f.token.TTL = cached.TTL
	f.token.Status = http.StatusCreated
	f.token.FailReason = ""
	if cached.BaseURL != "" {
		f.settings.BaseURL = cached.BaseURL
	}
	logger.Debug("restored cached token for %s", f.settings.BaseURL)
	return true
}

func (f *FalconInterface) store(ctx context.Context, creds domain.Credentials, token domain.Token, baseURL string) {
	if f.cache == nil {
		return
	}
	err := f.cache.Save(ctx, creds.CacheKey(), domain.CachedToken{
		Value:     token.Value,
		IssuedAt:  token.IssuedAt,
		TTL:       token.TTL,
		BaseURL:   baseURL,
		UpdatedAt: f.now(),
	})
	if err != nil {
		logger.Warn("failed to cache token: %v", err)
	}
}

func (f *FalconInterface) forget(ctx context.Context, creds domain.Credentials) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Delete(ctx, creds.CacheKey()); err != nil {
		logger.Warn("failed to remove cached token: %v", err)
	}
}

// credentials returns the configured credentials, resolving them from the
// environment source on first use when none were given.
func (f *FalconInterface) credentials(ctx context.Context) domain.Credentials {
	f.mu.RLock()
	creds := f.creds
	env := f.environment
	style := f.style
	f.mu.RUnlock()

	if creds.Valid() || env == nil || style != domain.AuthStyleEnvironment {
		return creds
	}
	resolved, err := env.Credentials(ctx)
	if err != nil {
		logger.Debug("environment credentials unavailable: %v", err)
		return creds
	}
	f.mu.Lock()
	f.creds = resolved
	f.mu.Unlock()
	return resolved
}

// ChildLogin re-authenticates against a child tenant identified by memberCID.
func (f *FalconInterface) ChildLogin(ctx context.Context, memberCID string) domain.Result {
	if f.Authenticated() && f.Refreshable() {
		f.Logout(ctx, "")
	}
	creds := f.credentials(ctx)
	f.mu.Lock()
	f.creds = creds.WithMemberCID(memberCID)
	f.mu.Unlock()
	return f.Login(ctx)
}

// ChildLogout revokes the child tenant token and drops the member CID.
// When loginAsParent is set it logs back in as the parent and returns
// that login result instead.
func (f *FalconInterface) ChildLogout(ctx context.Context, loginAsParent bool) domain.Result {
	result := f.Logout(ctx, "")
	f.mu.Lock()
	f.creds = f.creds.WithMemberCID("")
	f.mu.Unlock()
	if loginAsParent {
		return f.Login(ctx)
	}
	return result
}

// TokenExpired reports whether the token must be renewed.
func (f *FalconInterface) TokenExpired() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.token.Expired(f.now())
}

// Authenticated reports whether the current token is usable.
func (f *FalconInterface) Authenticated() bool {
	return !f.TokenExpired()
}

// CredFormatValid reports whether both client id and secret are present.
func (f *FalconInterface) CredFormatValid() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.creds.Valid()
}

// Refreshable reports whether new tokens can be minted.
func (f *FalconInterface) Refreshable() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.refreshable
}

// AuthStyle reports how the interface was authenticated.
func (f *FalconInterface) AuthStyle() domain.AuthStyle {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.style
}

// BaseURL returns the current API base URL.
func (f *FalconInterface) BaseURL() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings.BaseURL
}

// SetBaseURL replaces the API base URL.
func (f *FalconInterface) SetBaseURL(baseURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings.BaseURL = domain.ConfirmBaseURL(baseURL)
}

// Settings returns a snapshot of the connection configuration.
func (f *FalconInterface) Settings() domain.Settings {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings
}

// Connection returns the transport settings for dispatched calls.
func (f *FalconInterface) Connection() domain.Connection {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings.Connection()
}

// Token returns a snapshot of the token state.
func (f *FalconInterface) Token() domain.Token {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.token
}

// MemberCID returns the child tenant currently targeted, if any.
func (f *FalconInterface) MemberCID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.creds.MemberCID
}

// Dispatcher returns the dispatcher the interface sends requests through.
func (f *FalconInterface) Dispatcher() driven.Dispatcher {
	return f.dispatcher
}
