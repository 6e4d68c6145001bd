package services

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

func newTestInterface(d *mockDispatcher, clock *fakeClock) *FalconInterface {
	return NewFalconInterface(InterfaceConfig{
		Credentials: domain.Credentials{ClientID: "a", ClientSecret: "b"},
		Dispatcher:  d,
		Now:         clock.Now,
	})
}

// TestFalconInterface_LoginScenario covers a full login with region discovery.
func TestFalconInterface_LoginScenario(t *testing.T) {
	d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", "eu-1"))
	f := newTestInterface(d, newFakeClock())

	result := f.Login(context.Background())

	assert.Equal(t, 201, result.StatusCode)
	assert.True(t, f.Authenticated())
	assert.Equal(t, "https://api.eu-1.crowdstrike.com", f.BaseURL())
	assert.Equal(t, map[string]string{"Authorization": "Bearer T"}, f.AuthHeaders(context.Background()))

	req := d.last()
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://api.crowdstrike.com/oauth2/token", req.URL)
	assert.True(t, req.Authenticating)
	assert.Equal(t, map[string]string{"client_id": "a", "client_secret": "b"}, req.Data)
	assert.Equal(t, 1, d.calls())
}

func TestFalconInterface_RegionRewrite(t *testing.T) {
	t.Run("us-2 hint moves us-1 base url", func(t *testing.T) {
		d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", "us-2"))
		f := newTestInterface(d, newFakeClock())

		f.Login(context.Background())
		assert.Equal(t, "https://api.us-2.crowdstrike.com", f.BaseURL())
	})

	t.Run("matching hint keeps base url", func(t *testing.T) {
		d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", "us-1"))
		f := newTestInterface(d, newFakeClock())

		f.Login(context.Background())
		assert.Equal(t, "https://api.crowdstrike.com", f.BaseURL())
	})

	t.Run("no hint keeps base url", func(t *testing.T) {
		d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", ""))
		f := newTestInterface(d, newFakeClock())
		f.SetBaseURL("eu-1")

		f.Login(context.Background())
		assert.Equal(t, "https://api.eu-1.crowdstrike.com", f.BaseURL())
	})

	t.Run("failed login keeps base url", func(t *testing.T) {
		d := newMockDispatcher().on("oauth2AccessToken", domain.NewResponse(domain.ErrorEnvelope(
			401, "access denied", map[string]string{"X-Cs-Region": "us-2"})))
		f := newTestInterface(d, newFakeClock())

		f.Login(context.Background())
		assert.Equal(t, "https://api.crowdstrike.com", f.BaseURL())
	})
}

// TestNewFalconInterface_RenewWindow tests renew window clamping.
func TestNewFalconInterface_RenewWindow(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected time.Duration
	}{
		{5 * time.Second, 120 * time.Second},
		{9999 * time.Second, 1200 * time.Second},
		{600 * time.Second, 600 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			f := NewFalconInterface(InterfaceConfig{RenewWindow: tt.in, Dispatcher: newMockDispatcher()})
			assert.Equal(t, tt.expected, f.Settings().RenewWindow)
			assert.Equal(t, tt.expected, f.Token().RenewWindow)
		})
	}
}

// TestFalconInterface_ExpiryBoundary advances a frozen clock across the renew boundary.
func TestFalconInterface_ExpiryBoundary(t *testing.T) {
	clock := newFakeClock()
	d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", ""))
	f := NewFalconInterface(InterfaceConfig{
		Credentials: domain.Credentials{ClientID: "a", ClientSecret: "b"},
		RenewWindow: 300 * time.Second,
		Dispatcher:  d,
		Now:         clock.Now,
	})

	assert.True(t, f.TokenExpired(), "empty token is expired")
	f.Login(context.Background())
	assert.False(t, f.TokenExpired())

	clock.Advance(1498 * time.Second)
	assert.False(t, f.TokenExpired())
	assert.True(t, f.Authenticated())

	clock.Advance(time.Second)
	assert.True(t, f.TokenExpired())
	assert.False(t, f.Authenticated())
}

// TestFalconInterface_AccessTokenOnly tests that raw tokens are never refreshed.
func TestFalconInterface_AccessTokenOnly(t *testing.T) {
	clock := newFakeClock()
	d := newMockDispatcher()
	f := NewFalconInterface(InterfaceConfig{AccessToken: "RAW", Dispatcher: d, Now: clock.Now})

	assert.False(t, f.Refreshable())
	assert.Equal(t, domain.AuthStyleToken, f.AuthStyle())
	assert.True(t, f.Authenticated())

	clock.Advance(2 * time.Hour)
	require.True(t, f.TokenExpired())

	headers := f.AuthHeaders(context.Background())
	assert.Equal(t, map[string]string{"Authorization": "Bearer RAW"}, headers)
	assert.Zero(t, d.calls())
}

// TestFalconInterface_AuthHeadersShape tests the header with no token.
func TestFalconInterface_AuthHeadersShape(t *testing.T) {
	d := newMockDispatcher()
	f := NewFalconInterface(InterfaceConfig{Dispatcher: d})

	headers := f.AuthHeaders(context.Background())

	require.Len(t, headers, 1)
	assert.Equal(t, "Bearer ", headers["Authorization"])
	assert.Zero(t, d.calls(), "invalid credentials never reach the network")
}

func TestFalconInterface_LoginInvalidCredentials(t *testing.T) {
	d := newMockDispatcher()
	f := NewFalconInterface(InterfaceConfig{
		Credentials: domain.Credentials{ClientID: "a"},
		Dispatcher:  d,
	})

	result := f.Login(context.Background())

	assert.Equal(t, 403, result.StatusCode)
	assert.Equal(t, "Invalid credentials specified", result.FirstError())
	assert.Equal(t, domain.FailReasonInvalid, f.Token().FailReason)
	assert.Equal(t, 403, f.Token().Status)
	assert.False(t, f.CredFormatValid())
	assert.Zero(t, d.calls())

	logout := f.Logout(context.Background(), "")
	assert.Equal(t, 403, logout.StatusCode)
	assert.Zero(t, d.calls())
}

func TestFalconInterface_LoginFailure(t *testing.T) {
	failHeaders := map[string]string{"X-Ratelimit-Remaining": "0"}
	d := newMockDispatcher().on("oauth2AccessToken",
		domain.NewResponse(domain.ErrorEnvelope(401, "access denied, invalid bearer token", failHeaders)))
	f := newTestInterface(d, newFakeClock())

	result := f.Login(context.Background())

	assert.Equal(t, 401, result.StatusCode)
	tok := f.Token()
	assert.Equal(t, "access denied, invalid bearer token", tok.FailReason)
	assert.Equal(t, 401, tok.Status)
	assert.Zero(t, tok.TTL)
	assert.Equal(t, failHeaders, tok.FailHeaders)
	assert.False(t, f.Authenticated())
}

func TestFalconInterface_Logout(t *testing.T) {
	t.Run("revokes with basic auth and clears token", func(t *testing.T) {
		d := newMockDispatcher().
			on("oauth2AccessToken", tokenResponse("T", "")).
			on("oauth2RevokeToken", domain.NewResponse(domain.Result{StatusCode: 200, Body: map[string]any{}}))
		f := newTestInterface(d, newFakeClock())
		f.Login(context.Background())

		result := f.Logout(context.Background(), "")

		assert.Equal(t, 200, result.StatusCode)
		req := d.last()
		assert.Equal(t, "https://api.crowdstrike.com/oauth2/revoke", req.URL)
		assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("a:b")), req.Headers["Authorization"])
		assert.Equal(t, map[string]string{"token": "T"}, req.Data)
		assert.Empty(t, f.Token().Value)
		assert.Zero(t, f.Token().TTL)
		assert.False(t, f.Authenticated())
	})

	t.Run("failed revoke keeps token", func(t *testing.T) {
		d := newMockDispatcher().
			on("oauth2AccessToken", tokenResponse("T", "")).
			on("oauth2RevokeToken", domain.NewResponse(domain.ErrorEnvelope(500, "nope", nil)))
		f := newTestInterface(d, newFakeClock())
		f.Login(context.Background())

		result := f.Logout(context.Background(), "")

		assert.Equal(t, 500, result.StatusCode)
		assert.Equal(t, "T", f.Token().Value)
	})

	t.Run("revoking another token keeps current", func(t *testing.T) {
		d := newMockDispatcher().
			on("oauth2AccessToken", tokenResponse("T", "")).
			on("oauth2RevokeToken", domain.NewResponse(domain.Result{StatusCode: 200, Body: map[string]any{}}))
		f := newTestInterface(d, newFakeClock())
		f.Login(context.Background())

		f.Logout(context.Background(), "OTHER")

		assert.Equal(t, map[string]string{"token": "OTHER"}, d.last().Data)
		assert.Equal(t, "T", f.Token().Value)
	})
}

func TestFalconInterface_AuthHeadersRefresh(t *testing.T) {
	clock := newFakeClock()
	d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", ""))
	f := newTestInterface(d, clock)

	assert.Equal(t, "Bearer T", f.AuthHeaders(context.Background())["Authorization"])
	assert.Equal(t, 1, d.count("oauth2AccessToken"))

	f.AuthHeaders(context.Background())
	assert.Equal(t, 1, d.count("oauth2AccessToken"), "live token is reused")

	clock.Advance(30 * time.Minute)
	f.AuthHeaders(context.Background())
	assert.Equal(t, 2, d.count("oauth2AccessToken"), "expired token is refreshed")
}

func TestFalconInterface_ConcurrentRefreshLogsInOnce(t *testing.T) {
	d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", ""))
	f := newTestInterface(d, newFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.AuthHeaders(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, d.count("oauth2AccessToken"))
}

func TestFalconInterface_TokenCache(t *testing.T) {
	cache := newMemoryCache()
	clock := newFakeClock()
	first := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", "us-2"))
	f := NewFalconInterface(InterfaceConfig{
		Credentials: domain.Credentials{ClientID: "a", ClientSecret: "b"},
		Dispatcher:  first,
		TokenCache:  cache,
		Now:         clock.Now,
	})
	f.Login(context.Background())

	second := newMockDispatcher()
	g := NewFalconInterface(InterfaceConfig{
		Credentials: domain.Credentials{ClientID: "a", ClientSecret: "b"},
		Dispatcher:  second,
		TokenCache:  cache,
		Now:         clock.Now,
	})

	assert.Equal(t, "Bearer T", g.AuthHeaders(context.Background())["Authorization"])
	assert.Equal(t, "https://api.us-2.crowdstrike.com", g.BaseURL())
	assert.Zero(t, second.calls())

	second.on("oauth2RevokeToken", domain.NewResponse(domain.Result{StatusCode: 200, Body: map[string]any{}}))
	g.Logout(context.Background(), "")
	_, err := cache.Load(context.Background(), domain.Credentials{ClientID: "a", ClientSecret: "b"}.CacheKey())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFalconInterface_TokenCacheRotatedSecret(t *testing.T) {
	cache := newMemoryCache()
	clock := newFakeClock()
	first := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", ""))
	f := NewFalconInterface(InterfaceConfig{
		Credentials: domain.Credentials{ClientID: "a", ClientSecret: "old"},
		Dispatcher:  first,
		TokenCache:  cache,
		Now:         clock.Now,
	})
	f.Login(context.Background())

	g := NewFalconInterface(InterfaceConfig{
		Credentials: domain.Credentials{ClientID: "a", ClientSecret: "new"},
		Dispatcher:  newMockDispatcher(),
		TokenCache:  cache,
		Now:         clock.Now,
	})

	assert.False(t, g.Restore(context.Background()))
	assert.Empty(t, g.Token().Value)
}

func TestFalconInterface_EnvironmentCredentials(t *testing.T) {
	source := &mockCredentialSource{creds: domain.Credentials{ClientID: "env-id", ClientSecret: "env-secret"}}
	d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", ""))
	f := NewFalconInterface(InterfaceConfig{Environment: source, Dispatcher: d})

	assert.Equal(t, domain.AuthStyleEnvironment, f.AuthStyle())

	result := f.Login(context.Background())

	assert.Equal(t, 201, result.StatusCode)
	assert.Equal(t, "env-id", d.last().Data.(map[string]string)["client_id"])
	assert.True(t, f.CredFormatValid())
}

func TestFalconInterface_ChildLogin(t *testing.T) {
	d := newMockDispatcher().
		on("oauth2AccessToken", tokenResponse("T", "")).
		on("oauth2RevokeToken", domain.NewResponse(domain.Result{StatusCode: 200, Body: map[string]any{}}))
	f := newTestInterface(d, newFakeClock())
	f.Login(context.Background())

	result := f.ChildLogin(context.Background(), "child-cid")

	assert.Equal(t, 201, result.StatusCode)
	assert.Equal(t, "child-cid", f.MemberCID())
	assert.Equal(t, 1, d.count("oauth2RevokeToken"))
	assert.Equal(t, "child-cid", d.last().Data.(map[string]string)["member_cid"])

	f.ChildLogout(context.Background(), true)
	assert.Empty(t, f.MemberCID())
	_, hasMember := d.last().Data.(map[string]string)["member_cid"]
	assert.False(t, hasMember)
	assert.Equal(t, 3, d.count("oauth2AccessToken"))
}

func TestFalconInterface_TokenSource(t *testing.T) {
	d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T", ""))
	f := newTestInterface(d, newFakeClock())

	tok, err := f.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	assert.Equal(t, "T", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)

	bad := NewFalconInterface(InterfaceConfig{Dispatcher: newMockDispatcher()})
	_, err = bad.TokenSource(context.Background()).Token()
	assert.Error(t, err)
}
