package serviceclass

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/services"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, "local", Resolve("local", "shared"))
	assert.Equal(t, "shared", Resolve("", "shared"))
	assert.Equal(t, domain.Timeout{Total: time.Second}, Resolve(domain.Timeout{}, domain.Timeout{Total: time.Second}))
	assert.Equal(t, domain.Proxy{"https": "p"}, ResolveMap(nil, domain.Proxy{"https": "p"}))
	assert.Equal(t, domain.Proxy{"http": "q"}, ResolveMap(domain.Proxy{"http": "q"}, domain.Proxy{"https": "p"}))
}

func TestServiceClass_SharedAuthLogsInOnce(t *testing.T) {
	d := newMockDispatcher()
	auth := sharedAuth(d)
	hosts := NewHosts(Options{Auth: auth})
	incidents := NewIncidents(Options{Auth: auth})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			hosts.QueryDevicesByFilter(context.Background(), Query{Limit: 1})
		}()
		go func() {
			defer wg.Done()
			incidents.QueryIncidents(context.Background(), Query{})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, d.count("oauth2AccessToken"))
	assert.Equal(t, 8, d.count("QueryDevicesByFilter"))
	assert.Equal(t, 8, d.count("QueryIncidents"))
	assert.True(t, hosts.Authenticated())
	assert.True(t, incidents.Authenticated())
	assert.Equal(t, "Bearer T", d.last().Headers["Authorization"])
}

func TestServiceClass_AuthStyle(t *testing.T) {
	d := newMockDispatcher()

	shared := NewHosts(Options{Auth: sharedAuth(d)})
	assert.Equal(t, domain.AuthStyleObject, shared.AuthStyle())

	owned := NewHosts(Options{Interface: services.InterfaceConfig{
		Credentials: domain.Credentials{ClientID: "id", ClientSecret: "secret"},
		Dispatcher:  d,
	}})
	assert.Equal(t, domain.AuthStyleCredentials, owned.AuthStyle())

	token := NewHosts(Options{Interface: services.InterfaceConfig{AccessToken: "raw", Dispatcher: d}})
	assert.Equal(t, domain.AuthStyleToken, token.AuthStyle())
}

func TestServiceClass_ExtHeaders(t *testing.T) {
	d := newMockDispatcher()
	hosts := NewHosts(Options{
		Auth:       sharedAuth(d),
		ExtHeaders: map[string]string{"X-Team": "blue", "Authorization": "Bearer forged", "X-Trace": "ext"},
	})

	hosts.Invoke(context.Background(), "QueryDevicesByFilter", domain.CommandOptions{
		Headers: map[string]string{"X-Trace": "call"},
	})

	headers := d.last().Headers
	assert.Equal(t, "blue", headers["X-Team"])
	assert.Equal(t, "call", headers["X-Trace"])
	assert.Equal(t, "Bearer T", headers["Authorization"])

	hosts.SetExtHeaders(nil)
	hosts.QueryHiddenDevices(context.Background(), Query{})
	assert.NotContains(t, d.last().Headers, "X-Team")
}

func TestServiceClass_ConnectionOverrides(t *testing.T) {
	d := newMockDispatcher()
	auth := services.NewFalconInterface(services.InterfaceConfig{
		AccessToken: "raw",
		Proxy:       domain.Proxy{"https": "http://shared:3128"},
		Timeout:     domain.Timeout{Total: 30 * time.Second},
		UserAgent:   "shared-agent",
		Dispatcher:  d,
	})

	plain := NewHosts(Options{Auth: auth})
	custom := NewHosts(Options{
		Auth:      auth,
		Proxy:     domain.Proxy{"https": "http://local:8080"},
		Timeout:   domain.Timeout{Connect: time.Second, Read: 2 * time.Second},
		UserAgent: "local-agent",
	})

	plain.QueryDevicesByFilter(context.Background(), Query{})
	conn := d.last().Connection
	assert.Equal(t, domain.Proxy{"https": "http://shared:3128"}, conn.Proxy)
	assert.Equal(t, 30*time.Second, conn.Timeout.Total)
	assert.Equal(t, "shared-agent", conn.UserAgent)
	assert.True(t, conn.SSLVerify)

	custom.QueryDevicesByFilter(context.Background(), Query{})
	conn = d.last().Connection
	assert.Equal(t, domain.Proxy{"https": "http://local:8080"}, conn.Proxy)
	assert.Equal(t, domain.Timeout{Connect: time.Second, Read: 2 * time.Second}, conn.Timeout)
	assert.Equal(t, "local-agent", conn.UserAgent)

	custom.SetUserAgent("")
	assert.Equal(t, "shared-agent", custom.UserAgent())
	plain.SetTimeout(domain.Timeout{Total: time.Second})
	assert.Equal(t, time.Second, plain.Timeout().Total)
	assert.Equal(t, 30*time.Second, auth.Connection().Timeout.Total)
}

func TestServiceClass_Invoke(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		operation string
		status    int
	}{
		{name: "operation id", method: "QueryDevicesByFilter", operation: "QueryDevicesByFilter", status: 200},
		{name: "snake case alias", method: "query_devices_by_filter", operation: "QueryDevicesByFilter", status: 200},
		{name: "untyped collection member", method: "QueryDevicesByFilterScroll", operation: "QueryDevicesByFilterScroll", status: 200},
		{name: "operation from another collection", method: "QueryIncidents", status: 418},
		{name: "unknown", method: "does_not_exist", status: 418},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newMockDispatcher()
			hosts := NewHosts(Options{Interface: services.InterfaceConfig{AccessToken: "raw", Dispatcher: d}})

			resp := hosts.Invoke(context.Background(), tt.method, domain.CommandOptions{})

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.operation == "" {
				assert.Equal(t, 0, d.calls())
				assert.Equal(t, "Invalid API operation specified.", resp.Result().FirstError())
				return
			}
			require.Equal(t, 1, d.calls())
			assert.Equal(t, tt.operation, d.last().Operation)
		})
	}
}

func TestServiceClass_Methods(t *testing.T) {
	hosts := NewHosts(Options{Interface: services.InterfaceConfig{AccessToken: "raw", Dispatcher: newMockDispatcher()}})

	methods := hosts.Methods()
	assert.Contains(t, methods, "PerformActionV2")
	assert.Contains(t, methods, "perform_action")
	assert.Contains(t, methods, "query_devices_by_filter_scroll")
	assert.Len(t, methods, 12)
}

func TestServiceClass_Override(t *testing.T) {
	d := newMockDispatcher()
	hosts := NewHosts(Options{Auth: sharedAuth(d), ExtHeaders: map[string]string{"X-Ext": "1"}})

	resp := hosts.Override(context.Background(), "get", "/devices/queries/devices/v1", OverrideOptions{
		Parameters: map[string]any{"limit": 5, "unlisted": "kept"},
	})

	assert.Equal(t, 200, resp.StatusCode)
	req := d.last()
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "https://api.crowdstrike.com/devices/queries/devices/v1", req.URL)
	assert.Equal(t, map[string]any{"limit": 5, "unlisted": "kept"}, req.Params)
	assert.Equal(t, "1", req.Headers["X-Ext"])
	assert.Equal(t, "Bearer T", req.Headers["Authorization"])
}

func TestServiceClass_DisablePayloadValidation(t *testing.T) {
	d := newMockDispatcher()
	auth := sharedAuth(d)

	validating := NewIncidents(Options{Auth: auth})
	validating.GetIncidents(context.Background(), "a")
	assert.NotNil(t, d.last().BodyValidator)

	relaxed := NewIncidents(Options{Auth: auth, DisablePayloadValidation: true})
	assert.False(t, relaxed.ValidatePayloads())
	relaxed.GetIncidents(context.Background(), "a")
	assert.Nil(t, d.last().BodyValidator)
	assert.Nil(t, d.last().BodyRequired)
}

func TestServiceClass_Close(t *testing.T) {
	t.Run("owned interface revokes", func(t *testing.T) {
		d := newMockDispatcher().on("oauth2AccessToken", tokenResponse("T"))
		hosts := NewHosts(Options{Interface: services.InterfaceConfig{
			Credentials: domain.Credentials{ClientID: "id", ClientSecret: "secret"},
			Dispatcher:  d,
		}})
		require.True(t, hosts.Login(context.Background()).OK())

		require.NoError(t, hosts.Close(context.Background()))
		assert.Equal(t, 1, d.count("oauth2RevokeToken"))
		assert.False(t, hosts.Authenticated())
	})

	t.Run("shared interface is left alone", func(t *testing.T) {
		d := newMockDispatcher()
		auth := sharedAuth(d)
		hosts := NewHosts(Options{Auth: auth})
		auth.Login(context.Background())

		require.NoError(t, hosts.Close(context.Background()))
		assert.Equal(t, 0, d.count("oauth2RevokeToken"))
		assert.True(t, auth.Authenticated())
	})

	t.Run("failed revoke is reported", func(t *testing.T) {
		d := newMockDispatcher().
			on("oauth2AccessToken", tokenResponse("T")).
			on("oauth2RevokeToken", domain.NewResponse(domain.Result{
				StatusCode: 500,
				Body:       map[string]any{"errors": []any{map[string]any{"message": "boom"}}, "resources": []any{}},
			}))
		hosts := NewHosts(Options{Interface: services.InterfaceConfig{
			Credentials: domain.Credentials{ClientID: "id", ClientSecret: "secret"},
			Dispatcher:  d,
		}})
		hosts.Login(context.Background())

		err := hosts.Close(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestQuery_Keywords(t *testing.T) {
	assert.Empty(t, Query{}.Keywords())
	assert.Equal(t, map[string]any{"filter": "platform_name:'Linux'", "sort": "hostname.asc", "limit": 10, "offset": "abc"},
		Query{Filter: "platform_name:'Linux'", Sort: "hostname.asc", Limit: 10, Offset: "abc"}.Keywords())
}
