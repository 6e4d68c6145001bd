package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// --- Mock implementations ---

// mockDispatcher implements driven.Dispatcher for testing.
// Responses are served by operation id; unknown ids get a 200 envelope.
type mockDispatcher struct {
	mu        sync.Mutex
	requests  []domain.Request
	responses map[string]*domain.Response
}

func newMockDispatcher() *mockDispatcher {
	return &mockDispatcher{responses: map[string]*domain.Response{}}
}

func (m *mockDispatcher) on(operation string, resp *domain.Response) *mockDispatcher {
	m.responses[operation] = resp
	return m
}

func (m *mockDispatcher) Dispatch(_ context.Context, req domain.Request) *domain.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if resp, ok := m.responses[req.Operation]; ok {
		return resp
	}
	return domain.NewResponse(domain.Result{
		StatusCode: 200,
		Headers:    map[string]string{},
		Body:       map[string]any{"resources": []any{}, "errors": []any{}},
	})
}

func (m *mockDispatcher) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockDispatcher) last() domain.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

func (m *mockDispatcher) count(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.requests {
		if r.Operation == operation {
			n++
		}
	}
	return n
}

// tokenResponse is a successful token endpoint reply.
func tokenResponse(token string, region string) *domain.Response {
	headers := map[string]string{"Content-Type": "application/json"}
	if region != "" {
		headers["X-Cs-Region"] = region
	}
	return domain.NewResponse(domain.Result{
		StatusCode: 201,
		Headers:    headers,
		Body:       map[string]any{"access_token": token, "expires_in": float64(1799), "token_type": "bearer"},
	})
}

// mockCatalog implements driven.OperationCatalog for testing.
type mockCatalog struct {
	ops []domain.Operation
}

func (m *mockCatalog) Lookup(id string) (domain.Operation, bool) {
	for _, op := range m.ops {
		if op.ID == id {
			return op, true
		}
	}
	return domain.Operation{}, false
}

func (m *mockCatalog) Operations() []domain.Operation {
	return m.ops
}

func (m *mockCatalog) Collection(name string) []domain.Operation {
	var out []domain.Operation
	for _, op := range m.ops {
		if op.Collection == name {
			out = append(out, op)
		}
	}
	return out
}

func testCatalog() *mockCatalog {
	return &mockCatalog{ops: []domain.Operation{
		{ID: "QueryDevicesByFilter", Method: "GET", Route: "/devices/queries/devices/v1", Collection: "hosts",
			Params: []domain.Param{
				{Name: "limit", In: domain.InQuery, Type: "integer"},
				{Name: "filter", In: domain.InQuery, Type: "string"},
			}},
		{ID: "GetDeviceDetails", Method: "GET", Route: "/devices/entities/devices/v1?ids={}", Collection: "hosts",
			Params: []domain.Param{{Name: "ids", In: domain.InQuery, Type: "array", Required: true}}},
		{ID: "PerformActionV2", Method: "POST", Route: "/devices/entities/devices-actions/v2", Collection: "hosts",
			Params: []domain.Param{
				{Name: "action_name", In: domain.InQuery, Type: "string", Required: true},
				{Name: "body", In: domain.InBody, Required: true},
			}},
		{ID: "refreshActiveStreamSession", Method: "POST", Route: "/sensors/entities/datafeed-actions/v1/{}",
			Collection: "event_streams",
			Params: []domain.Param{
				{Name: "action_name", In: domain.InQuery, Type: "string", Required: true},
				{Name: "appId", In: domain.InQuery, Type: "string", Required: true},
				{Name: "partition", In: domain.InPath, Type: "integer", Required: true},
			}},
		{ID: "querySensorUpdateKernelsDistinct", Method: "GET", Route: "/policy/queries/sensor-update-kernels/{}/v1",
			Collection: "sensor_update_policies",
			Params: []domain.Param{{Name: "distinct-field", In: domain.InPath, Type: "string", Required: true}}},
		{ID: "GetImageAssessmentReport", Method: "GET", Route: "/reports", Collection: "falcon_container",
			Params: []domain.Param{
				{Name: "repository", In: domain.InQuery, Type: "string"},
				{Name: "tag", In: domain.InQuery, Type: "string"},
			}},
		{ID: "DeleteImageDetails", Method: "DELETE", Route: "/images/{}", Collection: "falcon_container",
			Params: []domain.Param{{Name: "image_id", In: domain.InPath, Type: "string", Required: true}}},
		{ID: "ImageMatchesPolicy", Method: "GET", Route: "/policy-checks", Collection: "falcon_container",
			Params: []domain.Param{
				{Name: "repository", In: domain.InQuery, Type: "string", Required: true},
				{Name: "tag", In: domain.InQuery, Type: "string", Required: true},
			}},
		{ID: "DescribeCollection", Method: "GET", Route: "/customobjects/v1/collections/{collection_name}",
			Collection: "custom_storage",
			Params:     []domain.Param{{Name: "collection_name", In: domain.InPath, Type: "string", Required: true}}},
		{ID: "GetVersionedObject", Method: "GET",
			Route:      "/customobjects/v1/collections/{collection_name}/{collection_version}/objects/{object_key}",
			Collection: "custom_storage",
			Params: []domain.Param{
				{Name: "collection_name", In: domain.InPath, Type: "string", Required: true},
				{Name: "collection_version", In: domain.InPath, Type: "string", Required: true},
				{Name: "object_key", In: domain.InPath, Type: "string", Required: true},
			}},
		{ID: "DeleteExecutorNode", Method: "DELETE", Route: "/aspm-api-gateway/api/v1/executor_nodes/{}", Collection: "aspm",
			Params: []domain.Param{{Name: "ID", In: domain.InPath, Type: "integer", Required: true}}},
		{ID: "GetSearchStatusV1", Method: "GET", Route: "/humio/api/v1/repositories/{repository}/queryjobs/{id}",
			Collection: "ngsiem",
			Params: []domain.Param{
				{Name: "repository", In: domain.InPath, Type: "string", Required: true},
				{Name: "id", In: domain.InPath, Type: "string", Required: true},
			}},
		{ID: "RTR_ListFiles", Method: "GET", Route: "/real-time-response/entities/file/v1", Collection: "real_time_response",
			Params: []domain.Param{{Name: "session_id", In: domain.InQuery, Type: "string", Required: true}}},
	}}
}

// mockCredentialSource implements driven.CredentialSource for testing.
type mockCredentialSource struct {
	creds domain.Credentials
	calls int
}

func (m *mockCredentialSource) Credentials(_ context.Context) (domain.Credentials, error) {
	m.calls++
	if !m.creds.Valid() {
		return domain.Credentials{}, domain.ErrNoCredentials
	}
	return m.creds, nil
}

// memoryCache is a minimal driven.TokenCache for testing.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]domain.CachedToken
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]domain.CachedToken{}}
}

func (m *memoryCache) Load(_ context.Context, key string) (*domain.CachedToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &tok, nil
}

func (m *memoryCache) Save(_ context.Context, key string, token domain.CachedToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = token
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) Close() error { return nil }

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
