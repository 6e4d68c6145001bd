package serviceclass

import (
	"context"
	"sync"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/services"
)

// mockDispatcher records requests and serves canned responses by operation id.
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

func tokenResponse(token string) *domain.Response {
	return domain.NewResponse(domain.Result{
		StatusCode: 201,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       map[string]any{"access_token": token, "expires_in": float64(1799), "token_type": "bearer"},
	})
}

// sharedAuth returns a credential-based interface served by d.
func sharedAuth(d *mockDispatcher) *services.FalconInterface {
	return services.NewFalconInterface(services.InterfaceConfig{
		Credentials: domain.Credentials{ClientID: "id", ClientSecret: "secret"},
		Dispatcher:  d.on("oauth2AccessToken", tokenResponse("T")),
	})
}
