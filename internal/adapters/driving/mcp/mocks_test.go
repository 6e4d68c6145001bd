package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/falcon-go/internal/adapters/driven/catalog"
	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// mockCommander is a mock implementation of driving.Commander.
type mockCommander struct {
	response    *domain.Response
	token       domain.Token
	logins      int
	refreshable bool
	lastAction  string
	lastOpts    domain.CommandOptions
}

func (m *mockCommander) Login(_ context.Context) domain.Result {
	m.logins++
	m.token = domain.Token{Value: "fresh", IssuedAt: time.Now(), TTL: 30 * time.Minute, Status: 201}
	return domain.Result{StatusCode: 201}
}

func (m *mockCommander) Logout(_ context.Context, _ string) domain.Result {
	return domain.Result{StatusCode: 200}
}

func (m *mockCommander) AuthHeaders(_ context.Context) map[string]string {
	return map[string]string{"Authorization": "Bearer " + m.token.Value}
}

func (m *mockCommander) Authenticated() bool {
	return m.token.Value != "" && !m.token.Expired(time.Now())
}

func (m *mockCommander) TokenExpired() bool { return !m.Authenticated() }

func (m *mockCommander) Refreshable() bool { return m.refreshable }

func (m *mockCommander) BaseURL() string { return "https://api.crowdstrike.com" }

func (m *mockCommander) Connection() domain.Connection { return domain.Connection{SSLVerify: true} }

func (m *mockCommander) Token() domain.Token { return m.token }

func (m *mockCommander) Command(_ context.Context, action string, opts domain.CommandOptions) *domain.Response {
	m.lastAction = action
	m.lastOpts = opts
	if m.response != nil {
		return m.response
	}
	return &domain.Response{
		StatusCode: 200,
		Body:       map[string]any{"errors": []any{}, "resources": []any{"a"}},
	}
}

// mockFinder is a mock implementation of driving.OperationFinder.
type mockFinder struct {
	ops []domain.Operation
	err error
}

func (m *mockFinder) FindOperation(_, _ string, _ bool) ([]domain.Operation, error) {
	return m.ops, m.err
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]domain.Operation{
		{ID: "QueryDevicesByFilter", Method: "GET", Route: "/devices/queries/devices/v1", Collection: "hosts"},
		{ID: "GetDeviceDetails", Method: "GET", Route: "/devices/entities/devices/v2?ids={}", Collection: "hosts",
			Params: []domain.Param{{Name: "ids", In: domain.InQuery, Type: "array", Required: true}}},
		{ID: "GetDetectSummaries", Method: "POST", Route: "/detects/entities/summaries/GET/v1", Collection: "detects"},
	})
}

func testPorts() (*Ports, *mockCommander) {
	cmd := &mockCommander{refreshable: true}
	return &Ports{Commander: cmd, Finder: &mockFinder{}, Catalog: testCatalog()}, cmd
}
