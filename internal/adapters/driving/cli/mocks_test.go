package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/falcon-go/internal/adapters/driven/catalog"
	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
)

// mockCommander is a mock implementation of driving.Commander.
type mockCommander struct {
	response    *domain.Response
	loginResult domain.Result
	logoutCalls int
	token       domain.Token
	lastAction  string
	lastOpts    domain.CommandOptions
}

func (m *mockCommander) Login(_ context.Context) domain.Result {
	if m.loginResult.StatusCode == 201 {
		m.token = domain.Token{Value: "tok", IssuedAt: time.Now(), TTL: 30 * time.Minute, Status: 201}
	}
	return m.loginResult
}

func (m *mockCommander) Logout(_ context.Context, _ string) domain.Result {
	m.logoutCalls++
	m.token = m.token.Cleared()
	return domain.Result{StatusCode: 200}
}

func (m *mockCommander) AuthHeaders(_ context.Context) map[string]string {
	return map[string]string{"Authorization": "Bearer " + m.token.Value}
}

func (m *mockCommander) Authenticated() bool {
	return m.token.Value != "" && !m.token.Expired(time.Now())
}

func (m *mockCommander) TokenExpired() bool { return !m.Authenticated() }

func (m *mockCommander) Refreshable() bool { return true }

func (m *mockCommander) BaseURL() string { return "https://api.us-2.crowdstrike.com" }

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
		Body:       map[string]any{"errors": []any{}, "resources": []any{"aid1"}},
	}
}

// mockFinder is a mock implementation of driving.OperationFinder.
type mockFinder struct {
	ops      []domain.Operation
	err      error
	lastBy   string
	lastFind string
	exact    bool
}

func (m *mockFinder) FindOperation(searchFor, searchBy string, exact bool) ([]domain.Operation, error) {
	m.lastFind, m.lastBy, m.exact = searchFor, searchBy, exact
	return m.ops, m.err
}

// mockRequester is a mock implementation of driving.ServiceRequester.
type mockRequester struct {
	methods  []string
	lastName string
	lastOpts domain.CommandOptions
}

func (m *mockRequester) Invoke(_ context.Context, name string, opts domain.CommandOptions) *domain.Response {
	m.lastName = name
	m.lastOpts = opts
	return &domain.Response{StatusCode: 202, Body: map[string]any{"errors": []any{}, "resources": []any{}}}
}

func (m *mockRequester) Methods() []string { return m.methods }

// fixture injects mock ports for the duration of a test.
type fixture struct {
	commander   *mockCommander
	finder      *mockFinder
	requester   *mockRequester
	collections []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		commander: &mockCommander{loginResult: domain.Result{StatusCode: 201}},
		finder:    &mockFinder{},
		requester: &mockRequester{methods: []string{"perform_action", "GetDeviceDetails"}},
	}
	commander = f.commander
	operationFinder = f.finder
	operationCatalog = catalog.New(nil)
	serviceFactory = func(collection string) (driving.ServiceRequester, error) {
		f.collections = append(f.collections, collection)
		return f.requester, nil
	}
	t.Cleanup(func() {
		commander = nil
		operationFinder = nil
		operationCatalog = nil
		serviceFactory = nil
	})
	return f
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag of cmd and its children to its default
// so state does not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
