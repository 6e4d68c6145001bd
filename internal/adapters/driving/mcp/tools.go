package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// CommandInput is the input schema for the falcon_command tool.
type CommandInput struct {
	Operation  string            `json:"operation,omitempty" jsonschema:"operation id to execute, for example QueryDevicesByFilter"`
	Override   string            `json:"override,omitempty" jsonschema:"METHOD,/route to call an endpoint missing from the catalog"`
	Parameters map[string]any    `json:"parameters,omitempty" jsonschema:"query string parameters"`
	Keywords   map[string]any    `json:"keywords,omitempty" jsonschema:"named arguments matched against the operation's query and path parameters"`
	Body       any               `json:"body,omitempty" jsonschema:"JSON request body"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"extra request headers"`

	ContentType   string `json:"content_type,omitempty" jsonschema:"Content-Type header for the request body"`
	Partition     string `json:"partition,omitempty" jsonschema:"event stream partition for refreshActiveStreamSession"`
	DistinctField string `json:"distinct_field,omitempty" jsonschema:"field name for querySensorUpdateKernelsDistinct"`
	ImageID       string `json:"image_id,omitempty" jsonschema:"image id for DeleteImageDetails"`
	ExpandResult  bool   `json:"expand_result,omitempty" jsonschema:"keep status code and headers on binary responses"`
}

// CommandOutput is the output schema for the falcon_command tool.
type CommandOutput struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       any               `json:"body,omitempty"`
	// Bytes is set instead of Body for binary responses.
	Bytes int `json:"bytes,omitempty"`
}

// FindInput is the input schema for the falcon_find_operation tool.
type FindInput struct {
	Query string `json:"query" jsonschema:"text to search for"`
	By    string `json:"by,omitempty" jsonschema:"id, collection or route (default id)"`
	Exact bool   `json:"exact,omitempty" jsonschema:"require an exact match"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 25)"`
}

// FindOutput is the output schema for the falcon_find_operation tool.
type FindOutput struct {
	Operations []OperationOutput `json:"operations"`
	Count      int               `json:"count"`
}

// OperationOutput describes one catalogued operation.
type OperationOutput struct {
	ID          string `json:"operation_id"`
	Method      string `json:"method"`
	Route       string `json:"route"`
	Collection  string `json:"collection"`
	Description string `json:"description,omitempty"`
}

// AuthStatusInput is the input schema for the falcon_auth_status tool.
type AuthStatusInput struct {
	Login bool `json:"login,omitempty" jsonschema:"request a new token when the current one is expired"`
}

// AuthStatusOutput is the output schema for the falcon_auth_status tool.
type AuthStatusOutput struct {
	Authenticated bool   `json:"authenticated"`
	BaseURL       string `json:"base_url"`
	Status        int    `json:"status,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	FailReason    string `json:"fail_reason,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "falcon_command",
		Description: "Execute a Falcon API operation by id or method/route override",
	}, s.handleCommand)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "falcon_auth_status",
		Description: "Report whether a valid API token is held, optionally logging in",
	}, s.handleAuthStatus)

	if s.ports.Finder != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "falcon_find_operation",
			Description: "Search the operation catalog by id, collection or route",
		}, s.handleFind)
	}
}

func (s *Server) handleCommand(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CommandInput,
) (*mcp.CallToolResult, CommandOutput, error) {
	if input.Operation == "" && input.Override == "" {
		return nil, CommandOutput{}, fmt.Errorf("%w: operation or override is required", domain.ErrInvalidInput)
	}

	resp := s.ports.Commander.Command(ctx, input.Operation, domain.CommandOptions{
		Parameters:    input.Parameters,
		Keywords:      input.Keywords,
		Body:          input.Body,
		Headers:       input.Headers,
		ContentType:   input.ContentType,
		Partition:     input.Partition,
		DistinctField: input.DistinctField,
		ImageID:       input.ImageID,
		Override:      input.Override,
		ExpandResult:  input.ExpandResult,
	})

	output := CommandOutput{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
	}
	if resp.IsBinary() {
		output.Bytes = len(resp.Raw)
	} else {
		output.Body = resp.Body
	}
	return nil, output, nil
}

func (s *Server) handleFind(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FindInput,
) (*mcp.CallToolResult, FindOutput, error) {
	by := input.By
	if by == "" {
		by = "id"
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 25
	}

	ops, err := s.ports.Finder.FindOperation(input.Query, by, input.Exact)
	if err != nil {
		return nil, FindOutput{}, err
	}
	if len(ops) > limit {
		ops = ops[:limit]
	}

	output := FindOutput{
		Operations: make([]OperationOutput, len(ops)),
		Count:      len(ops),
	}
	for i, op := range ops {
		output.Operations[i] = describe(op)
	}
	return nil, output, nil
}

func (s *Server) handleAuthStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AuthStatusInput,
) (*mcp.CallToolResult, AuthStatusOutput, error) {
	cmd := s.ports.Commander
	if input.Login && cmd.TokenExpired() && cmd.Refreshable() {
		cmd.Login(ctx)
	}

	tok := cmd.Token()
	output := AuthStatusOutput{
		Authenticated: cmd.Authenticated(),
		BaseURL:       cmd.BaseURL(),
		Status:        tok.Status,
		FailReason:    tok.FailReason,
	}
	if output.Authenticated {
		output.ExpiresAt = tok.ExpiresAt().UTC().Format(time.RFC3339)
	}
	return nil, output, nil
}

func describe(op domain.Operation) OperationOutput {
	return OperationOutput{
		ID:          op.ID,
		Method:      op.Method,
		Route:       op.Route,
		Collection:  op.Collection,
		Description: op.Description,
	}
}
