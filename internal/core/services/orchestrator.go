package services

import (
	"context"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// Caller is the auth state a service request is dispatched with.
// FalconInterface and every service class satisfy it.
type Caller interface {
	AuthHeaders(ctx context.Context) map[string]string
	BaseURL() string
	Connection() domain.Connection
}

// ServiceRequest carries the inputs of one operation call.
type ServiceRequest struct {
	// Keywords are matched by name against declared query parameters.
	Keywords map[string]any
	// Params are sent in the query string as given.
	Params      map[string]any
	Headers     map[string]string
	ContentType string
	Body        any
	Data        any
	Files       []domain.File

	BodyValidator domain.BodyValidator
	BodyRequired  []string

	Path         PathValues
	ExpandResult bool
}

// Orchestrator turns an operation id and its arguments into a dispatched call.
type Orchestrator struct {
	dispatcher driven.Dispatcher
}

// NewOrchestrator creates an orchestrator dispatching through d.
func NewOrchestrator(d driven.Dispatcher) *Orchestrator {
	return &Orchestrator{dispatcher: d}
}

// ProcessServiceRequest resolves operationID against endpoints and
// dispatches it on behalf of caller. An id missing from endpoints yields
// the unknown-operation result without a network call.
func (o *Orchestrator) ProcessServiceRequest(
	ctx context.Context,
	caller Caller,
	endpoints driven.OperationCatalog,
	operationID string,
	req ServiceRequest,
) *domain.Response {
	logger.Debug("OPERATION: %s", operationID)
	op, ok := endpoints.Lookup(operationID)
	if !ok {
		return domain.ErrorResponse(domain.NewError(domain.KindUnknownOperation, "Invalid API operation specified."))
	}
	return o.ProcessOperation(ctx, caller, op, req)
}

// ProcessOperation dispatches a resolved descriptor. Manual descriptors
// skip keyword matching.
func (o *Orchestrator) ProcessOperation(
	ctx context.Context,
	caller Caller,
	op domain.Operation,
	req ServiceRequest,
) *domain.Response {
	// Headers come first: reading them may log in and move the base URL.
	headers := MergeHeaders(caller.AuthHeaders(ctx), req.Headers, req.ContentType)

	keywords := copyMap(req.Keywords)
	path := PathFromKeywords(op, req.Path, keywords)
	params := ArgsToParams(op, req.Params, keywords)
	baseURL, container := ContainerTarget(op, caller.BaseURL(), params)

	body := req.Body
	if domain.InSet(domain.PreferNoBody, op.ID) {
		body = nil
	}

	return o.dispatcher.Dispatch(ctx, domain.Request{
		Operation:     op.ID,
		Method:        op.Method,
		URL:           baseURL + ResolveRoute(op.Route, path),
		Headers:       headers,
		Params:        params,
		Body:          body,
		Data:          req.Data,
		Files:         req.Files,
		BodyValidator: req.BodyValidator,
		BodyRequired:  req.BodyRequired,
		Connection:    caller.Connection(),
		Container:     container,
		ExpandResult:  req.ExpandResult,
	})
}
