package services

import (
	"context"
	"net/http"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
)

// Ensure UberInterface implements the Commander interface.
var _ driving.Commander = (*UberInterface)(nil)

// UberInterface is an auth interface that can call any catalogued
// operation through Command.
type UberInterface struct {
	*FalconInterface

	catalog      driven.OperationCatalog
	orchestrator *Orchestrator
}

// NewUberInterface creates a unified interface over the full catalog.
func NewUberInterface(cfg InterfaceConfig, catalog driven.OperationCatalog) *UberInterface {
	return &UberInterface{
		FalconInterface: NewFalconInterface(cfg),
		catalog:         catalog,
		orchestrator:    NewOrchestrator(cfg.Dispatcher),
	}
}

// Catalog returns the operation table the interface resolves against.
func (u *UberInterface) Catalog() driven.OperationCatalog {
	return u.catalog
}

// Command resolves action, or opts.Override when set, and dispatches it.
// Unknown actions return status 418 without a network call.
func (u *UberInterface) Command(ctx context.Context, action string, opts domain.CommandOptions) *domain.Response {
	op, ok := u.resolve(action, opts.Override)
	if !ok {
		return domain.ErrorResponse(domain.NewError(domain.KindUnknownOperation, "Invalid API operation specified."))
	}

	if !u.Authenticated() && u.Refreshable() {
		u.ensureToken(ctx)
	}
	if token := u.Token(); token.Value == "" {
		e := domain.NewError(domain.KindTokenIssue, "Failed to issue token.").WithHeaders(token.FailHeaders)
		return domain.ErrorResponse(e)
	}

	keywords := copyMap(opts.Keywords)
	body := opts.Body
	if !op.IsManual() && domain.InSet(domain.PreferIDsInBody, op.ID) {
		body = moveIDsToBody(body, keywords)
	}

	return u.orchestrator.ProcessOperation(ctx, u, op, ServiceRequest{
		Keywords:     keywords,
		Params:       opts.Parameters,
		Headers:      opts.Headers,
		ContentType:  opts.ContentType,
		Body:         body,
		Data:         opts.Data,
		Files:        opts.Files,
		Path:         scrubPath(op, opts, keywords),
		ExpandResult: opts.ExpandResult,
	})
}

func (u *UberInterface) resolve(action, override string) (domain.Operation, bool) {
	if override != "" {
		return domain.ParseOverride(override)
	}
	if u.catalog == nil {
		return domain.Operation{}, false
	}
	return u.catalog.Lookup(action)
}

// scrubPath returns the path value mapped to op. Only the keyword tied to
// the operation is used; typed options win over the keyword bag.
func scrubPath(op domain.Operation, opts domain.CommandOptions, keywords map[string]any) PathValues {
	field, ok := domain.PathKeyword[op.ID]
	if !ok {
		return PathValues{}
	}
	typed := map[string]string{
		"partition":      opts.Partition,
		"distinct_field": opts.DistinctField,
		"image_id":       opts.ImageID,
	}
	value := typed[field]
	if value == "" {
		if kw, found := keywords[field]; found {
			value = stringify(kw)
			delete(keywords, field)
		}
	}
	if value == "" {
		return PathValues{}
	}
	switch field {
	case "partition":
		return PathValues{Partition: value}
	case "distinct_field":
		return PathValues{DistinctField: value}
	default:
		return PathValues{ImageID: value}
	}
}

// moveIDsToBody moves an ids keyword into body["ids"] unless the body
// already carries ids, and splits string ids on commas.
func moveIDsToBody(body any, keywords map[string]any) any {
	payload, isMap := body.(map[string]any)
	if body != nil && !isMap {
		return body
	}
	payload = copyMap(payload)
	if ids, ok := keywords["ids"]; ok {
		delete(keywords, "ids")
		if existing, has := payload["ids"]; !has || isEmpty(existing) {
			payload["ids"] = ids
		}
	}
	if ids, ok := payload["ids"]; ok {
		payload["ids"] = SplitIDs(ids)
	}
	if len(payload) == 0 {
		return body
	}
	return payload
}

// LoginStatus reports the outcome of the last token request as an HTTP
// status, 0 when no login has been attempted.
func (u *UberInterface) LoginStatus() int {
	return u.Token().Status
}

// Authenticate logs in and reports whether a token was issued.
func (u *UberInterface) Authenticate(ctx context.Context) bool {
	return u.Login(ctx).StatusCode == http.StatusCreated
}
