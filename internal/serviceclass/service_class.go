package serviceclass

import (
	"context"
	"sync"

	"github.com/custodia-labs/falcon-go/internal/adapters/driven/catalog"
	"github.com/custodia-labs/falcon-go/internal/adapters/driven/dispatch"
	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
	"github.com/custodia-labs/falcon-go/internal/core/services"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// Ensure ServiceClass can dispatch on its own behalf.
var (
	_ services.Caller          = (*ServiceClass)(nil)
	_ driving.ServiceRequester = (*ServiceClass)(nil)
)

// Options configure a service class.
type Options struct {
	// Auth is a shared auth interface. When nil a private one is built
	// from Interface and closed by Close.
	Auth      *services.FalconInterface
	Interface services.InterfaceConfig

	// Catalog defaults to the embedded operation table.
	Catalog driven.OperationCatalog

	// ExtHeaders are sent with every request. They never replace Authorization.
	ExtHeaders map[string]string
	// DisablePayloadValidation skips body validators on typed methods.
	DisablePayloadValidation bool

	// Per-class connection overrides. Zero values fall back to Auth.
	Proxy     domain.Proxy
	Timeout   domain.Timeout
	UserAgent string
}

// Handler is an entry of a dispatch table.
type Handler func(ctx context.Context, opts domain.CommandOptions) *domain.Response

// ServiceClass is the base every typed class embeds.
type ServiceClass struct {
	collection   string
	auth         *services.FalconInterface
	owned        bool
	endpoints    *catalog.Catalog
	orchestrator *services.Orchestrator

	aliases  map[string]string
	handlers map[string]Handler

	mu               sync.RWMutex
	extHeaders       map[string]string
	validatePayloads bool
	proxy            domain.Proxy
	timeout          domain.Timeout
	userAgent        string
}

// New creates a service class over the operations of collection.
func New(collection string, opts Options) *ServiceClass {
	auth := opts.Auth
	owned := false
	if auth == nil {
		cfg := opts.Interface
		if cfg.Dispatcher == nil {
			cfg.Dispatcher = dispatch.NewClient(dispatch.Config{})
		}
		auth = services.NewFalconInterface(cfg)
		owned = true
	}
	full := opts.Catalog
	if full == nil {
		full = catalog.MustDefault()
	}

	s := &ServiceClass{
		collection:       collection,
		auth:             auth,
		owned:            owned,
		endpoints:        catalog.New(full.Collection(collection)),
		orchestrator:     services.NewOrchestrator(auth.Dispatcher()),
		aliases:          make(map[string]string),
		handlers:         make(map[string]Handler),
		extHeaders:       copyHeaders(opts.ExtHeaders),
		validatePayloads: !opts.DisablePayloadValidation,
		proxy:            opts.Proxy,
		timeout:          opts.Timeout,
		userAgent:        opts.UserAgent,
	}
	logger.Debug("CREATED: %s service class (auth style %s)", collection, s.AuthStyle())
	return s
}

// Collection returns the collection name.
func (s *ServiceClass) Collection() string {
	return s.collection
}

// Endpoints returns the operations of the collection.
func (s *ServiceClass) Endpoints() *catalog.Catalog {
	return s.endpoints
}

// Auth returns the underlying auth interface.
func (s *ServiceClass) Auth() *services.FalconInterface {
	return s.auth
}

// AuthStyle reports OBJECT when the class shares an interface it was given.
func (s *ServiceClass) AuthStyle() domain.AuthStyle {
	if !s.owned {
		return domain.AuthStyleObject
	}
	return s.auth.AuthStyle()
}

// Login requests a new token on the shared interface.
func (s *ServiceClass) Login(ctx context.Context) domain.Result {
	return s.auth.Login(ctx)
}

// Logout revokes the current token on the shared interface.
func (s *ServiceClass) Logout(ctx context.Context) domain.Result {
	return s.auth.Logout(ctx, "")
}

// Authenticated reports whether the shared token is live.
func (s *ServiceClass) Authenticated() bool {
	return s.auth.Authenticated()
}

// TokenExpired reports whether the shared token needs renewal.
func (s *ServiceClass) TokenExpired() bool {
	return s.auth.TokenExpired()
}

// Close revokes the token when the class built its own interface from
// client credentials. A shared interface is left to its owner.
func (s *ServiceClass) Close(ctx context.Context) error {
	if !s.owned || s.auth.Token().Value == "" || !s.auth.CredFormatValid() {
		return nil
	}
	result := s.auth.Logout(ctx, "")
	if !result.OK() {
		return domain.NewError(domain.KindProtocol, "token revocation failed: %s", result.FirstError())
	}
	return nil
}

// AuthHeaders returns the shared interface's Authorization header.
func (s *ServiceClass) AuthHeaders(ctx context.Context) map[string]string {
	return s.auth.AuthHeaders(ctx)
}

// BaseURL returns the shared base URL.
func (s *ServiceClass) BaseURL() string {
	return s.auth.BaseURL()
}

// Connection layers the class overrides over the shared settings.
func (s *ServiceClass) Connection() domain.Connection {
	shared := s.auth.Connection()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Connection{
		SSLVerify: shared.SSLVerify,
		Proxy:     ResolveMap(s.proxy, shared.Proxy),
		Timeout:   Resolve(s.timeout, shared.Timeout),
		UserAgent: Resolve(s.userAgent, shared.UserAgent),
	}
}

// Proxy returns the effective proxy table.
func (s *ServiceClass) Proxy() domain.Proxy {
	return s.Connection().Proxy
}

// SetProxy overrides the proxy for this class only.
func (s *ServiceClass) SetProxy(p domain.Proxy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proxy = p
}

// Timeout returns the effective timeout.
func (s *ServiceClass) Timeout() domain.Timeout {
	return s.Connection().Timeout
}

// SetTimeout overrides the timeout for this class only.
func (s *ServiceClass) SetTimeout(t domain.Timeout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = t
}

// UserAgent returns the effective user agent.
func (s *ServiceClass) UserAgent() string {
	return s.Connection().EffectiveUserAgent()
}

// SetUserAgent overrides the user agent for this class only.
func (s *ServiceClass) SetUserAgent(ua string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userAgent = ua
}

// ExtHeaders returns a copy of the extra headers.
func (s *ServiceClass) ExtHeaders() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyHeaders(s.extHeaders)
}

// SetExtHeaders replaces the extra headers.
func (s *ServiceClass) SetExtHeaders(h map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extHeaders = copyHeaders(h)
}

// ValidatePayloads reports whether typed methods validate bodies.
func (s *ServiceClass) ValidatePayloads() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validatePayloads
}

// SetValidatePayloads toggles body validation.
func (s *ServiceClass) SetValidatePayloads(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validatePayloads = v
}

// Call dispatches operationID from the class's collection.
func (s *ServiceClass) Call(ctx context.Context, operationID string, req services.ServiceRequest) *domain.Response {
	req.Headers = s.withExtHeaders(req.Headers)
	if !s.ValidatePayloads() {
		req.BodyValidator = nil
		req.BodyRequired = nil
	}
	return s.orchestrator.ProcessServiceRequest(ctx, s, s.endpoints, operationID, req)
}

// OverrideOptions are the inputs of Override.
type OverrideOptions struct {
	Parameters   map[string]any
	Headers      map[string]string
	Body         any
	Data         any
	Files        []domain.File
	ExpandResult bool
}

// Override calls a route that is missing from the catalog. Keyword
// matching and body validation do not apply.
func (s *ServiceClass) Override(ctx context.Context, method, route string, opts OverrideOptions) *domain.Response {
	op, ok := domain.ParseOverride(method + "," + route)
	if !ok {
		return domain.ErrorResponse(domain.NewError(domain.KindUnknownOperation, "Invalid API operation specified."))
	}
	logger.Debug("OPERATION: %s", op.ID)
	return s.orchestrator.ProcessOperation(ctx, s, op, services.ServiceRequest{
		Params:       opts.Parameters,
		Headers:      s.withExtHeaders(opts.Headers),
		Body:         opts.Body,
		Data:         opts.Data,
		Files:        opts.Files,
		ExpandResult: opts.ExpandResult,
	})
}

// Register adds a typed handler under an operation id and its aliases.
func (s *ServiceClass) Register(operationID string, h Handler, aliases ...string) {
	s.handlers[operationID] = h
	for _, a := range aliases {
		s.aliases[a] = operationID
	}
}

// Alias maps an alternative name onto an operation id.
func (s *ServiceClass) Alias(alias, operationID string) {
	s.aliases[alias] = operationID
}

// Methods returns every name Invoke accepts: operation ids and aliases.
func (s *ServiceClass) Methods() []string {
	names := make([]string, 0, len(s.aliases)+s.endpoints.Len())
	for _, op := range s.endpoints.Operations() {
		names = append(names, op.ID)
	}
	for alias := range s.aliases {
		names = append(names, alias)
	}
	return names
}

// Invoke calls a method by operation id or alias. Operations of the
// collection without a typed handler are dispatched generically.
func (s *ServiceClass) Invoke(ctx context.Context, name string, opts domain.CommandOptions) *domain.Response {
	id := name
	if target, ok := s.aliases[name]; ok {
		id = target
	}
	if h, ok := s.handlers[id]; ok {
		return h(ctx, opts)
	}
	return s.Call(ctx, id, RequestFromOptions(opts))
}

func (s *ServiceClass) withExtHeaders(h map[string]string) map[string]string {
	ext := s.ExtHeaders()
	if len(ext) == 0 {
		return h
	}
	for k, v := range h {
		ext[k] = v
	}
	return ext
}

// RequestFromOptions converts generic command options into a service request.
func RequestFromOptions(opts domain.CommandOptions) services.ServiceRequest {
	return services.ServiceRequest{
		Keywords:     opts.Keywords,
		Params:       opts.Parameters,
		Headers:      opts.Headers,
		ContentType:  opts.ContentType,
		Body:         opts.Body,
		Data:         opts.Data,
		Files:        opts.Files,
		Path:         services.PathValues{Partition: opts.Partition, DistinctField: opts.DistinctField, ImageID: opts.ImageID},
		ExpandResult: opts.ExpandResult,
	}
}

func copyHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
