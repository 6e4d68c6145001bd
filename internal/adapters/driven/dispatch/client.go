package dispatch

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// Ensure Client implements the Dispatcher interface.
var _ driven.Dispatcher = (*Client)(nil)

const tracerName = "github.com/custodia-labs/falcon-go/dispatch"

// Config configures a Client.
type Config struct {
	// RequestsPerSecond enables client-side throttling when positive.
	RequestsPerSecond float64
	// Registerer receives the request metrics. Nil disables metrics.
	Registerer prometheus.Registerer
	// TracerProvider defaults to the global OpenTelemetry provider.
	TracerProvider trace.TracerProvider
	// MaxDebugRecords bounds logged resources. Defaults to domain.MaxDebugRecords.
	MaxDebugRecords int
}

// Client performs Falcon API calls.
type Client struct {
	limiter    *RateLimiter
	metrics    *Metrics
	tracer     trace.Tracer
	maxRecords int

	mu      sync.Mutex
	clients map[string]*http.Client
}

// NewClient creates a dispatcher.
func NewClient(cfg Config) *Client {
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	maxRecords := cfg.MaxDebugRecords
	if maxRecords <= 0 {
		maxRecords = domain.MaxDebugRecords
	}
	return &Client{
		limiter:    NewRateLimiter(cfg.RequestsPerSecond),
		metrics:    NewMetrics(cfg.Registerer),
		tracer:     tp.Tracer(tracerName),
		maxRecords: maxRecords,
		clients:    make(map[string]*http.Client),
	}
}

// RateLimiter returns the limiter tracking API quota headers.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// Dispatch performs req and returns the normalised response.
func (c *Client) Dispatch(ctx context.Context, req domain.Request) *domain.Response {
	method := strings.ToUpper(req.Method)
	if !domain.MethodAllowed(method) {
		logger.Warn("refusing %s %s: method not allowed", req.Method, req.URL)
		return domain.ErrorResponse(domain.NewError(domain.KindInvalidMethod, "Invalid HTTP method specified."))
	}
	if req.BodyValidator != nil {
		if err := ValidateBody(req.Body, req.BodyValidator, req.BodyRequired); err != nil {
			logger.Warn("%s: %v", req.Operation, err)
			return domain.ErrorResponse(err)
		}
	}

	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "falcon."+operationName(req),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", req.URL),
			attribute.String("falcon.request_id", requestID),
		))
	defer span.End()

	log := logger.L().With(zap.String("request_id", requestID), zap.String("operation", req.Operation))
	log.Debug("request",
		zap.String("method", method),
		zap.String("endpoint", req.URL),
		zap.Any("headers", logger.SanitizeHeaders(req.Headers)),
		zap.Any("params", req.Params),
		zap.Any("body", sanitizeBody(req.Body, c.maxRecords)),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return c.fail(span, req, method, domain.NewError(domain.KindTransport, "%s", err.Error()))
	}

	httpReq, err := buildRequest(ctx, method, req)
	if err != nil {
		return c.fail(span, req, method, domain.NewError(domain.KindTransport, "%s", err.Error()))
	}

	start := time.Now()
	resp, err := c.httpClient(req.Connection).Do(httpReq)
	if err != nil {
		log.Debug("transport failure", zap.Error(err))
		return c.fail(span, req, method, domain.NewError(domain.KindTransport, "%s", err.Error()))
	}
	defer resp.Body.Close()

	c.limiter.UpdateFromHeaders(resp.Header)
	out := interpret(resp, req)

	c.metrics.Observe(operationName(req), method, strconv.Itoa(resp.StatusCode), time.Since(start))
	c.metrics.SetRemaining(c.limiter.Remaining())
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}

	if out.IsBinary() {
		log.Debug("binary response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(out.Raw)))
		return out
	}
	result := out.Result()
	log.Debug("response",
		zap.Int("status", result.StatusCode),
		zap.Any("body", logger.Sanitize(result.Body, c.maxRecords)),
	)
	if result.StatusCode >= http.StatusBadRequest {
		if msg := result.FirstError(); msg != "" {
			logger.Warn("%s returned %d: %s", operationName(req), result.StatusCode, msg)
		}
	}
	return out
}

func (c *Client) fail(span trace.Span, req domain.Request, method string, err *domain.Error) *domain.Response {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Message)
	c.metrics.Observe(operationName(req), method, "error", 0)
	logger.Error("%s failed: %s", operationName(req), err.Message)
	return domain.ErrorResponse(err)
}

func operationName(req domain.Request) string {
	if req.Operation == "" {
		return "request"
	}
	return req.Operation
}

func sanitizeBody(body any, maxRecords int) any {
	if m, ok := body.(map[string]any); ok {
		return logger.Sanitize(m, maxRecords)
	}
	return body
}
