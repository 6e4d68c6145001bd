package dispatch

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is the per-minute quota granted to an API client.
	DefaultRateLimit = 6000

	// MinBuffer is the remaining quota below which requests wait for the
	// retry-after time announced by the API.
	MinBuffer = 10

	// HeaderRateLimit is the quota header.
	HeaderRateLimit = "X-Ratelimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-Ratelimit-Remaining"

	// HeaderRetryAfter is the reset timestamp header (Unix seconds).
	HeaderRetryAfter = "X-Ratelimit-Retryafter"
)

// RateLimiter tracks the API quota and optionally throttles requests.
type RateLimiter struct {
	mu         sync.Mutex
	remaining  int
	limit      int
	retryAfter time.Time
	bucket     *rate.Limiter // nil when proactive throttling is off
	minBuffer  int
}

// NewRateLimiter creates a limiter. A positive perSecond enables a token
// bucket in front of the reactive quota check.
func NewRateLimiter(perSecond float64) *RateLimiter {
	r := &RateLimiter{
		remaining: DefaultRateLimit,
		limit:     DefaultRateLimit,
		minBuffer: MinBuffer,
	}
	if perSecond > 0 {
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		r.bucket = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return r
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.bucket != nil {
		if err := r.bucket.Wait(ctx); err != nil {
			return err
		}
	}

	r.mu.Lock()
	remaining := r.remaining
	retryAfter := r.retryAfter
	r.mu.Unlock()

	if remaining < r.minBuffer && time.Now().Before(retryAfter) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAfter)):
		}
	}
	return nil
}

// UpdateFromHeaders updates quota state from response headers.
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	if h == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v := h.Get(HeaderRateRemaining); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.remaining = n
		}
	}
	if v := h.Get(HeaderRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.limit = n
		}
	}
	if v := h.Get(HeaderRetryAfter); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			r.retryAfter = time.Unix(n, 0)
		}
	}
}

// Remaining returns the last reported remaining quota.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the last reported quota.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// RetryAfter returns when the quota resets.
func (r *RateLimiter) RetryAfter() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAfter
}
