package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records dispatcher activity. A nil *Metrics is a no-op.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	quotaRemaining  prometheus.Gauge
}

// NewMetrics registers the dispatcher collectors on reg. It returns nil
// when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "falcon",
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of Falcon API requests",
			},
			[]string{"operation", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "falcon",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of Falcon API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "method"},
		),
		quotaRemaining: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "falcon",
				Subsystem: "api",
				Name:      "ratelimit_remaining",
				Help:      "Remaining request quota reported by the API",
			},
		),
	}
}

// Observe records one completed request.
func (m *Metrics) Observe(operation, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(operation, method, status).Inc()
	if d > 0 {
		m.requestDuration.WithLabelValues(operation, method).Observe(d.Seconds())
	}
}

// SetRemaining records the quota reported by the last response.
func (m *Metrics) SetRemaining(n int) {
	if m == nil {
		return
	}
	m.quotaRemaining.Set(float64(n))
}
