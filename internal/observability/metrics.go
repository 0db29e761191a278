package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes prometheus collectors for the ticket lifecycle.
type Metrics struct {
	registry *prometheus.Registry

	TicketsCreated    prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	TagMutations      *prometheus.CounterVec
	SweepDeletions    prometheus.Counter
	requestDuration   *prometheus.HistogramVec
	requestErrors     *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		TicketsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_tickets_created_total",
			Help: "Tickets created since process start.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_status_transitions_total",
			Help: "Status transitions applied, labeled by target status.",
		}, []string{"status"}),
		TagMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_tag_mutations_total",
			Help: "Tag add/remove operations, labeled by action.",
		}, []string{"action"}),
		SweepDeletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_retention_deleted_total",
			Help: "Tickets removed by retention sweeps.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feedback_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_http_errors_total",
			Help: "Failed HTTP requests by route, method and error code.",
		}, []string{"route", "method", "code"}),
	}

	registry.MustRegister(
		m.TicketsCreated,
		m.StatusTransitions,
		m.TagMutations,
		m.SweepDeletions,
		m.requestDuration,
		m.requestErrors,
	)
	return m
}

// Registry returns the backing registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest observes a completed request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordError counts a request that ended in a domain error.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.requestErrors.WithLabelValues(route, method, code).Inc()
}
