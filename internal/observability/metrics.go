package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the portal's prometheus collectors on a private registry so tests can
// build as many instances as they like. A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	errors            *prometheus.CounterVec
	complaintsCreated *prometheus.CounterVec
	fieldUpdates      *prometheus.CounterVec
	denials           *prometheus.CounterVec
	roleChanges       *prometheus.CounterVec
	intakeThrottled   prometheus.Counter
}

// NewMetrics registers every collector.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_portal_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "complaint_portal_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_portal_http_errors_total",
			Help: "Error responses by route and error code",
		}, []string{"route", "method", "code"}),
		complaintsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_portal_complaints_created_total",
			Help: "Complaints filed by category",
		}, []string{"category"}),
		fieldUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_portal_complaint_field_updates_total",
			Help: "Successful status and priority updates",
		}, []string{"field"}),
		denials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_portal_authorization_denials_total",
			Help: "Operations refused by the access scope",
		}, []string{"operation"}),
		roleChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_portal_account_role_changes_total",
			Help: "Account privilege changes by resulting role",
		}, []string{"role"}),
		intakeThrottled: factory.NewCounter(prometheus.CounterOpts{
			Name: "complaint_portal_intake_throttled_total",
			Help: "Complaint submissions rejected by the intake limiter",
		}),
	}
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest observes one HTTP exchange.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

func (m *Metrics) ComplaintCreated(category string) {
	if m == nil {
		return
	}
	m.complaintsCreated.WithLabelValues(category).Inc()
}

func (m *Metrics) FieldUpdated(field string) {
	if m == nil {
		return
	}
	m.fieldUpdates.WithLabelValues(field).Inc()
}

func (m *Metrics) AuthorizationDenied(operation string) {
	if m == nil {
		return
	}
	m.denials.WithLabelValues(operation).Inc()
}

func (m *Metrics) RoleChanged(role string) {
	if m == nil {
		return
	}
	m.roleChanges.WithLabelValues(role).Inc()
}

func (m *Metrics) IntakeThrottled() {
	if m == nil {
		return
	}
	m.intakeThrottled.Inc()
}
