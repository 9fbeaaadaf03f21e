package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "enrollment"

// Metrics holds the application collectors on a private registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	sectionSaves  *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	riskChecks    *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
	uploads       *prometheus.CounterVec
}

// New creates the collectors and registers them with a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method", "route"},
		),
		sectionSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "autosave",
				Name:      "sections_total",
				Help:      "Auto-saved sections by outcome.",
			},
			[]string{"section", "result"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "applications",
				Name:      "submissions_total",
				Help:      "Application submissions by outcome.",
			},
			[]string{"result"},
		),
		riskChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "risk",
				Name:      "checks_total",
				Help:      "Risk checks by source and status.",
			},
			[]string{"source", "status"},
		),
		webhookEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "webhook_events_total",
				Help:      "Payment webhook deliveries by outcome.",
			},
			[]string{"result"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "documents",
				Name:      "uploads_total",
				Help:      "Document uploads by type.",
			},
			[]string{"document_type"},
		),
	}

	m.Registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.sectionSaves,
		m.submissions,
		m.riskChecks,
		m.webhookEvents,
		m.uploads,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler returns an HTTP handler exposing the registered metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SectionSaved counts one auto-saved section
func (m *Metrics) SectionSaved(section string, ok bool) {
	if m == nil {
		return
	}
	m.sectionSaves.WithLabelValues(section, result(ok)).Inc()
}

// Submission counts one submission attempt
func (m *Metrics) Submission(ok bool) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result(ok)).Inc()
}

// RiskCheck counts one risk check. source is "validation", "remote" or "fallback".
func (m *Metrics) RiskCheck(source, status string) {
	if m == nil {
		return
	}
	m.riskChecks.WithLabelValues(source, status).Inc()
}

// WebhookEvent counts one webhook delivery
func (m *Metrics) WebhookEvent(outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(outcome).Inc()
}

// Upload counts one stored document
func (m *Metrics) Upload(documentType string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(documentType).Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
