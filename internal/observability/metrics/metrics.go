package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config configures metric const labels.
type Config struct {
	ServiceName string
	Environment string
}

const (
	CatalogSourceStorage  = "storage"
	CatalogSourceCache    = "cache"
	CatalogSourceStale    = "stale"
	CatalogSourceFallback = "fallback"
)

const (
	QuoteOutcomeThreshold = "free_threshold"
	QuoteOutcomeZone      = "zone"
	QuoteOutcomeDefault   = "default"
)

const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

const (
	JobResultSuccess = "success"
	JobResultError   = "error"
	JobResultTimeout = "timeout"
	JobResultSkipped = "skipped"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	catalogReads  *prometheus.CounterVec
	quotes        *prometheus.CounterVec
	gateDecisions *prometheus.CounterVec
	rateLimit     *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	jobRuns       *prometheus.CounterVec
	jobProcessed  *prometheus.CounterVec
}

// NewRegistry returns a registry with process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New registers the domain instruments on registerer.
func New(cfg Config, registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "vitrine"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		catalogReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "vitrine_plan_catalog_reads_total",
			Help:        "Plan catalog reads by the tier that served them.",
			ConstLabels: constLabels,
		}, []string{"source"}),
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "vitrine_shipping_quotes_total",
			Help:        "Shipping quotes by resolution outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome", "free"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "vitrine_entitlement_decisions_total",
			Help:        "Entitlement gate decisions by resource.",
			ConstLabels: constLabels,
		}, []string{"resource", "decision"}),
		rateLimit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "vitrine_rate_limit_decisions_total",
			Help:        "Public endpoint rate limit decisions.",
			ConstLabels: constLabels,
		}, []string{"endpoint", "decision"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "vitrine_http_requests_total",
			Help:        "HTTP requests by route and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "vitrine_http_request_duration_seconds",
			Help:        "HTTP request latency by route.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "vitrine_scheduler_job_runs_total",
			Help:        "Background job runs by result.",
			ConstLabels: constLabels,
		}, []string{"job", "result"}),
		jobProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "vitrine_scheduler_job_processed_total",
			Help:        "Rows changed by background jobs.",
			ConstLabels: constLabels,
		}, []string{"job"}),
	}

	instruments := []prometheus.Collector{
		m.catalogReads,
		m.quotes,
		m.gateDecisions,
		m.rateLimit,
		m.httpRequests,
		m.httpDuration,
		m.jobRuns,
		m.jobProcessed,
	}
	for _, c := range instruments {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordCatalogRead counts which tier answered a catalog read.
func (m *Metrics) RecordCatalogRead(source string) {
	if m == nil {
		return
	}
	m.catalogReads.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordQuote(outcome string, free bool) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(outcome, strconv.FormatBool(free)).Inc()
}

func (m *Metrics) RecordGateDecision(resource string, allowed bool) {
	if m == nil {
		return
	}
	decision := DecisionAllow
	if !allowed {
		decision = DecisionDeny
	}
	m.gateDecisions.WithLabelValues(resource, decision).Inc()
}

func (m *Metrics) RecordRateLimit(endpoint string, allowed bool) {
	if m == nil {
		return
	}
	decision := DecisionAllow
	if !allowed {
		decision = DecisionDeny
	}
	m.rateLimit.WithLabelValues(strings.TrimSpace(endpoint), decision).Inc()
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if strings.TrimSpace(route) == "" {
		route = "unknown"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordJobRun counts one scheduler job run and the rows it changed.
func (m *Metrics) RecordJobRun(job, result string, processed int) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
	if processed > 0 {
		m.jobProcessed.WithLabelValues(job).Add(float64(processed))
	}
}
