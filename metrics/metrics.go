// Package metrics provides Prometheus metrics for the Tandoor MCP server.
// It tracks tool calls, Tandoor API latency, authentication, and the
// consolidation engine's outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "tandoor_mcp"
)

var (
	// RequestsTotal counts total MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures request latency distribution
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "Request latency distribution by tool",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing requests
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being processed",
	}, []string{"tool"})

	// APILatency measures Tandoor API call latency by resource and action
	APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "api_latency_seconds",
		Help:      "Tandoor API call latency by resource and action",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource", "action"})

	// APIRequestsTotal counts Tandoor API requests
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "api_requests_total",
		Help:      "Total Tandoor API requests by resource, action and status",
	}, []string{"resource", "action", "status"})

	// APIErrors counts Tandoor API errors by error code
	APIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "api_errors_total",
		Help:      "Tandoor API errors by resource, action and error code",
	}, []string{"resource", "action", "error_code"})

	// APIRetries counts API request retries
	APIRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "api_retries_total",
		Help:      "Tandoor API retry count by resource and action",
	}, []string{"resource", "action"})

	// LoginsTotal counts login attempts against the token endpoint
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "logins_total",
		Help:      "Login attempts by status",
	}, []string{"status"})

	// AuthFailures counts authentication failures
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_failures_total",
		Help:      "Authentication failure count by reason",
	}, []string{"reason"})

	// TokenState reports the token lifecycle state as a labeled gauge
	TokenState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "token_state",
		Help:      "Current token lifecycle state (1 for the active state)",
	}, []string{"state"})

	// CatalogLoads counts per-call entity catalog fetches by table
	CatalogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "catalog_loads_total",
		Help:      "Entity catalog table loads by table",
	}, []string{"table"})

	// ResolutionsTotal counts fuzzy name resolutions by table and outcome
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "resolutions_total",
		Help:      "Name resolutions by table and outcome (matched, created, ambiguous, not_found)",
	}, []string{"table", "outcome"})

	// ConsolidationOutcomes counts shopping list consolidation decisions
	ConsolidationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "consolidation_outcomes_total",
		Help:      "Shopping list consolidation decisions (added, skipped, consolidated)",
	}, []string{"outcome"})

	// RateLimitWaits counts requests that waited for the request semaphore
	RateLimitWaits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limit_waits_total",
		Help:      "Requests that waited for the concurrency limiter",
	})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})
)

// tokenStates enumerates the label values used by SetTokenState so stale
// states can be zeroed.
var tokenStates = []string{"unset", "authenticating", "valid", "invalid", "preset"}

// RecordRequest records a completed request with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	RequestsTotal.WithLabelValues(tool, status).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordAPICall records a Tandoor API call
func RecordAPICall(resource, action string, duration float64, success bool, errorCode string) {
	status := "success"
	if !success {
		status = "error"
	}
	APIRequestsTotal.WithLabelValues(resource, action, status).Inc()
	APILatency.WithLabelValues(resource, action).Observe(duration)
	if errorCode != "" {
		APIErrors.WithLabelValues(resource, action, errorCode).Inc()
	}
}

// RecordLogin records a login attempt outcome
func RecordLogin(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	LoginsTotal.WithLabelValues(status).Inc()
}

// RecordAuthFailure records an authentication failure by reason
func RecordAuthFailure(reason string) {
	AuthFailures.WithLabelValues(reason).Inc()
}

// SetTokenState marks the current token lifecycle state
func SetTokenState(state string) {
	for _, s := range tokenStates {
		v := 0.0
		if s == state {
			v = 1.0
		}
		TokenState.WithLabelValues(s).Set(v)
	}
}

// RecordResolution records a fuzzy name resolution outcome
func RecordResolution(table, outcome string) {
	ResolutionsTotal.WithLabelValues(table, outcome).Inc()
}

// RecordConsolidation records one consolidation decision
func RecordConsolidation(outcome string) {
	ConsolidationOutcomes.WithLabelValues(outcome).Inc()
}
