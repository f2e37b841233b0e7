package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decision results used as the "result" label.
const (
	ResultAllowed = "allowed"
	ResultDenied  = "denied"
	ResultError   = "error"
)

var (
	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizsuite_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// PermissionChecks counts module/action evaluations and their outcome.
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizsuite_permission_checks_total",
			Help: "Total number of module permission checks",
		},
		[]string{"module", "action", "result"},
	)

	// EntityAccessChecks counts entity-level access evaluations and their outcome.
	EntityAccessChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizsuite_entity_access_checks_total",
			Help: "Total number of entity access checks",
		},
		[]string{"entity_type", "result"},
	)

	// ModuleCacheLookups counts module catalog cache hits and misses.
	ModuleCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizsuite_module_cache_lookups_total",
			Help: "Module catalog cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// MaintenanceRuns counts background job executions by job and result.
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizsuite_maintenance_runs_total",
			Help: "Background maintenance job executions",
		},
		[]string{"job", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizsuite_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
