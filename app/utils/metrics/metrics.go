// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopcore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopcore_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// AuthFailuresTotal counts rejected authentication attempts by reason
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopcore_auth_failures_total",
			Help: "Rejected authentication attempts",
		},
		[]string{"reason"},
	)

	// RefreshRotationsTotal counts refresh exchanges by outcome
	RefreshRotationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopcore_refresh_rotations_total",
			Help: "Refresh token exchanges by outcome",
		},
		[]string{"outcome"},
	)

	// CSRFRejectionsTotal counts requests blocked by the anti-forgery check
	CSRFRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopcore_csrf_rejections_total",
			Help: "Requests rejected by the CSRF double-submit check",
		},
	)

	// PreconditionConflictsTotal counts conditional updates lost to a stale tag
	PreconditionConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopcore_precondition_conflicts_total",
			Help: "Conditional updates rejected with a stale entity tag",
		},
	)

	// TenantResolutionFailuresTotal counts requests without a usable tenant
	TenantResolutionFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopcore_tenant_resolution_failures_total",
			Help: "Requests that failed tenant resolution",
		},
		[]string{"reason"},
	)
)
