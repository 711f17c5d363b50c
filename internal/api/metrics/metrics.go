// Package metrics defines and registers all custom Prometheus metrics for the
// feedboard API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedboard"

// OperationsTotal counts executed resolver operations.
// Labels:
//   - operation: the resolver name (e.g. "createPost")
//   - outcome: "ok" or "error"
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of resolver operations executed, by outcome.",
	},
	[]string{"operation", "outcome"},
)

// OperationDuration measures end-to-end resolver execution time.
var OperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of resolver operations from dispatch to response shaping.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// AuthFailuresTotal counts identity tokens the auth gate could not verify.
// Label:
//   - reason: "malformed_header" or "invalid_token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests whose Authorization header failed verification.",
	},
	[]string{"reason"},
)

// ImageCleanupTotal counts best-effort image deletions.
// Label:
//   - result: "ok" or "error"
var ImageCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_cleanup_total",
		Help:      "Total number of image cleanup attempts, by result.",
	},
	[]string{"result"},
)

// LoginThrottledTotal counts logins rejected by the Redis attempt limiter.
var LoginThrottledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_throttled_total",
		Help:      "Total number of login attempts rejected by the rate limiter.",
	},
)
