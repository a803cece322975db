// Package metrics defines the custom Prometheus metrics of the users
// service. Collectors register themselves with the default registry on
// package load through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── HTTP ──────────────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method, route: HTTP method and route template (e.g. "/users/:id")
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency by route template.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency distributions.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	},
	[]string{"method", "route", "status"},
)

// AuthzDecisionsTotal counts guard outcomes.
// Label:
//   - reason: the rule that decided (e.g. "role_match", "invalid_resource_id")
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Authorization decisions, labelled by deciding rule.",
	},
	[]string{"reason"},
)

// ── Users ─────────────────────────────────────────────────────────────────────

// UserWritesTotal counts committed write operations.
// Label:
//   - op: "create", "update" or "delete"
var UserWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_total",
		Help:      "Total number of successful user writes, by operation.",
	},
	[]string{"op"},
)

// CacheRequestsTotal counts read-through cache lookups.
// Labels:
//   - key_kind: "collection" or "single"
//   - result: "hit" or "miss"
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Read-through cache lookups, labelled by key kind and result.",
	},
	[]string{"key_kind", "result"},
)

// CacheErrorsTotal counts swallowed cache backend failures.
// Label:
//   - op: "get", "set", "del" or "flush"
var CacheErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_errors_total",
		Help:      "Cache backend failures absorbed by the gateway.",
	},
	[]string{"op"},
)

// ── Events ────────────────────────────────────────────────────────────────────

// EventsPublishedTotal counts publish attempts.
// Labels:
//   - channel: event channel (e.g. "user.created")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Domain events published, labelled by channel and result.",
	},
	[]string{"channel", "result"},
)

// EventsReceivedTotal counts messages handled by the subscriber.
// Labels:
//   - channel: event channel
//   - result: "ok", "decode_error" or "unknown_channel"
var EventsReceivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_received_total",
		Help:      "Events received by the subscriber, labelled by channel and result.",
	},
	[]string{"channel", "result"},
)

// EventsQueueDepth tracks pending messages in each dispatcher worker channel.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
