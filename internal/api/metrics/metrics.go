// Package metrics defines and registers all custom Prometheus metrics for the
// hires API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hires"

// ── Hire lifecycle ────────────────────────────────────────────────────────────

// HiresCreatedTotal counts newly created hires.
// Label:
//   - flow: "targeted", "open" or "guest"
var HiresCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of hires created, by flow.",
	},
	[]string{"flow"},
)

// TransitionsTotal counts status transitions that were written.
// Labels:
//   - from, to: hire statuses
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of hire status transitions applied.",
	},
	[]string{"from", "to"},
)

// TransitionErrorsTotal counts rejected transition attempts.
// Label:
//   - reason: "invalid_transition", "unauthorized", "conflict", "not_found", "update_failed"
var TransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Total number of hire transitions that were rejected or failed.",
	},
	[]string{"reason"},
)

// ── Notifications ─────────────────────────────────────────────────────────────

// NotificationsSentTotal counts delivered side effects.
// Labels:
//   - channel: "in_app" or "email"
//   - type: notification or email type
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications delivered, by channel and type.",
	},
	[]string{"channel", "type"},
)

// NotificationsFailedTotal counts deliveries that failed and were swallowed.
var NotificationsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_failed_total",
		Help:      "Total number of notification deliveries that failed.",
	},
	[]string{"channel", "type"},
)

// NotificationsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (already delivered, skipped), "miss" (delivered) or "error"
var NotificationsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dedup_total",
		Help:      "Total number of notification deduplication checks, labelled by result.",
	},
	[]string{"result"},
)

// DispatchQueueDepth tracks the number of events waiting in each worker channel.
var DispatchQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatch_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// DispatchDroppedTotal counts events dropped because a worker channel was full.
var DispatchDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_dropped_total",
		Help:      "Total number of events dropped because the dispatcher queue was full.",
	},
)

// DispatchDuration measures how long one event takes from dequeue to the end
// of delivery.
var DispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Duration of notification dispatch per event.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Reviews ───────────────────────────────────────────────────────────────────

// ReviewsSubmittedTotal counts stored reviews.
// Label:
//   - path: "account" or "guest"
var ReviewsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_submitted_total",
		Help:      "Total number of reviews stored, by reviewer path.",
	},
	[]string{"path"},
)
