// Package metrics defines and registers all custom Prometheus metrics for
// the intake system. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// import time and are exposed by the ops HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "intake"

// UpdatesProcessedTotal counts inbound updates that completed handling.
// Label:
//   - kind: "command", "text", or "callback"
var UpdatesProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_processed_total",
		Help:      "Total number of inbound updates successfully handled.",
	},
	[]string{"kind"},
)

// UpdateErrorsTotal counts updates whose handler returned an error.
// Label:
//   - reason: short failure class ("handler" or "panic")
var UpdateErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "update_errors_total",
		Help:      "Total number of inbound updates that failed handling.",
	},
	[]string{"reason"},
)

// UpdatesDedupTotal counts deduplication decisions on inbound update ids.
// Label:
//   - result: "hit" (replay, skipped) or "miss" (fresh, processed)
var UpdatesDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_dedup_total",
		Help:      "Total number of update dedup checks, labelled by result.",
	},
	[]string{"result"},
)

// QueueDepth tracks the number of updates waiting in each worker channel.
var QueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of updates pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RequestsCreatedTotal counts requests persisted at the intake form's
// terminal step.
var RequestsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of website-build requests created.",
	},
)

// ExportsTotal counts export operations.
// Label:
//   - kind: "single" or "bulk"
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of export operations, by kind.",
	},
	[]string{"kind"},
)

// WebhookTotal counts site-generation webhook outcomes.
// Label:
//   - outcome: "ok" or "error"
var WebhookTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_total",
		Help:      "Total number of site-generation webhook calls, by outcome.",
	},
	[]string{"outcome"},
)
