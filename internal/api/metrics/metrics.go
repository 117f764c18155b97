// Package metrics defines and registers the custom Prometheus metrics of the
// commerce API. HTTP request metrics come from echoprometheus; this package
// only holds domain counters.
//
// Metrics are registered with the default registry on package init through
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "commerce"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders committed by POST /orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// OrderItemsPerOrder observes how many lines each new order carries.
var OrderItemsPerOrder = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_items_per_order",
		Help:      "Number of items per created order.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
	},
)

// OrderReplaysTotal counts POST /orders answered from an Idempotency-Key.
var OrderReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_idempotent_replays_total",
		Help:      "Total number of order submissions answered from a stored idempotency key.",
	},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// AccessDeniedTotal counts requests rejected by authentication or authorization.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied, by reason.",
	},
	[]string{"reason"},
)
