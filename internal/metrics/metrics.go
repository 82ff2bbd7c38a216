// Package metrics exposes the dispatcher's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the notice dispatcher instruments. Instances register on the
// Registerer passed to New, so tests can use a private registry.
type Metrics struct {
	// TicksTotal counts dispatcher ticks by result (ok, error, skipped).
	TicksTotal *prometheus.CounterVec

	// OrdersClaimed counts orders claimed and submitted to the worker pool.
	OrdersClaimed prometheus.Counter

	// ClaimContention counts orders skipped because they were already claimed.
	ClaimContention prometheus.Counter

	// PoolRejections counts submissions refused by a saturated or closed pool.
	PoolRejections prometheus.Counter

	// OrdersProcessed counts completed processing attempts by final status.
	OrdersProcessed *prometheus.CounterVec

	// ItemsProcessed counts item checks by outcome (succeeded, failed, timed_out).
	ItemsProcessed *prometheus.CounterVec

	// NoticesSent counts notification hand-offs by event and result.
	NoticesSent *prometheus.CounterVec

	// InFlight is the number of orders currently claimed.
	InFlight prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TicksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notice_dispatch_ticks_total",
			Help: "Total number of dispatcher ticks.",
		}, []string{"result"}),
		OrdersClaimed: factory.NewCounter(prometheus.CounterOpts{
			Name: "notice_orders_claimed_total",
			Help: "Total number of message orders claimed and submitted for processing.",
		}),
		ClaimContention: factory.NewCounter(prometheus.CounterOpts{
			Name: "notice_orders_claim_contention_total",
			Help: "Total number of message orders skipped because they were already in flight.",
		}),
		PoolRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "notice_pool_rejections_total",
			Help: "Total number of message orders the worker pool refused.",
		}),
		OrdersProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notice_orders_processed_total",
			Help: "Total number of message order processing attempts by final status.",
		}, []string{"status"}),
		ItemsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notice_items_processed_total",
			Help: "Total number of message order item checks by outcome.",
		}, []string{"outcome"}),
		NoticesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notice_notifications_total",
			Help: "Total number of notifications handed to the sender.",
		}, []string{"event", "result"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "notice_orders_in_flight",
			Help: "Number of message orders currently being processed.",
		}),
	}
}

// NewNop returns instruments registered nowhere, for callers that do not export metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
