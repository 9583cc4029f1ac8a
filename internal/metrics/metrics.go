// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCRequests counts RPCs by procedure and Connect code ("ok" on success).
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitpay_rpc_requests_total",
		Help: "Total number of RPC requests by procedure and result code.",
	}, []string{"procedure", "code"})

	// RPCDuration observes RPC latency by procedure.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "splitpay_rpc_duration_seconds",
		Help:    "RPC handling time in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure"})

	// SettlementDuration observes the time spent computing a group's balances and debts.
	SettlementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "splitpay_settlement_duration_seconds",
		Help:    "Time to compute balances and the settlement of one group.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	// SettlementDebts observes how many debts a settlement produced.
	SettlementDebts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "splitpay_settlement_debts",
		Help:    "Number of debts produced per settlement.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
	})

	// PaymentTransitions counts payment status changes by target status.
	PaymentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitpay_payment_transitions_total",
		Help: "Total number of payments that reached a status.",
	}, []string{"status"})
)

// ObserveSettlement records one settlement computation.
func ObserveSettlement(start time.Time, debts int) {
	SettlementDuration.Observe(time.Since(start).Seconds())
	SettlementDebts.Observe(float64(debts))
}
