package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(dispatchClaimedTotal, dispatchDeliveriesTotal, dispatchBatchDurationMs) }

var dispatchClaimedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "dispatch_claimed_total",
		Help: "Total number of reminders claimed for dispatch.",
	},
)

var dispatchDeliveriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dispatch_deliveries_total",
		Help: "Delivery outcomes by status (sent/retried/failed).",
	},
	[]string{"status"},
)

var dispatchBatchDurationMs = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "dispatch_batch_duration_ms",
		Help:    "Duration of one dispatch batch in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	},
)

func AddDispatchClaimed(n int) { dispatchClaimedTotal.Add(float64(n)) }

func IncDispatchDelivery(status string) {
	dispatchDeliveriesTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveDispatchBatch(d time.Duration) {
	dispatchBatchDurationMs.Observe(float64(d.Milliseconds()))
}
