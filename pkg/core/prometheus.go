package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring service.
var (
	// txCheckedCounter is the metric of validated vote transactions.
	txCheckedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of vote transactions gone through validation",
			Name:      "votetx_checked_total",
			Namespace: "tidechain",
		},
	)
	// txRejectedCounterVec groups rejections by the reason code.
	txRejectedCounterVec = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of rejected vote transactions by reason",
			Name:      "votetx_rejected_total",
			Namespace: "tidechain",
		},
		[]string{"reason"},
	)
	// txExecutedCounter is the metric of successfully executed vote
	// transactions.
	txExecutedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of executed vote transactions",
			Name:      "votetx_executed_total",
			Namespace: "tidechain",
		},
	)
	// txAbortedCounter is the metric of vote transactions whose execution
	// was rolled back.
	txAbortedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of aborted vote transaction executions",
			Name:      "votetx_aborted_total",
			Namespace: "tidechain",
		},
	)
)

func txRejectedCounter(reason RejectReason) {
	txRejectedCounterVec.WithLabelValues(string(reason)).Inc()
}

func init() {
	prometheus.MustRegister(
		txCheckedCounter,
		txRejectedCounterVec,
		txExecutedCounter,
		txAbortedCounter,
	)
}
