package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics covers the transfer lifecycle: session churn, submissions,
// terminal confirmation outcomes, canceled trackers and RPC failures.
type BusinessMetrics struct {
	SessionsConnectedTotal prometheus.Counter
	TransfersSubmitted     prometheus.Counter
	ConfirmationsTotal     *prometheus.CounterVec
	TrackersCanceledTotal  prometheus.Counter
	RpcErrorsTotal         *prometheus.CounterVec
	HistoryScansTotal      prometheus.Counter
	GasEstimateFailures    prometheus.Counter
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics initializes the transfer lifecycle metrics.
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		SessionsConnectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fmode_sessions_connected_total",
			Help: "Total number of wallet sessions established",
		}),
		TransfersSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fmode_transfers_submitted_total",
			Help: "Total number of token transfers submitted to the chain",
		}),
		ConfirmationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fmode_confirmations_total",
			Help: "Terminal confirmation outcomes by status",
		}, []string{"status"}), // confirmed | failed
		TrackersCanceledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fmode_trackers_canceled_total",
			Help: "Confirmation trackers canceled before reaching a terminal state",
		}),
		RpcErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fmode_rpc_errors_total",
			Help: "RPC failures by operation",
		}, []string{"op"}),
		HistoryScansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fmode_history_scans_total",
			Help: "Transfer history reconstructions performed",
		}),
		GasEstimateFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fmode_gas_estimate_failures_total",
			Help: "Gas estimates that failed and degraded to none",
		}),
	}
}
