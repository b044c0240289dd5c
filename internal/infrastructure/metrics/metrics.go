package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Engine metrics
	TransactionsProcessed *prometheus.CounterVec
	TransactionRejections *prometheus.CounterVec
	TransactionDuration   prometheus.Histogram

	// Wallet metrics
	WalletsCreated  prometheus.Counter
	WalletsLocked   prometheus.Counter
	WalletsReported prometheus.Gauge

	// Source metrics
	SourceRowsSkipped prometheus.Counter

	// Ledger backend metrics
	LedgerOperations *prometheus.CounterVec
	LedgerErrors     *prometheus.CounterVec

	// Snapshot sink metrics
	SnapshotWrites  *prometheus.CounterVec
	SnapshotRetries prometheus.Counter

	// Ops endpoint metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg.
// A nil reg falls back to the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_transactions_processed_total",
				Help: "Total transaction records processed by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		TransactionRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_transaction_rejections_total",
				Help: "Total rejected transaction records by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		TransactionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payengine_transaction_duration_seconds",
			Help:    "Time spent applying a single transaction record",
			Buckets: []float64{.000001, .000005, .00001, .00005, .0001, .0005, .001, .005, .01},
		}),

		WalletsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "payengine_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		WalletsLocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "payengine_wallets_locked_total",
			Help: "Total number of wallets locked by a chargeback",
		}),
		WalletsReported: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payengine_wallets_reported",
			Help: "Number of wallets in the last balance report",
		}),

		SourceRowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "payengine_source_rows_skipped_total",
			Help: "Total malformed input rows dropped by the record source",
		}),

		LedgerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_ledger_operations_total",
				Help: "Total transaction ledger operations",
			},
			[]string{"operation"},
		),
		LedgerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_ledger_errors_total",
				Help: "Total transaction ledger backend errors",
			},
			[]string{"operation"},
		),

		SnapshotWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_snapshot_writes_total",
				Help: "Total balance snapshot writes by sink and status",
			},
			[]string{"sink", "status"},
		),
		SnapshotRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "payengine_snapshot_retries_total",
			Help: "Total retried balance snapshot writes",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_http_requests_total",
				Help: "Total number of requests served by the ops endpoint",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payengine_http_request_duration_seconds",
				Help:    "Ops endpoint request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route"},
		),
	}
}
