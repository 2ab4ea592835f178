// Package metrics holds the Prometheus collectors of the scheduler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ticket_ledger"

// Run statuses used as the "status" label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// Job run metrics
var (
	// RunsTotal counts scheduled runs by job and outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Scheduled runs by job and status",
		},
		[]string{"job", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of completed runs in seconds",
			Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"job"},
	)

	LastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		},
		[]string{"job"},
	)
)

// Ledger metrics
var (
	BuyersIngested = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingest_buyers",
			Help:      "Buyers in the last appended ledger block",
		},
	)

	PivotColumns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary_columns",
			Help:      "Period columns in the last rebuilt summary",
		},
	)

	PivotBuyers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary_buyers",
			Help:      "Buyer rows in the last rebuilt summary",
		},
	)

	MalformedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_malformed_rows",
			Help:      "Ledger rows skipped by the last rebuild",
		},
	)
)

// ObserveRun records the outcome of one run.
func ObserveRun(job, status string, started time.Time) {
	RunsTotal.WithLabelValues(job, status).Inc()
	if status == StatusSkipped {
		return
	}
	RunDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
	if status == StatusSuccess {
		LastSuccess.WithLabelValues(job).SetToCurrentTime()
	}
}
