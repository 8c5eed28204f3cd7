// Package telemetry exposes Prometheus metrics for snapshot calls.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ptree_snapshots_total",
			Help: "Total number of completed snapshot calls",
		},
	)

	snapshotErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptree_snapshot_errors_total",
			Help: "Total number of failed snapshot calls by error kind",
		},
		[]string{"kind"},
	)

	truncationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ptree_snapshot_truncations_total",
			Help: "Snapshot calls that stored fewer records than processes visited",
		},
	)

	recordsStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ptree_records_stored_total",
			Help: "Total number of records copied to callers",
		},
	)

	snapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ptree_snapshot_duration_seconds",
			Help:    "Wall time of snapshot calls, counting and traversal included",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)
)

// ObserveSnapshot records one successful snapshot call.
func ObserveSnapshot(stored, total int, elapsed time.Duration) {
	snapshotsTotal.Inc()
	recordsStored.Add(float64(stored))
	snapshotDuration.Observe(elapsed.Seconds())
	if stored < total {
		truncationsTotal.Inc()
	}
}

// CountError records one failed snapshot call.
func CountError(kind string) {
	snapshotErrors.WithLabelValues(kind).Inc()
}
