// Package metrics defines the Prometheus instrumentation for the sync loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated by the syncer and backup service.
type Metrics struct {
	// RefreshTotal counts refresh cycles by outcome:
	// ok, remote_error, store_error, skipped_unauthenticated.
	RefreshTotal *prometheus.CounterVec

	// ReconcileDuration observes the wall time of a full reconcile.
	ReconcileDuration prometheus.Histogram

	// RestoreTotal counts backup restores by outcome: ok, decode_error, store_error.
	RestoreTotal *prometheus.CounterVec
}

// New registers the collectors on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RefreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monthlypay",
			Name:      "refresh_total",
			Help:      "Refresh cycles by outcome.",
		}, []string{"result"}),
		ReconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "monthlypay",
			Name:      "reconcile_duration_seconds",
			Help:      "Wall time of a full local-store reconcile.",
			Buckets:   prometheus.DefBuckets,
		}),
		RestoreTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monthlypay",
			Name:      "restore_total",
			Help:      "Backup restores by outcome.",
		}, []string{"result"}),
	}
}
