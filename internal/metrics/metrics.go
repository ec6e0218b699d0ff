package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the worker's metrics behind one prometheus registry
type Registry struct {
	reg *prometheus.Registry

	Acquisitions      *prometheus.CounterVec
	Failures          *prometheus.CounterVec
	RefreshDuration   prometheus.Histogram
	TrackedProducts   prometheus.Gauge
	SnapshotsUpserted prometheus.Counter
}

// NewRegistry creates the registry with all collectors registered
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	acquisitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trend_acquisitions_total",
		Help: "Successful acquisitions by platform and source strategy",
	}, []string{"platform", "strategy"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trend_acquisition_failures_total",
		Help: "Exhausted acquisitions by platform",
	}, []string{"platform"})
	refreshDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trend_refresh_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})
	trackedProducts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trend_tracked_products",
	})
	snapshotsUpserted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trend_snapshots_upserted_total",
	})

	r.MustRegister(acquisitions, failures, refreshDuration, trackedProducts, snapshotsUpserted)

	return &Registry{
		reg:               r,
		Acquisitions:      acquisitions,
		Failures:          failures,
		RefreshDuration:   refreshDuration,
		TrackedProducts:   trackedProducts,
		SnapshotsUpserted: snapshotsUpserted,
	}
}

// Handler serves the registry over HTTP
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
