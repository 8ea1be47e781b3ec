package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for fetching, refreshing and composing.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec   // labels: category, outcome={ok,empty}
	FetchDuration *prometheus.HistogramVec // labels: category

	RefreshTotal    *prometheus.CounterVec // labels: trigger={startup,interval,manual}, result={applied,stale}
	RefreshDuration prometheus.Histogram
	SnapshotSources prometheus.Gauge

	SceneLayers prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_map",
			Name:      "source_fetch_total",
			Help:      "Source fetches by category and outcome.",
		}, []string{"category", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hazard_map",
			Name:      "source_fetch_duration_seconds",
			Help:      "Duration of a single source fetch, retries included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"category"}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_map",
			Name:      "snapshot_refresh_total",
			Help:      "Snapshot refreshes by trigger and whether the result was applied.",
		}, []string{"trigger", "result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_map",
			Name:      "snapshot_refresh_duration_seconds",
			Help:      "Duration of a full five-source aggregation.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}),
		SnapshotSources: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_map",
			Name:      "snapshot_available_sources",
			Help:      "Number of categories with data in the current snapshot.",
		}),
		SceneLayers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_map",
			Name:      "scene_layers",
			Help:      "Render layers per composed scene.",
			Buckets:   []float64{0, 1, 3, 5, 10, 25, 50, 100, 250},
		}),
	}
}

// NewMetrics creates the collectors and registers them with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.RefreshTotal,
		m.RefreshDuration,
		m.SnapshotSources,
		m.SceneLayers,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build
// as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
