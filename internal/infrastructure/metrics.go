package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the refresh cycle and the
// HTTP surface. One instance is created at startup and shared by the
// dashboard service and the poller.
type Metrics struct {
	registry *prometheus.Registry

	RefreshTotal    prometheus.Counter
	RefreshFailures prometheus.Counter
	RefreshDuration prometheus.Histogram
	RecordCount     prometheus.Gauge
	SectorCount     prometheus.Gauge
	WSClients       prometheus.Gauge
}

// NewMetrics creates and registers the application's collectors on a
// dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RefreshTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "growthpulse",
			Name:      "refresh_cycles_total",
			Help:      "Total number of refresh cycles attempted.",
		}),
		RefreshFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "growthpulse",
			Name:      "refresh_failures_total",
			Help:      "Total number of refresh cycles that failed at the fetch boundary.",
		}),
		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "growthpulse",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of full refresh cycles (fetch, normalize, aggregate).",
			Buckets:   prometheus.DefBuckets,
		}),
		RecordCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "growthpulse",
			Name:      "snapshot_records",
			Help:      "Number of records in the current snapshot.",
		}),
		SectorCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "growthpulse",
			Name:      "snapshot_sectors",
			Help:      "Number of distinct sectors in the current snapshot.",
		}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "growthpulse",
			Name:      "websocket_clients",
			Help:      "Number of connected WebSocket clients.",
		}),
	}
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
