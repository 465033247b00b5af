package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the fishing log.
type Metrics struct {
	// Store metrics.
	StoreWrites         *prometheus.CounterVec // labels: collection
	StoreReadRecoveries *prometheus.CounterVec // labels: collection
	CollectionSize      *prometheus.GaugeVec   // labels: collection

	// Backup metrics.
	Imports         *prometheus.CounterVec // labels: outcome={applied,malformed,empty,error}
	AutosaveFlushes *prometheus.CounterVec // labels: outcome={success,error}

	// Weather metrics.
	WeatherRequests    *prometheus.CounterVec   // labels: stage={geocode,forecast}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	WeatherAPIDuration *prometheus.HistogramVec // labels: stage={geocode,forecast}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.StoreWrites,
		m.StoreReadRecoveries,
		m.CollectionSize,
		m.Imports,
		m.AutosaveFlushes,
		m.WeatherRequests,
		m.GeocodeCache,
		m.WeatherAPIDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		StoreWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fishlog",
			Name:      "store_writes_total",
			Help:      "Full-collection saves by collection.",
		}, []string{"collection"}),
		StoreReadRecoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fishlog",
			Name:      "store_read_recoveries_total",
			Help:      "Unreadable or corrupt collections replaced by an empty collection.",
		}, []string{"collection"}),
		CollectionSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fishlog",
			Name:      "collection_records",
			Help:      "Number of records in each collection after the last save.",
		}, []string{"collection"}),
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fishlog",
			Name:      "backup_imports_total",
			Help:      "Backup import attempts by outcome.",
		}, []string{"outcome"}),
		AutosaveFlushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fishlog",
			Name:      "autosave_flushes_total",
			Help:      "Debounced autosave flushes by outcome.",
		}, []string{"outcome"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fishlog",
			Name:      "weather_requests_total",
			Help:      "Geocoding and forecast requests by stage and outcome.",
		}, []string{"stage", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fishlog",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fishlog",
			Name:      "weather_api_duration_seconds",
			Help:      "Geocoding and forecast API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"stage"}),
	}
}
