package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// enrichment job.
type Metrics struct {
	RecordsProcessed prometheus.Counter
	RecordsSkipped   prometheus.Counter
	JobRunning       prometheus.Gauge

	// Per-provider lookup metrics.
	LookupRequests *prometheus.CounterVec   // labels: provider={geocoding,weather,currencylayer,exchangerate}, outcome={success,error,empty}
	LookupDuration *prometheus.HistogramVec // labels: provider
	FxSource       *prometheus.CounterVec   // labels: source={primary,fallback,none}
}

// NewMetrics creates and registers all job metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "expense_enricher",
			Name:      "records_processed_total",
			Help:      "Total records enriched and written to the output.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "expense_enricher",
			Name:      "records_skipped_total",
			Help:      "Total records excluded for failing input validation.",
		}),
		JobRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "expense_enricher",
			Name:      "job_running",
			Help:      "1 while the enrichment job is active, 0 when finished.",
		}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense_enricher",
			Name:      "lookup_requests_total",
			Help:      "External API lookups by provider and outcome.",
		}, []string{"provider", "outcome"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expense_enricher",
			Name:      "lookup_duration_seconds",
			Help:      "External API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		FxSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense_enricher",
			Name:      "fx_source_total",
			Help:      "Currency chain resolutions by source stage.",
		}, []string{"source"}),
	}

	prometheus.MustRegister(
		m.RecordsProcessed,
		m.RecordsSkipped,
		m.JobRunning,
		m.LookupRequests,
		m.LookupDuration,
		m.FxSource,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "expense_enricher", Name: "records_processed_total"}),
		RecordsSkipped:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "expense_enricher", Name: "records_skipped_total"}),
		JobRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "expense_enricher", Name: "job_running"}),
		LookupRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "expense_enricher", Name: "lookup_requests_total"}, []string{"provider", "outcome"}),
		LookupDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "expense_enricher", Name: "lookup_duration_seconds"}, []string{"provider"}),
		FxSource:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "expense_enricher", Name: "fx_source_total"}, []string{"source"}),
	}
}
