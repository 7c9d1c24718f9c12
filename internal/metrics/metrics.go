// Package metrics defines the Prometheus collectors for the query engine and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors used by docsearch.
type Metrics struct {
	SearchesTotal         *prometheus.CounterVec
	NavigationsTotal      *prometheus.CounterVec
	FallbackDocsTotal     prometheus.Counter
	CompletionErrorsTotal prometheus.Counter
	PersistErrorsTotal    prometheus.Counter
	IndexedDocuments      prometheus.Gauge
	SearchDuration        prometheus.Histogram
}

// New creates all collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_searches_total",
				Help: "Forward searches by outcome (hit, fallback).",
			},
			[]string{"outcome"},
		),
		NavigationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_navigations_total",
				Help: "History navigations by direction and status.",
			},
			[]string{"direction", "status"},
		),
		FallbackDocsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docsearch_fallback_documents_total",
				Help: "Documents created from completion answers.",
			},
		),
		CompletionErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docsearch_completion_errors_total",
				Help: "Completion calls that failed and were replaced by error text.",
			},
		),
		PersistErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docsearch_persist_errors_total",
				Help: "Fallback documents that could not be written to the sink.",
			},
		),
		IndexedDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsearch_indexed_documents",
				Help: "Number of distinct documents in the inverted index.",
			},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docsearch_search_duration_seconds",
				Help:    "Forward search latency including fallback ingestion.",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
	}

	reg.MustRegister(
		m.SearchesTotal,
		m.NavigationsTotal,
		m.FallbackDocsTotal,
		m.CompletionErrorsTotal,
		m.PersistErrorsTotal,
		m.IndexedDocuments,
		m.SearchDuration,
	)
	return m
}

// Handler returns the scrape handler for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
