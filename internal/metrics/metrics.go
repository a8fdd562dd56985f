// Package metrics provides Prometheus metrics for gist.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gist"

// Metrics groups the collectors of one registry. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	sourcesTotal     *prometheus.CounterVec
	runsTotal        *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	rankingFallbacks prometheus.Counter
	summarizeSeconds prometheus.Histogram
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		sourcesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sources_total",
				Help:      "Total number of fetched sources",
			},
			[]string{"kind", "outcome"},
		),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of pipeline runs",
			},
			[]string{"status"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Total number of cache lookups",
			},
			[]string{"layer", "result"},
		),
		rankingFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ranking_fallbacks_total",
				Help:      "Total number of summaries built in document order after a ranking failure",
			},
		),
		summarizeSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summarize_duration_seconds",
				Help:      "Duration of hierarchical summarization in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveSource records one fetched source.
func (m *Metrics) ObserveSource(kind string, ok bool) {
	if m == nil {
		return
	}

	m.sourcesTotal.WithLabelValues(kind, outcome(ok)).Inc()
}

// ObserveRun records one pipeline run.
func (m *Metrics) ObserveRun(status string) {
	if m == nil {
		return
	}

	m.runsTotal.WithLabelValues(status).Inc()
}

// ObserveCache records one cache lookup on the named layer.
func (m *Metrics) ObserveCache(layer string, hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	m.cacheLookups.WithLabelValues(layer, result).Inc()
}

func (m *Metrics) ObserveRankingFallback() {
	if m == nil {
		return
	}

	m.rankingFallbacks.Inc()
}

func (m *Metrics) ObserveSummarize(d time.Duration) {
	if m == nil {
		return
	}

	m.summarizeSeconds.Observe(d.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
