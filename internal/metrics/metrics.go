// Package metrics exposes lookup fan-out telemetry in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lexicon"

// Lookup records per-source outcomes and latency plus stale discards. It
// satisfies search.Observer.
type Lookup struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	stale    prometheus.Counter
}

// NewLookup creates the collectors on a private registry together with the
// Go runtime and process collectors.
func NewLookup() *Lookup {
	m := &Lookup{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_source_requests_total",
			Help:      "Source calls made by the search fan-out, by outcome.",
		}, []string{"source", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_source_duration_seconds",
			Help:      "Time until a source call settled.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_stale_discards_total",
			Help:      "Settled searches discarded because a newer query had started.",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.stale,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// SourceCompleted counts one settled source call.
func (m *Lookup) SourceCompleted(source, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(source, outcome).Inc()
	m.duration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// StaleDiscarded counts one discarded search.
func (m *Lookup) StaleDiscarded() {
	m.stale.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Lookup) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Lookup) Registry() *prometheus.Registry {
	return m.registry
}
