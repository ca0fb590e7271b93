// Package telemetry exposes ingestion and analysis metrics for
// long-running streams, plus the optional HTTP status server that
// serves them.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jbernhard/flow-cumulants/internal/flow"
)

// Metrics bundles the Prometheus collectors of one analysis run.
type Metrics struct {
	registry *prometheus.Registry

	EventsTotal       prometheus.Counter
	ParticlesTotal    prometheus.Counter
	StreamErrorsTotal prometheus.Counter
	EventMultiplicity prometheus.Histogram
	AnalysisDuration  prometheus.Histogram
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		EventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flowcum_events_total",
			Help: "Total number of events ingested",
		}),
		ParticlesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flowcum_particles_total",
			Help: "Total number of particles across all ingested events",
		}),
		StreamErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flowcum_stream_errors_total",
			Help: "Total number of event stream failures",
		}),
		EventMultiplicity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flowcum_event_multiplicity",
			Help:    "Per-event particle multiplicity",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flowcum_analysis_duration_seconds",
			Help:    "Wall time of the reduction stage in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.EventsTotal,
		m.ParticlesTotal,
		m.StreamErrorsTotal,
		m.EventMultiplicity,
		m.AnalysisDuration,
	)
	return m
}

// Registry returns the private registry backing the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Instrument wraps an event source so that every scanned event updates
// the ingestion counters.
func (m *Metrics) Instrument(src flow.EventSource) flow.EventSource {
	return &instrumentedSource{src: src, metrics: m}
}

type instrumentedSource struct {
	src      flow.EventSource
	metrics  *Metrics
	reported bool
}

func (s *instrumentedSource) Scan() bool {
	if !s.src.Scan() {
		if s.src.Err() != nil && !s.reported {
			s.reported = true
			s.metrics.StreamErrorsTotal.Inc()
		}
		return false
	}
	event := s.src.Event()
	s.metrics.EventsTotal.Inc()
	s.metrics.ParticlesTotal.Add(float64(len(event)))
	s.metrics.EventMultiplicity.Observe(float64(len(event)))
	return true
}

func (s *instrumentedSource) Event() []float64 { return s.src.Event() }
func (s *instrumentedSource) Err() error       { return s.src.Err() }
