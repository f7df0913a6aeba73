// Package metrics counts what a transcoding run produced. Each run owns a
// private registry that can be written out in the node exporter textfile
// format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gfa2rdf"

// Metrics holds the collectors of one run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Records    *prometheus.CounterVec
	Triples    prometheus.Counter
	Namespaces prometheus.Counter
	Paths      prometheus.Counter
	Steps      prometheus.Counter
	Duration   *prometheus.HistogramVec
}

// New creates collectors registered on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "GFA records read, by record kind",
		}, []string{"kind"}),
		Triples: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_total",
			Help:      "RDF statements emitted",
		}),
		Namespaces: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "namespaces_total",
			Help:      "Namespace declarations emitted",
		}),
		Paths: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paths_total",
			Help:      "Paths transcoded",
		}),
		Steps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Path steps transcoded",
		}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a transcoding run",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
		}, []string{"status"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Record counts one record of the given kind.
func (m *Metrics) Record(kind string) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(kind).Inc()
}

// Triple counts one emitted statement.
func (m *Metrics) Triple() {
	if m == nil {
		return
	}
	m.Triples.Inc()
}

// Namespace counts one namespace declaration.
func (m *Metrics) Namespace() {
	if m == nil {
		return
	}
	m.Namespaces.Inc()
}

// Path counts one path and its steps.
func (m *Metrics) Path(steps int64) {
	if m == nil {
		return
	}
	m.Paths.Inc()
	m.Steps.Add(float64(steps))
}

// ObserveRun records the duration of a run with status "ok" or "error".
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Duration.WithLabelValues(status).Observe(d.Seconds())
}

// WriteTextfile writes the registry to path for the node exporter textfile
// collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
