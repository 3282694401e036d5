// Package iometrics collects Prometheus metrics of a single mpdb run and
// saves them in the textfile collector format of node_exporter.
package iometrics

import (
	"time"

	"github.com/gnames/mpdb/pkg/annotate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status labels of annotated records.
const (
	StatusAnnotated = "annotated"
	StatusNotFound  = "not_found"
)

// Metrics keeps run metrics in a private registry.
type Metrics struct {
	reg *prometheus.Registry

	records   *prometheus.CounterVec
	validated prometheus.Gauge
	resolved  prometheus.Gauge
	duration  *prometheus.GaugeVec
}

// New creates metrics registered in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		records: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mpdb_records_total",
			Help: "FASTA records processed by the annotator, by status",
		}, []string{"status"}),
		validated: f.NewGauge(prometheus.GaugeOpts{
			Name: "mpdb_taxa_validated",
			Help: "Taxon names confirmed by NCBI taxonomy",
		}),
		resolved: f.NewGauge(prometheus.GaugeOpts{
			Name: "mpdb_taxa_resolved",
			Help: "Taxon identifiers sent to the sequence service",
		}),
		duration: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mpdb_stage_duration_seconds",
			Help: "Wall time of pipeline stages",
		}, []string{"stage"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// AddStats counts annotator results.
func (m *Metrics) AddStats(st annotate.Stats) {
	m.records.WithLabelValues(StatusAnnotated).Add(float64(st.Annotated))
	m.records.WithLabelValues(StatusNotFound).Add(float64(st.NotFound))
}

// SetValidated records the size of the validated taxon set.
func (m *Metrics) SetValidated(n int) {
	m.validated.Set(float64(n))
}

// SetResolved records how many taxon ids were resolved from names.
func (m *Metrics) SetResolved(n int) {
	m.resolved.Set(float64(n))
}

// ObserveStage records the duration of a named stage started at start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.duration.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

// WriteTextfile saves all metrics to path. The file is replaced
// atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return WriteError(path, err)
	}
	return nil
}
