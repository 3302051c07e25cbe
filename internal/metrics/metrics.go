// Package metrics counts store and engine events with Prometheus
// collectors and exports them in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/atomstore/internal/atom"
	"github.com/roach88/atomstore/internal/engine"
)

const namespace = "atomstore"

// Metrics implements store.Observer and engine.Observer.
// Safe for concurrent use.
type Metrics struct {
	reg *prometheus.Registry

	linesSkipped   *prometheus.CounterVec
	recordsScanned *prometheus.CounterVec
	recordsWritten *prometheus.CounterVec
	operations     *prometheus.CounterVec
	opDuration     *prometheus.HistogramVec
}

// New creates Metrics registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		linesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "lines_skipped_total",
			Help:      "Lines skipped during scan because they did not parse as a record.",
		}, []string{"resource", "kind"}),
		recordsScanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records_scanned_total",
			Help:      "Records parsed during scans.",
		}, []string{"resource"}),
		recordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records_written_total",
			Help:      "Records written, by write operation.",
		}, []string{"resource", "op"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Engine operations, by outcome.",
		}, []string{"op", "outcome"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operation_duration_seconds",
			Help:      "Engine operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
	}

	m.reg.MustRegister(
		m.linesSkipped,
		m.recordsScanned,
		m.recordsWritten,
		m.operations,
		m.opDuration,
	)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// LineSkipped implements store.Observer.
func (m *Metrics) LineSkipped(resource string, kind atom.ErrorKind) {
	m.linesSkipped.WithLabelValues(resource, string(kind)).Inc()
}

// RecordsScanned implements store.Observer.
func (m *Metrics) RecordsScanned(resource string, n int) {
	m.recordsScanned.WithLabelValues(resource).Add(float64(n))
}

// RecordWritten implements store.Observer.
func (m *Metrics) RecordWritten(resource, op string) {
	m.recordsWritten.WithLabelValues(resource, op).Inc()
}

// Operation implements engine.Observer.
func (m *Metrics) Operation(op string, outcome engine.Outcome, elapsed time.Duration) {
	m.operations.WithLabelValues(op, string(outcome)).Inc()
	m.opDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// WriteTextfile writes every metric to path atomically in the text
// exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
