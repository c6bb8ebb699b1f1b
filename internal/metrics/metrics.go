// Package metrics exposes scan counters in Prometheus format.
//
// A batch run has no /metrics endpoint, so the registry is written once as
// a node-exporter textfile at the end of the run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan holds the counters of one scan. A nil *Scan records nothing.
type Scan struct {
	registry *prometheus.Registry

	SegmentsRead     prometheus.Counter
	RecordsRead      prometheus.Counter
	RecordsIncluded  prometheus.Counter
	RecordsSkipped   prometheus.Counter
	Stopped          prometheus.Gauge
	Operations       *prometheus.CounterVec
	WrittenBytes     prometheus.Gauge
	InodeLifetimes   prometheus.Gauge
	WindowStartEpoch prometheus.Gauge
	WindowEndEpoch   prometheus.Gauge
}

// NewScan creates the scan metrics on a fresh registry.
func NewScan() *Scan {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Scan{
		registry: reg,
		SegmentsRead: f.NewCounter(prometheus.CounterOpts{
			Name: "sfsquery_segments_read_total",
			Help: "Journal segments opened",
		}),
		RecordsRead: f.NewCounter(prometheus.CounterOpts{
			Name: "sfsquery_records_read_total",
			Help: "Journal records parsed",
		}),
		RecordsIncluded: f.NewCounter(prometheus.CounterOpts{
			Name: "sfsquery_records_included_total",
			Help: "Records inside the time window",
		}),
		RecordsSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "sfsquery_records_skipped_total",
			Help: "Records before the window start",
		}),
		Stopped: f.NewGauge(prometheus.GaugeOpts{
			Name: "sfsquery_scan_stopped_early",
			Help: "1 if the scan ended at the window end",
		}),
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sfsquery_operations_total",
			Help: "Included records by operation",
		}, []string{"operation"}),
		WrittenBytes: f.NewGauge(prometheus.GaugeOpts{
			Name: "sfsquery_written_bytes",
			Help: "Estimated bytes written over all inode lifetimes",
		}),
		InodeLifetimes: f.NewGauge(prometheus.GaugeOpts{
			Name: "sfsquery_inode_lifetimes",
			Help: "Inode lifetimes in history after the scan",
		}),
		WindowStartEpoch: f.NewGauge(prometheus.GaugeOpts{
			Name: "sfsquery_window_start_seconds",
			Help: "Window start as Unix time",
		}),
		WindowEndEpoch: f.NewGauge(prometheus.GaugeOpts{
			Name: "sfsquery_window_end_seconds",
			Help: "Window end as Unix time",
		}),
	}
}

// Registry returns the gatherer holding the scan metrics.
func (s *Scan) Registry() *prometheus.Registry {
	return s.registry
}

// WriteTextfile writes the metrics in text exposition format to path.
func (s *Scan) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, s.registry)
}

// ObserveSegment counts an opened segment.
func (s *Scan) ObserveSegment() {
	if s == nil {
		return
	}
	s.SegmentsRead.Inc()
}

// ObserveRecord counts a parsed record.
func (s *Scan) ObserveRecord() {
	if s == nil {
		return
	}
	s.RecordsRead.Inc()
}

// ObserveIncluded counts an included record of op.
func (s *Scan) ObserveIncluded(op string) {
	if s == nil {
		return
	}
	s.RecordsIncluded.Inc()
	s.Operations.WithLabelValues(op).Inc()
}

// ObserveSkipped counts a record before the window start.
func (s *Scan) ObserveSkipped() {
	if s == nil {
		return
	}
	s.RecordsSkipped.Inc()
}

// ObserveStop marks an early stop.
func (s *Scan) ObserveStop() {
	if s == nil {
		return
	}
	s.Stopped.Set(1)
}

// ObserveTotals sets the end-of-scan gauges.
func (s *Scan) ObserveTotals(written uint64, lifetimes int, start, end int64) {
	if s == nil {
		return
	}
	s.WrittenBytes.Set(float64(written))
	s.InodeLifetimes.Set(float64(lifetimes))
	s.WindowStartEpoch.Set(float64(start))
	s.WindowEndEpoch.Set(float64(end))
}
