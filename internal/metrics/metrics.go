package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"clipforge/internal/services"
)

// Recorder holds the conversion metrics on a private registry. A nil
// Recorder discards observations.
type Recorder struct {
	registry *prometheus.Registry

	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	SessionBusy        prometheus.Gauge
	OutputBytesTotal   prometheus.Counter
}

// New registers the clipforge metrics on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clipforge_conversions_total",
				Help: "Total number of conversion submissions by output kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ConversionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clipforge_conversion_duration_seconds",
				Help:    "Wall time spent in the engine per admitted conversion",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"kind"},
		),
		SessionBusy: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "clipforge_session_busy",
				Help: "1 while a conversion is running",
			},
		),
		OutputBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clipforge_output_bytes_total",
				Help: "Total bytes delivered to the output directory",
			},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveConversion counts a finished submission. elapsed is recorded only
// for submissions that reached the engine (elapsed > 0).
func (r *Recorder) ObserveConversion(kind string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = "unknown"
	}
	r.ConversionsTotal.WithLabelValues(kind, services.Outcome(err)).Inc()
	if elapsed > 0 {
		r.ConversionDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

// SetBusy mirrors the session status.
func (r *Recorder) SetBusy(busy bool) {
	if r == nil {
		return
	}
	if busy {
		r.SessionBusy.Set(1)
		return
	}
	r.SessionBusy.Set(0)
}

// AddOutputBytes counts delivered bytes.
func (r *Recorder) AddOutputBytes(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.OutputBytesTotal.Add(float64(n))
}

// WriteTextfile writes the registry in the node_exporter textfile format.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
