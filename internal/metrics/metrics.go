// Package metrics counts what a translation run did and writes the counters
// in the Prometheus textfile-collector format, so a node exporter can pick
// them up after scheduled batch runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"codeberg.org/snonux/hindiname/internal/translation"
)

// Collector owns a private registry with the hindiname counters. It is safe
// for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	namesTotal       *prometheus.CounterVec
	flaggedTotal     *prometheus.CounterVec
	keptTotal        prometheus.Counter
	suggestionsTotal *prometheus.CounterVec
	batchDuration    prometheus.Gauge
	lastRun          prometheus.Gauge
}

// NewCollector creates a collector with all metrics registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		namesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hindiname_names_translated_total",
				Help: "Total number of facility names translated",
			},
			[]string{"kind", "source"},
		),
		flaggedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hindiname_names_flagged_total",
				Help: "Total number of translations that still contain Latin letters",
			},
			[]string{"kind"},
		),
		keptTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hindiname_rows_kept_total",
				Help: "Total number of batch rows whose existing Hindi value was kept",
			},
		),
		suggestionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hindiname_suggestions_total",
				Help: "Total number of spelling suggestion requests",
			},
			[]string{"provider", "status"},
		),
		batchDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hindiname_batch_duration_seconds",
				Help: "Duration of the last batch run in seconds",
			},
		),
		lastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hindiname_batch_last_run_timestamp_seconds",
				Help: "Unix time the last batch run finished",
			},
		),
	}
}

// Observe records one translated row. Kept rows count towards the kept
// counter and are not counted as translated.
func (c *Collector) Observe(res translation.Result, kept bool) {
	kind := res.Kind.String()
	if kept {
		c.keptTotal.Inc()
	} else {
		c.namesTotal.WithLabelValues(kind, string(res.Source)).Inc()
	}
	if res.Flagged {
		c.flaggedTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveSuggestion records the outcome of one provider request.
func (c *Collector) ObserveSuggestion(provider string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.suggestionsTotal.WithLabelValues(provider, status).Inc()
}

// ObserveBatch records the duration of a finished batch run.
func (c *Collector) ObserveBatch(d time.Duration) {
	c.batchDuration.Set(d.Seconds())
	c.lastRun.SetToCurrentTime()
}

// WriteTextfile writes all metrics to path. The file is written to a
// temporary name and renamed, so collectors never read a partial file.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
