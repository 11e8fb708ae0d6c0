// Package metrics exports notifier delivery metrics via Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns the notifier's Prometheus collectors. A nil *Recorder is a
// valid no-op so callers can leave metrics unconfigured without guarding
// every call site.
type Recorder struct {
	deliveries       *prometheus.CounterVec
	deliveryDuration *prometheus.HistogramVec
	thresholdsFired  prometheus.Counter
	progressPercent  prometheus.Gauge
	unitsReported    *prometheus.CounterVec
}

// NewRecorder registers the collectors against the provided registry.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notify_deliveries_total",
			Help: "Notification deliveries partitioned by level, mode, and outcome.",
		}, []string{"level", "mode", "outcome"}),
		deliveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notify_delivery_duration_seconds",
			Help:    "Wall time per delivery attempt partitioned by mode.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}, []string{"mode"}),
		thresholdsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notify_thresholds_fired_total",
			Help: "Progress thresholds crossed, each producing one notification.",
		}),
		progressPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notify_progress_percent",
			Help: "Most recent progress percentage reported.",
		}),
		unitsReported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notify_progress_units_total",
			Help: "Units reported to the progress tracker partitioned by result.",
		}, []string{"result"}),
	}
	for _, collector := range []prometheus.Collector{
		r.deliveries,
		r.deliveryDuration,
		r.thresholdsFired,
		r.progressPercent,
		r.unitsReported,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register notify collector: %w", err)
		}
	}
	return r, nil
}

// ObserveDelivery records one delivery attempt and its latency.
func (r *Recorder) ObserveDelivery(level, mode string, ok bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	r.deliveries.WithLabelValues(level, mode, outcome).Inc()
	r.deliveryDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// ThresholdFired counts one gate crossing.
func (r *Recorder) ThresholdFired() {
	if r == nil {
		return
	}
	r.thresholdsFired.Inc()
}

// SetProgress records the latest progress percentage.
func (r *Recorder) SetProgress(pct float64) {
	if r == nil {
		return
	}
	r.progressPercent.Set(pct)
}

// UnitReported counts one processed unit by result.
func (r *Recorder) UnitReported(succeeded bool) {
	if r == nil {
		return
	}
	result := "success"
	if !succeeded {
		result = "error"
	}
	r.unitsReported.WithLabelValues(result).Inc()
}
