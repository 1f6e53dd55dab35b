package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	recomputes    *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	storeRecords  prometheus.Gauge
	statsTotal    prometheus.Gauge
	statsAvgPrice prometheus.Gauge
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		recomputes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfwatch_recomputes_total",
				Help: "Total number of stats recomputes by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfwatch_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		notifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfwatch_change_notifications_total",
				Help: "Store change notifications by source (watch or poll)",
			},
			[]string{"source"},
		),
		storeRecords: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "shelfwatch_store_records",
				Help: "Record count observed on the last store read",
			},
		),
		statsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "shelfwatch_stats_total",
				Help: "Item count in the last committed stats value",
			},
		),
		statsAvgPrice: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "shelfwatch_stats_average_price",
				Help: "Average price in the last committed stats value",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelfwatch_recompute_duration_seconds",
				Help:    "Duration of stats recomputes in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
}

// RecordRecompute records one recompute attempt and its duration.
func (r *Recorder) RecordRecompute(outcome string, seconds float64) {
	r.recomputes.WithLabelValues(outcome).Inc()
	r.latency.WithLabelValues(outcome).Observe(seconds)
}

// RecordStoreRead records the size of the record set just read.
func (r *Recorder) RecordStoreRead(records int) {
	r.storeRecords.Set(float64(records))
}

// RecordStats records the last committed stats value.
func (r *Recorder) RecordStats(total int, averagePrice float64) {
	r.statsTotal.Set(float64(total))
	r.statsAvgPrice.Set(averagePrice)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordNotification records a change notification by delivery source.
func (r *Recorder) RecordNotification(source string) {
	r.notifications.WithLabelValues(source).Inc()
}
