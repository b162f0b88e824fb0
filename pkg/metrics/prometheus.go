package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus. The error
// counters exist so an operator can tell "quiet because no new bar" from
// "quiet because fetch has been failing for an hour".
type Recorder struct {
	cycles        *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	flipsTotal    *prometheus.CounterVec
	notifications *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cycles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpull_cycles_total",
				Help: "Evaluation cycles by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		flipsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpull_trend_flips_total",
				Help: "Confirmed trend flips by direction",
			},
			[]string{"trend"},
		),
		notifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpull_notifications_total",
				Help: "Outbound alert deliveries by result",
			},
			[]string{"result"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendpull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCycle records one evaluation cycle outcome.
func (r *Recorder) RecordCycle(outcome string) {
	r.cycles.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordFlip records a confirmed trend flip.
func (r *Recorder) RecordFlip(trend string) {
	r.flipsTotal.WithLabelValues(trend).Inc()
}

// RecordNotification records an alert delivery attempt result.
func (r *Recorder) RecordNotification(result string) {
	r.notifications.WithLabelValues(result).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
