package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	triggersPublished *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	signalValue       *prometheus.GaugeVec
	latency           *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		triggersPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fedpulse_triggers_published_total",
				Help: "Total number of alert triggers sent to a backend",
			},
			[]string{"backend", "signal"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fedpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		signalValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fedpulse_signal_value",
				Help: "Last computed value for a signal",
			},
			[]string{"signal"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fedpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTriggerPublished records a trigger sent to a backend.
func (r *Recorder) RecordTriggerPublished(backend, signal string) {
	r.triggersPublished.WithLabelValues(backend, signal).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSignalValue records the most recent value for a signal.
func (r *Recorder) RecordSignalValue(signal string, value float64) {
	r.signalValue.WithLabelValues(signal).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
