package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the domain Metrics interface using Prometheus.
type Recorder struct {
	forecasts   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	confidence  *prometheus.GaugeVec
	accuracy    *prometheus.HistogramVec
	latency     *prometheus.HistogramVec
}

// New registers and returns the engine metrics.
func New() *Recorder {
	return &Recorder{
		forecasts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastd_forecasts_total",
				Help: "Total number of forecasts generated",
			},
			[]string{"metric", "method"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastd_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "forecastd_last_confidence",
				Help: "Confidence of the most recent forecast per method",
			},
			[]string{"method"},
		),
		accuracy: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecastd_accuracy_percent",
				Help:    "Observed forecast accuracy percentages",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"metric"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecastd_operation_duration_seconds",
				Help:    "Duration of engine operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordForecast(metric, method string) {
	r.forecasts.WithLabelValues(metric, method).Inc()
}

func (r *Recorder) RecordConfidence(method string, confidence float64) {
	r.confidence.WithLabelValues(method).Set(confidence)
}

func (r *Recorder) RecordAccuracy(metric string, accuracy float64) {
	r.accuracy.WithLabelValues(metric).Observe(accuracy)
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
