package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	requests    *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	finalPrice  *prometheus.HistogramVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		requests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentrate_price_requests_total",
				Help: "Total number of price requests by category",
			},
			[]string{"category"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentrate_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		finalPrice: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rentrate_final_price",
				Help:    "Distribution of recommended prices by category",
				Buckets: prometheus.ExponentialBuckets(50, 1.6, 10),
			},
			[]string{"category"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rentrate_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPriceRequest counts a price request for a category.
func (r *Recorder) RecordPriceRequest(category string) {
	r.requests.WithLabelValues(category).Inc()
}

// RecordFinalPrice records a recommended price.
func (r *Recorder) RecordFinalPrice(category string, price float64) {
	r.finalPrice.WithLabelValues(category).Observe(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
