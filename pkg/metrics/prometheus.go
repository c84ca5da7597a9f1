package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	upstreamTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	itemsTotal    *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered with reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		upstreamTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketatlas_upstream_calls_total",
				Help: "Settled upstream calls by source and result",
			},
			[]string{"source", "result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketatlas_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		itemsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketatlas_news_items_total",
				Help: "Normalized news items returned per source",
			},
			[]string{"source"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketatlas_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordUpstream counts one settled upstream call.
func (r *Recorder) RecordUpstream(source, result string) {
	r.upstreamTotal.WithLabelValues(source, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordItems adds n normalized items for a news source.
func (r *Recorder) RecordItems(source string, n int) {
	r.itemsTotal.WithLabelValues(source).Add(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
