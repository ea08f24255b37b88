package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pollsTotal     *prometheus.CounterVec
	pollErrors     *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
	pollDuration   *prometheus.HistogramVec
	proxyRequests  *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pollsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "baratcx_polls_total",
				Help: "Total number of completed poll cycles",
			},
			[]string{"kind", "source"},
		),
		pollErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "baratcx_poll_errors_total",
				Help: "Total number of failed fetch attempts",
			},
			[]string{"kind", "reason"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "baratcx_fallbacks_total",
				Help: "Total number of synthetic substitutions",
			},
			[]string{"kind"},
		),
		pollDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "baratcx_poll_duration_seconds",
				Help:    "Duration of fetch attempts in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		proxyRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "baratcx_proxy_requests_total",
				Help: "Total number of signing proxy requests",
			},
			[]string{"status"},
		),
	}
}

// RecordPoll records one completed poll cycle and the source that served it.
func (r *Recorder) RecordPoll(kind, source string) {
	r.pollsTotal.WithLabelValues(kind, source).Inc()
}

// RecordPollError records a failed fetch attempt.
func (r *Recorder) RecordPollError(kind, reason string) {
	r.pollErrors.WithLabelValues(kind, reason).Inc()
}

// RecordFallback records a synthetic substitution.
func (r *Recorder) RecordFallback(kind string) {
	r.fallbacksTotal.WithLabelValues(kind).Inc()
}

// RecordPollDuration records fetch latency in seconds.
func (r *Recorder) RecordPollDuration(kind string, seconds float64) {
	r.pollDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordProxyRequest records a signing proxy request by response status.
func (r *Recorder) RecordProxyRequest(status int) {
	r.proxyRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}
