package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus collectors on a private registry
type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	generated prometheus.Counter
	reorders  prometheus.Counter
	level     prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calmday_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "calmday_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calmday_schedules_generated_total",
			Help: "Schedules parsed from caregiver text.",
		}),
		reorders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calmday_reorders_total",
			Help: "Card reorder requests applied.",
		}),
		level: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "calmday_schedule_sensory_level",
			Help:    "Mean sensory load of generated schedules.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
	}
	m.registry.MustRegister(m.requests, m.latency, m.generated, m.reorders, m.level)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the response code for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (m *metrics) observe(route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}
