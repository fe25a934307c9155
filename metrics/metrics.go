package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors on a private
// registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	adsMutations   *prometheus.CounterVec
	imagesUploaded prometheus.Counter
	imageBytes     prometheus.Histogram
	authDenials    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ads_platform",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ads_platform",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ads_platform",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		adsMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ads_platform",
			Subsystem: "domain",
			Name:      "mutations_total",
			Help:      "Successful create/update/delete operations per entity.",
		}, []string{"entity", "op"}),
		imagesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ads_platform",
			Subsystem: "images",
			Name:      "uploads_total",
			Help:      "Total number of ad images stored.",
		}),
		imageBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ads_platform",
			Subsystem: "images",
			Name:      "upload_bytes",
			Help:      "Size of stored ad images.",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 10), // 16KiB to ~8MiB
		}),
		authDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ads_platform",
			Subsystem: "domain",
			Name:      "forbidden_total",
			Help:      "Mutations rejected because the caller is neither author nor admin.",
		}, []string{"entity"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.adsMutations,
		m.imagesUploaded,
		m.imageBytes,
		m.authDenials,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RequestStarted() {
	m.httpInFlight.Inc()
}

func (m *Metrics) RequestFinished(method, route, status string, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Mutation records a successful create/update/delete. Safe on a nil receiver.
func (m *Metrics) Mutation(entity, op string) {
	if m == nil {
		return
	}
	m.adsMutations.WithLabelValues(entity, op).Inc()
}

// ImageStored records an uploaded image. Safe on a nil receiver.
func (m *Metrics) ImageStored(size int) {
	if m == nil {
		return
	}
	m.imagesUploaded.Inc()
	m.imageBytes.Observe(float64(size))
}

// Forbidden records a rejected mutation. Safe on a nil receiver.
func (m *Metrics) Forbidden(entity string) {
	if m == nil {
		return
	}
	m.authDenials.WithLabelValues(entity).Inc()
}
