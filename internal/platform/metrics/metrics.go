package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the service's Prometheus metrics on a custom
// registry so that tests can instantiate it without collisions.
type MetricsManager struct {
	Registry          *prometheus.Registry
	CarsCreatedTotal  prometheus.Counter
	CarUpdatesTotal   prometheus.Counter
	CarDeletesTotal   prometheus.Counter
	SearchesTotal     prometheus.Counter
	HTTPErrorsTotal   *prometheus.CounterVec
	HTTPLatencySecond *prometheus.HistogramVec
}

// NewMetricsManager initializes and registers the service metrics.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	carsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "cars_created_total",
		Help:      "Total number of cars created.",
	})
	carUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "car_updates_total",
		Help:      "Total number of cars updated.",
	})
	carDeletesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "car_deletes_total",
		Help:      "Total number of cars deleted.",
	})
	searchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "searches_total",
		Help:      "Total number of indexed search requests.",
	})
	httpErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP error responses by route and status.",
	}, []string{"route", "status"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		carsCreatedTotal,
		carUpdatesTotal,
		carDeletesTotal,
		searchesTotal,
		httpErrorsTotal,
		httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:          registry,
		CarsCreatedTotal:  carsCreatedTotal,
		CarUpdatesTotal:   carUpdatesTotal,
		CarDeletesTotal:   carDeletesTotal,
		SearchesTotal:     searchesTotal,
		HTTPErrorsTotal:   httpErrorsTotal,
		HTTPLatencySecond: httpLatency,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
