// Package metrics agrupa las métricas Prometheus del dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados de una lectura de caché
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Collector contiene todas las métricas de la aplicación.
// Cada instancia tiene su propio registry; no hay registro global.
type Collector struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Caché
	CacheLookups *prometheus.CounterVec
	CacheErrors  *prometheus.CounterVec

	// Negocio
	PostsPublished    prometheus.Counter
	EngagementUpdates prometheus.Counter
}

// NewCollector crea un collector con el namespace dado
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Cache lookups by key family and result",
			},
			[]string{"family", "result"},
		),
		CacheErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_errors_total",
				Help:      "Cache write and delete failures",
			},
			[]string{"op"},
		),
		PostsPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "posts_published_total",
				Help:      "Total number of posts published",
			},
		),
		EngagementUpdates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engagement_updates_total",
				Help:      "Total number of engagement updates",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.CacheLookups,
		c.CacheErrors,
		c.PostsPublished,
		c.EngagementUpdates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry expone el registry para tests
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler sirve las métricas en formato Prometheus
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveCacheLookup cuenta una lectura de caché. Seguro con receptor nil.
func (c *Collector) ObserveCacheLookup(family, result string) {
	if c == nil {
		return
	}
	c.CacheLookups.WithLabelValues(family, result).Inc()
}

// ObserveCacheError cuenta un fallo de escritura o borrado
func (c *Collector) ObserveCacheError(op string) {
	if c == nil {
		return
	}
	c.CacheErrors.WithLabelValues(op).Inc()
}

// IncPostsPublished cuenta una publicación
func (c *Collector) IncPostsPublished() {
	if c == nil {
		return
	}
	c.PostsPublished.Inc()
}

// IncEngagementUpdates cuenta una actualización de engagement
func (c *Collector) IncEngagementUpdates() {
	if c == nil {
		return
	}
	c.EngagementUpdates.Inc()
}
