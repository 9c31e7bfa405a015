package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the service's collectors, kept apart from the global default registry.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solarhub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "solarhub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	packagesGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solarhub",
			Subsystem: "packages",
			Name:      "generated_total",
			Help:      "Packages generated, by template tier.",
		},
		[]string{"tier"},
	)

	packageFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "solarhub",
			Subsystem: "packages",
			Name:      "generation_failures_total",
			Help:      "Package generation requests that failed.",
		},
	)

	packageCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solarhub",
			Subsystem: "packages",
			Name:      "cache_lookups_total",
			Help:      "Package cache lookups by result.",
		},
		[]string{"result"},
	)

	leadsImported = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "solarhub",
			Subsystem: "leads",
			Name:      "imported_total",
			Help:      "Leads inserted by lead-file imports.",
		},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, packagesGenerated, packageFailures, packageCacheHits, leadsImported)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency keyed by the matched route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordPackageGenerated(tier string) {
	packagesGenerated.WithLabelValues(tier).Inc()
}

func RecordPackageFailure() {
	packageFailures.Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		packageCacheHits.WithLabelValues("hit").Inc()
		return
	}
	packageCacheHits.WithLabelValues("miss").Inc()
}

func RecordLeadsImported(n int) {
	leadsImported.Add(float64(n))
}
