package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/prometheus"
)

// MetricsMiddleware records request counts, latency, and in-flight gauges.
// The path label uses the chi route pattern so parameterized routes do not
// explode label cardinality.
type MetricsMiddleware struct {
	metrics *prometheus.AppMetrics
}

// NewMetricsMiddleware creates a MetricsMiddleware.
func NewMetricsMiddleware(metrics *prometheus.AppMetrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

// Handler is the middleware entry point.
func (m *MetricsMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		m.metrics.HTTPInFlight.WithLabelValues(r.URL.Path).Inc()
		start := time.Now()

		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		m.metrics.HTTPInFlight.WithLabelValues(r.URL.Path).Dec()

		path := r.URL.Path
		if pattern := routePattern(r); pattern != "" {
			path = pattern
		}
		m.metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(elapsed.Seconds())
		m.metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
	})
}

func routePattern(r *http.Request) string {
	ctx := chi.RouteContext(r.Context())
	if ctx == nil {
		return ""
	}
	return ctx.RoutePattern()
}
