// Package http assembles the service's HTTP surface: route tree, middleware
// chain, and the server lifecycle.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/viz-satellite/internal/interfaces/http/handlers"
	"github.com/turtacn/viz-satellite/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies for the
// route tree.
type RouterConfig struct {
	VolcanoHandler *handlers.VolcanoHandler
	CacheHandler   *handlers.CacheHandler
	HealthHandler  *handlers.HealthHandler

	CORSMiddleware    *middleware.CORSMiddleware
	LoggingMiddleware *middleware.LoggingMiddleware
	MetricsMiddleware *middleware.MetricsMiddleware

	MetricsCollector prometheus.MetricsCollector

	// RequestTimeout bounds the whole request, pipeline included. Zero
	// disables the deadline.
	RequestTimeout time.Duration
}

// NewRouter constructs the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	if cfg.CORSMiddleware != nil {
		r.Use(cfg.CORSMiddleware.Handler)
	}
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware.Handler)
	}
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Handler)
	}

	if cfg.HealthHandler != nil {
		r.Get("/", cfg.HealthHandler.Root)
		r.Get("/health", cfg.HealthHandler.Health)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.VolcanoHandler != nil {
			api.Get("/volcano-data", cfg.VolcanoHandler.Get)
			api.Post("/volcano-data", cfg.VolcanoHandler.Post)
		}
		if cfg.CacheHandler != nil {
			api.Route("/cache", func(cr chi.Router) {
				cr.Get("/status", cfg.CacheHandler.Status)
				cr.Post("/warm", cfg.CacheHandler.Warm)
				cr.Post("/clear", cfg.CacheHandler.Clear)
			})
		}
	})

	return r
}
