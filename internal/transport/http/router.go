// Package http is the boundary layer: routing, middleware and the JSON
// handlers in front of the aggregation pipeline.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"activity-aggregator/internal/common/logger"
	"activity-aggregator/internal/common/observability"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	RateLimit       int
	RateLimitWindow time.Duration
	Observability   *observability.Observability
}

// NewRouter wires the middleware stack and routes around a handler.
func NewRouter(h *Handler, log logger.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(RequestLogger(log))
	r.Use(SecurityHeaders)
	if opts.Observability != nil {
		r.Use(Telemetry(opts.Observability))
	}
	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, opts.RateLimitWindow))
	}

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/activities", h.Activities)
		r.Get("/suggestions", h.Suggestions)
		r.Get("/providers", h.Providers)
	})

	return r
}
