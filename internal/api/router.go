// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/coloratura-app/coloratura/internal/middleware"
)

// Router assembles the HTTP surface from the handler set and the
// middleware factory.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a router over the given handlers.
func NewRouter(handler *Handler, mw *Middleware) *Router {
	return &Router{
		handler:    handler,
		middleware: mw,
	}
}

// chiHandlerFunc adapts http.HandlerFunc middleware to chi's
// func(http.Handler) http.Handler shape.
func chiHandlerFunc(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup builds the route tree. Groups differ only in rate-limit tier
// and whether a mutating budget applies; identity resolution runs once
// for the whole /api/v1 subtree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global stack, applied to every route in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())

	// Health probes: permissive rate limit, no identity needed.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimitHealth())
		r.Use(SecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Catalog reads.
	r.Route("/api/v1/pages", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(chiHandlerFunc(middleware.PrometheusMetrics))
		r.Use(chiHandlerFunc(middleware.Compression))
		r.Use(router.middleware.Identity())

		r.Get("/", router.handler.ListPages)
		r.Get("/{id}", router.handler.GetPage)

		// Download is the one mutating catalog operation; it gets the
		// write budget on top of the group's read budget.
		r.With(router.middleware.RateLimitWrite()).
			Post("/{id}/download", router.handler.Download)
	})

	// Recommendations. Identity is optional: anonymous callers fall
	// through to popularity results.
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(chiHandlerFunc(middleware.PrometheusMetrics))
		r.Use(router.middleware.Identity())

		r.Get("/", router.handler.Recommendations)
	})

	// Multilingual character search.
	r.Route("/api/v1/search", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(chiHandlerFunc(middleware.PrometheusMetrics))

		r.Post("/characters", router.handler.SearchCharacters)
	})

	// Newsletter signups are writes and unauthenticated; the tighter
	// write budget is the only brake on abuse.
	r.Route("/api/v1/newsletter", func(r chi.Router) {
		r.Use(router.middleware.RateLimitWrite())
		r.Use(SecurityHeaders())
		r.Use(chiHandlerFunc(middleware.PrometheusMetrics))

		r.Post("/subscribe", router.handler.NewsletterSubscribe)
		r.Post("/unsubscribe", router.handler.NewsletterUnsubscribe)
	})

	// Live download feed.
	r.Route("/api/v1/live", func(r chi.Router) {
		r.Use(router.middleware.RateLimitWebSocket())
		r.Get("/", router.handler.LiveFeed)
	})

	// Observability.
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))

	return r
}
