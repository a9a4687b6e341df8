// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/coloratura-app/coloratura/internal/config"
	"github.com/coloratura-app/coloratura/internal/logging"
)

// Middleware builds the per-group middleware stacks from the security
// configuration: CORS, tiered rate limits, and identity resolution.
type Middleware struct {
	config config.SecurityConfig
	cors   func(http.Handler) http.Handler
}

// NewMiddleware creates the middleware factory.
func NewMiddleware(cfg config.SecurityConfig) *Middleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", devUserHeader},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	return &Middleware{
		config: cfg,
		cors:   corsHandler,
	}
}

// CORS returns the CORS middleware. It must be global so OPTIONS
// preflights are answered before routing.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// rateLimitTier describes one endpoint class's request budget.
type rateLimitTier struct {
	Requests int
	Window   time.Duration
}

// Endpoint-class budgets. Reads get the configured default; writes and
// WebSocket upgrades are tighter, health probes looser.
var (
	tierWrite     = rateLimitTier{Requests: 30, Window: time.Minute}
	tierWebSocket = rateLimitTier{Requests: 30, Window: time.Minute}
	tierHealth    = rateLimitTier{Requests: 1000, Window: time.Minute}
)

// rateLimitHandler writes the envelope clients expect instead of
// httprate's bare 429.
func rateLimitHandler(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded, retry later")
}

func (m *Middleware) limit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.config.DisableRateLimit {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitHandler),
	)
}

// RateLimit returns the default per-IP limiter for read endpoints,
// using the configured budget.
func (m *Middleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.config.RateLimitRequests, m.config.RateLimitWindow)
}

// RateLimitWrite returns the limiter for mutating endpoints.
func (m *Middleware) RateLimitWrite() func(http.Handler) http.Handler {
	return m.limit(tierWrite.Requests, tierWrite.Window)
}

// RateLimitWebSocket returns the limiter for WebSocket upgrades. This
// bounds the upgrade rate, not established connections.
func (m *Middleware) RateLimitWebSocket() func(http.Handler) http.Handler {
	return m.limit(tierWebSocket.Requests, tierWebSocket.Window)
}

// RateLimitHealth returns the permissive limiter for health probes, so
// monitoring can poll frequently without the endpoint being a free
// amplification target.
func (m *Middleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.limit(tierHealth.Requests, tierHealth.Window)
}

// SecurityHeaders adds the standard API response headers. CSP is
// omitted: every endpoint here returns JSON, not HTML.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDWithLogging assigns every request an id, echoes it in the
// X-Request-ID header, and binds it into the logging context so every
// log line downstream carries it.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			ctx = logging.ContextWithLogger(ctx, logging.With().Str("request_id", requestID).Logger())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
