// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coloratura-app/coloratura/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitWrite(t *testing.T) {
	t.Parallel()

	m := NewMiddleware(config.SecurityConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	})
	handler := m.RateLimitWrite()(okHandler())

	var rejected int
	for i := 0; i < tierWrite.Requests+5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/newsletter/subscribe", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code == http.StatusTooManyRequests {
			rejected++
			requireErrorCode(t, w, http.StatusTooManyRequests, CodeRateLimited)
		}
	}

	if rejected != 5 {
		t.Errorf("Expected 5 rejected requests, got %d", rejected)
	}
}

func TestRateLimitKeyedByIP(t *testing.T) {
	t.Parallel()

	m := NewMiddleware(config.SecurityConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	})
	handler := m.RateLimitWrite()(okHandler())

	// Exhaust one client's budget.
	for i := 0; i < tierWrite.Requests; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "203.0.113.8:1234"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// A different client still gets through.
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for unrelated client, got %d", w.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()

	m := NewMiddleware(config.SecurityConfig{DisableRateLimit: true})
	handler := m.RateLimitWrite()(okHandler())

	for i := 0; i < tierWrite.Requests*2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "203.0.113.10:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Request %d rejected with limiting disabled: %d", i, w.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	t.Run("plain http", func(t *testing.T) {
		handler := SecurityHeaders()(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		want := map[string]string{
			"X-Content-Type-Options": "nosniff",
			"X-Frame-Options":        "DENY",
			"Referrer-Policy":        "strict-origin-when-cross-origin",
		}
		for header, value := range want {
			if got := w.Header().Get(header); got != value {
				t.Errorf("%s = %q, want %q", header, got, value)
			}
		}
		if w.Header().Get("Strict-Transport-Security") != "" {
			t.Error("HSTS must not be set on plain HTTP")
		}
	})

	t.Run("behind tls-terminating proxy", func(t *testing.T) {
		handler := SecurityHeaders()(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Header().Get("Strict-Transport-Security") == "" {
			t.Error("Expected HSTS when the proxy reports https")
		}
	})
}

func TestRequestIDWithLogging(t *testing.T) {
	t.Parallel()

	t.Run("generates an id", func(t *testing.T) {
		handler := RequestIDWithLogging()(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Header().Get("X-Request-ID") == "" {
			t.Error("Expected a generated X-Request-ID")
		}
	})

	t.Run("echoes the caller's id", func(t *testing.T) {
		handler := RequestIDWithLogging()(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-supplied-id")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "client-supplied-id" {
			t.Errorf("X-Request-ID = %q, want client-supplied-id", got)
		}
	})

	t.Run("distinct ids per request", func(t *testing.T) {
		handler := RequestIDWithLogging()(okHandler())
		seen := map[string]bool{}
		for i := 0; i < 10; i++ {
			req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/req-%d", i), nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			id := w.Header().Get("X-Request-ID")
			if seen[id] {
				t.Fatalf("Duplicate request id %q", id)
			}
			seen[id] = true
		}
	})
}
