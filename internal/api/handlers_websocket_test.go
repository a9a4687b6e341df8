// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLiveFeedWithoutHub(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/live", nil)
	w := httptest.NewRecorder()
	h.LiveFeed(w, req)

	requireErrorCode(t, w, http.StatusServiceUnavailable, CodeUnavailable)
}

func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{"no origin header", []string{"https://coloratura.example"}, "", true},
		{"listed origin", []string{"https://coloratura.example"}, "https://coloratura.example", true},
		{"wildcard", []string{"*"}, "https://anywhere.example", true},
		{"unlisted origin", []string{"https://coloratura.example"}, "https://evil.example", false},
		{"empty allow list", nil, "https://anywhere.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestHandler(t)
			h.config.Security.CORSOrigins = tt.origins

			req := httptest.NewRequest(http.MethodGet, "/api/v1/live", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			if got := h.checkWebSocketOrigin(req); got != tt.want {
				t.Errorf("checkWebSocketOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
