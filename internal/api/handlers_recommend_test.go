// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
)

func TestRecommendations(t *testing.T) {
	t.Parallel()

	t.Run("anonymous popularity request", func(t *testing.T) {
		h, _, rec := newTestHandler(t)
		rec.resp = &recommend.Response{
			Items:        makePages(2),
			StrategyUsed: "hybrid_popularity",
			Confidence:   0.5,
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
		w := httptest.NewRecorder()
		h.Recommendations(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if rec.lastReq.UserID != "" {
			t.Errorf("Expected anonymous request, got user %q", rec.lastReq.UserID)
		}
	})

	t.Run("identity comes from context only", func(t *testing.T) {
		h, _, rec := newTestHandler(t)

		// A userId query parameter must never override the identity.
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?userId=mallory", nil)
		req = withIdentity(req, "alice")
		w := httptest.NewRecorder()
		h.Recommendations(w, req)

		if rec.lastReq.UserID != "alice" {
			t.Errorf("Expected user alice, got %q", rec.lastReq.UserID)
		}
	})

	t.Run("parameters forwarded", func(t *testing.T) {
		h, _, rec := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/recommendations?ageGroup=teen&limit=10&excludeDownloaded=true&characters=Luna,Bram&difficulties=easy&keywords=space",
			nil)
		req = withIdentity(req, "alice")
		w := httptest.NewRecorder()
		h.Recommendations(w, req)

		got := rec.lastReq
		if got.AgeGroup != models.AgeGroupTeen {
			t.Errorf("Expected age group teen, got %q", got.AgeGroup)
		}
		if got.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", got.Limit)
		}
		if !got.ExcludeDownloaded {
			t.Error("Expected excludeDownloaded=true")
		}
		if got.Preferences == nil {
			t.Fatal("Expected preferences")
		}
		if len(got.Preferences.Characters) != 2 {
			t.Errorf("Expected 2 characters, got %v", got.Preferences.Characters)
		}
		if len(got.Preferences.Difficulties) != 1 || got.Preferences.Difficulties[0] != models.DifficultyEasy {
			t.Errorf("Unexpected difficulties %v", got.Preferences.Difficulties)
		}
		if len(got.Preferences.Keywords) != 1 || got.Preferences.Keywords[0] != "space" {
			t.Errorf("Unexpected keywords %v", got.Preferences.Keywords)
		}
	})

	t.Run("no preference params means nil preferences", func(t *testing.T) {
		h, _, rec := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
		w := httptest.NewRecorder()
		h.Recommendations(w, req)

		if rec.lastReq.Preferences != nil {
			t.Errorf("Expected nil preferences, got %+v", rec.lastReq.Preferences)
		}
	})

	t.Run("oversized limit clamped", func(t *testing.T) {
		h, _, rec := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?limit=500", nil)
		w := httptest.NewRecorder()
		h.Recommendations(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if rec.lastReq.Limit != maxRecommendLimit {
			t.Errorf("Expected limit %d, got %d", maxRecommendLimit, rec.lastReq.Limit)
		}
	})

	t.Run("invalid parameters", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
		}{
			{"non-integer limit", "?limit=ten"},
			{"zero limit", "?limit=0"},
			{"bad excludeDownloaded", "?excludeDownloaded=maybe"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h, _, _ := newTestHandler(t)
				req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations"+tt.query, nil)
				w := httptest.NewRecorder()
				h.Recommendations(w, req)

				requireErrorCode(t, w, http.StatusBadRequest, CodeBadRequest)
			})
		}
	})

	t.Run("engine error mapping", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"invalid request", recommend.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed},
			{"user not found", recommend.ErrUserNotFound, http.StatusNotFound, CodeNotFound},
			{"strategies exhausted", recommend.ErrAllStrategiesExhausted, http.StatusInternalServerError, CodeInternalError},
			{"unexpected", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h, _, rec := newTestHandler(t)
				rec.err = tt.err

				req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
				w := httptest.NewRecorder()
				h.Recommendations(w, req)

				requireErrorCode(t, w, tt.wantStatus, tt.wantCode)
			})
		}
	})
}
