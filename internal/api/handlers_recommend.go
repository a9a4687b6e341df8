// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
)

// maxRecommendLimit caps one recommendation response. Matches the
// engine's configured maximum; larger requests are clamped, not
// rejected.
const maxRecommendLimit = 100

// Recommendations handles GET /api/v1/recommendations.
//
// The user id comes from the resolved identity, never from query
// parameters. Anonymous callers get popularity results, optionally
// scoped by ageGroup.
//
// @Summary Personalized coloring page recommendations
// @Description Tiered recommendation pipeline: collaborative filtering, then content-based filtering, then popularity fallback. Anonymous requests always use popularity.
// @Tags Recommendations
// @Produce json
// @Param ageGroup query string false "Audience override" Enums(child, teen, adult)
// @Param limit query int false "Result size (1-100, default 20)"
// @Param excludeDownloaded query bool false "Drop pages the caller already downloaded"
// @Param characters query string false "Comma-separated character substrings to keep"
// @Param difficulties query string false "Comma-separated difficulties to keep"
// @Param keywords query string false "Comma-separated keyword substrings to keep"
// @Success 200 {object} APIResponse{data=recommend.Response}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Security BearerAuth
// @Router /api/v1/recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRecommendRequest(r)
	if err != nil {
		respondParamError(w, r, err)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), req)
	if err != nil {
		h.respondRecommendError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, resp, nil)
}

// parseRecommendRequest maps query parameters onto the engine request.
// Enum validation belongs to the engine; only parameter shape errors
// are raised here.
func (h *Handler) parseRecommendRequest(r *http.Request) (recommend.Request, error) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return recommend.Request{}, paramErrorf("limit must be an integer, got %q", raw)
		}
		if n < 1 {
			return recommend.Request{}, paramErrorf("limit must be at least 1, got %d", n)
		}
		if n > maxRecommendLimit {
			n = maxRecommendLimit
		}
		limit = n
	}

	excludeDownloaded := false
	if raw := q.Get("excludeDownloaded"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return recommend.Request{}, paramErrorf("excludeDownloaded must be a boolean, got %q", raw)
		}
		excludeDownloaded = v
	}

	req := recommend.Request{
		AgeGroup:          models.AgeGroup(q.Get("ageGroup")),
		Limit:             limit,
		ExcludeDownloaded: excludeDownloaded,
		RequestID:         logging.RequestIDFromContext(r.Context()),
	}

	if id, ok := IdentityFromContext(r.Context()); ok {
		req.UserID = id.UserID
	}

	characters := parseCSV(q.Get("characters"))
	difficulties := parseCSV(q.Get("difficulties"))
	keywords := parseCSV(q.Get("keywords"))
	if len(characters) > 0 || len(difficulties) > 0 || len(keywords) > 0 {
		prefs := &models.Preferences{
			Characters: characters,
			Keywords:   keywords,
		}
		for _, d := range difficulties {
			prefs.Difficulties = append(prefs.Difficulties, models.Difficulty(d))
		}
		req.Preferences = prefs
	}

	return req, nil
}

// respondRecommendError maps engine sentinels onto the error taxonomy.
func (h *Handler) respondRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest, CodeValidationFailed, err.Error())
	case errors.Is(err, recommend.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "User profile not found")
	case errors.Is(err, recommend.ErrAllStrategiesExhausted):
		logging.Ctx(r.Context()).Error().Err(err).Msg("all recommendation strategies exhausted")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Recommendations are unavailable")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("recommendation failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to generate recommendations")
	}
}
