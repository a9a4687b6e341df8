// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coloratura-app/coloratura/internal/catalog"
	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/models"
)

// ListPages handles GET /api/v1/pages.
//
// @Summary List coloring pages
// @Description Returns catalog pages filtered by age group, difficulty, character, theme, and keywords, with offset pagination.
// @Tags Catalog
// @Produce json
// @Param ageGroup query string false "Audience tier" Enums(child, teen, adult)
// @Param difficulty query string false "Line-art difficulty" Enums(easy, medium, hard)
// @Param character query string false "Character name filter (case-insensitive)"
// @Param theme query string false "Theme filter (case-insensitive)"
// @Param keywords query string false "Comma-separated keywords; any match keeps the page"
// @Param sort query string false "Sort order" Enums(downloads, id)
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Result offset"
// @Success 200 {object} APIResponse{data=[]models.ColoringPage}
// @Failure 400 {object} APIResponse
// @Router /api/v1/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query, err := h.parsePageQuery(r)
	if err != nil {
		respondParamError(w, r, err)
		return
	}

	// One extra row tells us whether another page exists without a
	// second count scan.
	wanted := query.Limit
	query.Limit = wanted + 1

	pages, err := h.catalog.QueryPages(r.Context(), query)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("catalog query failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to query catalog")
		return
	}

	hasMore := len(pages) > wanted
	if hasMore {
		pages = pages[:wanted]
	}

	meta := newMeta(r, start)
	meta.Pagination = &Pagination{
		Count:   len(pages),
		Offset:  query.Offset,
		Limit:   wanted,
		HasMore: hasMore,
	}
	respondSuccess(w, r, http.StatusOK, pages, meta)
}

// parsePageQuery builds a catalog query from the request parameters.
func (h *Handler) parsePageQuery(r *http.Request) (catalog.PageQuery, error) {
	q := r.URL.Query()

	limit, err := parseLimit(r, h.config.API.DefaultPageSize, h.config.API.MaxPageSize)
	if err != nil {
		return catalog.PageQuery{}, err
	}
	offset, err := parseOffset(r)
	if err != nil {
		return catalog.PageQuery{}, err
	}

	query := catalog.PageQuery{
		Character:   q.Get("character"),
		Theme:       q.Get("theme"),
		AnyKeywords: parseCSV(q.Get("keywords")),
		Offset:      offset,
		Limit:       limit,
	}

	if raw := q.Get("ageGroup"); raw != "" {
		group := models.AgeGroup(raw)
		if !models.IsValidAgeGroup(group) {
			return catalog.PageQuery{}, paramErrorf("unknown age group %q", raw)
		}
		query.AgeGroup = group
	}

	if raw := q.Get("difficulty"); raw != "" {
		difficulty := models.Difficulty(raw)
		if !models.IsValidDifficulty(difficulty) {
			return catalog.PageQuery{}, paramErrorf("unknown difficulty %q", raw)
		}
		query.Difficulties = []models.Difficulty{difficulty}
	}

	switch q.Get("sort") {
	case "", "id":
	case "downloads":
		query.SortByDownloads = true
	default:
		return catalog.PageQuery{}, paramErrorf("unknown sort %q", q.Get("sort"))
	}

	return query, nil
}

// GetPage handles GET /api/v1/pages/{id}.
//
// @Summary Get one coloring page
// @Tags Catalog
// @Produce json
// @Param id path string true "Page id"
// @Success 200 {object} APIResponse{data=models.ColoringPage}
// @Failure 404 {object} APIResponse
// @Router /api/v1/pages/{id} [get]
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, "Page id is required")
		return
	}

	page, err := h.catalog.GetPage(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrPageNotFound) {
			respondError(w, r, http.StatusNotFound, CodeNotFound, "Page not found")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("page_id", id).Msg("page lookup failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to load page")
		return
	}

	respondSuccess(w, r, http.StatusOK, page, nil)
}
