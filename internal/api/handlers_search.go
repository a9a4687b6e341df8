// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"errors"
	"net/http"

	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/search"
)

// CharacterSearchRequest is the body of POST /api/v1/search/characters.
type CharacterSearchRequest struct {
	// Query is matched against every searchable name of every
	// character, in any language.
	Query string `json:"query" validate:"required,min=1,max=200"`

	// Language is advisory; matching is language-agnostic because
	// searchable names carry no per-name language tags. Logged for
	// query analytics.
	Language string `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`

	// Limit caps results. Zero means the index default.
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// SearchCharacters handles POST /api/v1/search/characters.
//
// @Summary Multilingual character search
// @Description Matches the query against character names and multilingual aliases: exact, prefix, and in-text mention matches, strongest first.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body CharacterSearchRequest true "Search request"
// @Success 200 {object} APIResponse{data=[]search.Result}
// @Failure 400 {object} APIResponse
// @Router /api/v1/search/characters [post]
func (h *Handler) SearchCharacters(w http.ResponseWriter, r *http.Request) {
	var req CharacterSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondParamError(w, r, err)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, verr.Code, verr.Message, verr.Details)
		return
	}

	if !h.searcher.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, CodeUnavailable, "Search index is not ready")
		return
	}

	results, err := h.searcher.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		if errors.Is(err, search.ErrQueryTooShort) {
			respondError(w, r, http.StatusBadRequest, CodeValidationFailed, err.Error())
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("character search failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Search failed")
		return
	}

	if req.Language != "" {
		logging.Ctx(r.Context()).Debug().
			Str("language", req.Language).
			Int("results", len(results)).
			Msg("character search")
	}

	respondSuccess(w, r, http.StatusOK, results, nil)
}
