// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coloratura-app/coloratura/internal/catalog"
	"github.com/coloratura-app/coloratura/internal/logging"
)

// downloadSource tags downloads recorded through the public API, as
// opposed to imports or backfills.
const downloadSource = "web"

// DownloadReceipt is the response body for an accepted download.
type DownloadReceipt struct {
	PageID string `json:"pageId"`

	// Accepted means the download event was queued; the interaction
	// log and download counter update asynchronously.
	Accepted bool `json:"accepted"`

	// Remaining is the caller's remaining daily allowance, -1 when the
	// allowance is unlimited or degraded.
	Remaining int `json:"remaining"`
	Limit     int `json:"limit,omitempty"`
}

// Download handles POST /api/v1/pages/{id}/download.
//
// The download is recorded through the event pipeline, not inline: the
// handler verifies the page and the caller's allowance, queues a
// download event, and returns 202. Counter and history updates land
// asynchronously.
//
// @Summary Record a page download
// @Tags Catalog
// @Produce json
// @Param id path string true "Page id"
// @Success 202 {object} APIResponse{data=DownloadReceipt}
// @Failure 401 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 429 {object} APIResponse
// @Security BearerAuth
// @Router /api/v1/pages/{id}/download [post]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	pageID := chi.URLParam(r, "id")
	if pageID == "" {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, "Page id is required")
		return
	}

	if _, err := h.catalog.GetPage(r.Context(), pageID); err != nil {
		if errors.Is(err, catalog.ErrPageNotFound) {
			respondError(w, r, http.StatusNotFound, CodeNotFound, "Page not found")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("page_id", pageID).Msg("page lookup failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to load page")
		return
	}

	decision := h.allowance.Check(r.Context(), id.UserID)
	if !decision.Allowed {
		if !decision.RetryAt.IsZero() {
			retryAfter := int(time.Until(decision.RetryAt).Seconds()) + 1
			if retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			}
		}
		respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, "Daily download allowance exhausted")
		return
	}

	if err := h.publisher.PublishDownload(r.Context(), id.UserID, pageID, downloadSource); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("page_id", pageID).
			Str("user_id", id.UserID).
			Msg("failed to publish download event")
		respondError(w, r, http.StatusServiceUnavailable, CodeUnavailable, "Download recording is temporarily unavailable")
		return
	}

	receipt := DownloadReceipt{
		PageID:    pageID,
		Accepted:  true,
		Remaining: decision.Remaining,
		Limit:     decision.Limit,
	}
	if decision.Unlimited || decision.Degraded {
		receipt.Remaining = -1
	}
	respondSuccess(w, r, http.StatusAccepted, receipt, nil)
}
