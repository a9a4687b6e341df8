// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/websocket"
)

// LiveFeed handles GET /api/v1/live, upgrading the connection to a
// WebSocket on the download activity hub.
//
// @Summary Live download feed
// @Description Upgrades to a WebSocket streaming download, stats_update, and digest_published messages.
// @Tags Live
// @Success 101 "Switching Protocols"
// @Failure 503 {object} APIResponse
// @Router /api/v1/live [get]
func (h *Handler) LiveFeed(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeUnavailable, "Live feed is not running")
		return
	}

	upgrader := gorilla.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}

// checkWebSocketOrigin validates the Origin header against the
// configured CORS origins. Browser clients always send Origin; a
// missing header means a non-browser client, which is allowed since
// the feed carries no credentials.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.config == nil {
		return true
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", origin).Msg("websocket connection rejected from unlisted origin")
	return false
}
