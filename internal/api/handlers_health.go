// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of the full health check.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"databaseConnected"`
	CatalogPages      int     `json:"catalogPages"`
	SearchIndexReady  bool    `json:"searchIndexReady"`
	WebSocketClients  int     `json:"webSocketClients"`
	UptimeSeconds     float64 `json:"uptimeSeconds"`
}

// Health handles GET /api/v1/health.
//
// @Summary Full health status
// @Description Reports interaction-log connectivity, catalog size, search index readiness, and live feed clients.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /api/v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	pages := 0
	if h.catalog != nil {
		if n, err := h.catalog.CountPages(r.Context()); err == nil {
			pages = n
		}
	}

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	health := HealthStatus{
		Status:            status,
		Version:           h.version,
		DatabaseConnected: dbConnected,
		CatalogPages:      pages,
		SearchIndexReady:  h.searcher != nil && h.searcher.Ready(),
		UptimeSeconds:     time.Since(h.startTime).Seconds(),
	}
	if h.hub != nil {
		health.WebSocketClients = h.hub.ClientCount()
	}

	respondSuccess(w, r, http.StatusOK, health, nil)
}

// HealthLive handles GET /api/v1/health/live. Always 200 while the
// process runs, regardless of dependencies.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, nil)
}

// HealthReady handles GET /api/v1/health/ready. Ready means the
// interaction log answers pings; the catalog is in-process and needs
// no separate check.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeUnavailable, "Interaction log is unavailable")
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{"ready": true}, nil)
}
