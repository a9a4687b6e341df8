// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/models"
)

// Message types for WebSocket communication
const (
	MessageTypeDownload    = "download"
	MessageTypeStatsUpdate = "stats_update"
	MessageTypeDigest      = "digest_published"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to
// them. Lifecycle events are drained before broadcasts, and clients
// are iterated in id order, so delivery is reproducible.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub and blocks until the context is canceled. On
// cancellation all connected clients are closed, making the hub safe
// to restart under a supervisor.
func (h *Hub) Run(ctx context.Context) error {
	for {
		// Shutdown has the highest priority.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Drain lifecycle events so the client set is settled before
		// the next broadcast goes out.
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

func (h *Hub) shutdown(ctx context.Context) {
	closed := h.closeAllClients()
	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}

// broadcastToClients sends a message to every connected client in id
// order. A client whose send buffer is full is dropped; blocking here
// would stall the whole feed.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	return len(clients)
}

// DownloadActivity is the payload of a download message.
type DownloadActivity struct {
	UserID       string `json:"user_id"`
	PageID       string `json:"page_id"`
	Source       string `json:"source,omitempty"`
	DownloadedAt string `json:"downloaded_at"`
}

// BroadcastDownload sends a completed download to all connected
// clients. This is the pipeline consumer's broadcast hook; it never
// blocks.
func (h *Hub) BroadcastDownload(rec *models.DownloadRecord) {
	message := Message{
		Type: MessageTypeDownload,
		Data: DownloadActivity{
			UserID:       rec.UserID,
			PageID:       rec.PageID,
			Source:       rec.Source,
			DownloadedAt: rec.DownloadedAt.UTC().Format(time.RFC3339),
		},
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Msg("broadcast channel full, dropping download message")
	}
}

// StatsUpdateData is the payload of a stats_update message.
type StatsUpdateData struct {
	Timestamp      string `json:"timestamp"`
	TotalPages     int    `json:"total_pages"`
	TotalDownloads int64  `json:"total_downloads"`
}

// BroadcastStatsUpdate notifies clients that catalog totals changed.
func (h *Hub) BroadcastStatsUpdate(totalPages int, totalDownloads int64) {
	message := Message{
		Type: MessageTypeStatsUpdate,
		Data: StatsUpdateData{
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
			TotalPages:     totalPages,
			TotalDownloads: totalDownloads,
		},
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Msg("broadcast channel full, dropping stats_update message")
	}
}

// BroadcastJSON sends an arbitrary typed message to all clients.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
