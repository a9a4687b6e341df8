// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import (
	"time"

	"github.com/google/uuid"

	"github.com/coloratura-app/coloratura/internal/models"
)

// SchemaVersion is the current event schema version.
// Increment this when making breaking changes to DownloadEvent.
const SchemaVersion = 1

const (
	// TopicDownloads is the subject completed downloads are published on.
	// A single flat subject keeps the channel transport wildcard-free.
	TopicDownloads = "downloads.completed"

	// TopicPoison receives messages that exhausted their retries.
	TopicPoison = "downloads.poison"
)

// DownloadEvent is the canonical record of one completed download.
// It is published by the API layer after the file is served and
// consumed by the pipeline to update the interaction log, the catalog
// counter, and the live activity feed.
type DownloadEvent struct {
	// SchemaVersion tracks the event format for consumers that must
	// handle older payloads. Version 1 is the initial schema.
	SchemaVersion int `json:"schema_version,omitempty"`

	// EventID uniquely identifies the event. It doubles as the
	// correlation key for log-append deduplication, so redelivery of
	// the same event never inserts a second row.
	EventID string `json:"event_id"`

	// UserID is the downloading account.
	UserID string `json:"user_id"`

	// PageID is the downloaded coloring page.
	PageID string `json:"page_id"`

	// Source names the surface the download came from ("web", "app").
	Source string `json:"source,omitempty"`

	// OccurredAt is the server-side download timestamp.
	OccurredAt time.Time `json:"occurred_at"`
}

// NewDownloadEvent creates an event with a unique ID, a UTC timestamp,
// and the current schema version.
func NewDownloadEvent(userID, pageID, source string) *DownloadEvent {
	return &DownloadEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		UserID:        userID,
		PageID:        pageID,
		Source:        source,
		OccurredAt:    time.Now().UTC(),
	}
}

// Validate checks required fields and returns an error if validation fails.
func (e *DownloadEvent) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if e.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	if e.PageID == "" {
		return &ValidationError{Field: "page_id", Message: "required"}
	}
	if e.OccurredAt.IsZero() {
		return &ValidationError{Field: "occurred_at", Message: "required"}
	}
	return nil
}

// Topic returns the subject this event is published on.
func (e *DownloadEvent) Topic() string {
	return TopicDownloads
}

// EnsureSchemaVersion sets the schema version if not already set.
// Call this when processing events that may not carry a version.
func (e *DownloadEvent) EnsureSchemaVersion() {
	if e.SchemaVersion == 0 {
		e.SchemaVersion = SchemaVersion
	}
}

// Record converts the event into an interaction log row.
func (e *DownloadEvent) Record() *models.DownloadRecord {
	return &models.DownloadRecord{
		UserID:       e.UserID,
		PageID:       e.PageID,
		Source:       e.Source,
		DownloadedAt: e.OccurredAt,
	}
}

// ValidationError describes a missing or malformed event field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid event: " + e.Field + " " + e.Message
}
