// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package models

import (
	"time"
)

// DownloadRecord is one row of the append-only interaction log.
//
// The recommendation subsystem only reads these records; appends happen
// exclusively through the download event pipeline.
type DownloadRecord struct {
	// UserID identifies the downloading account.
	UserID string `json:"userId"`

	// PageID identifies the downloaded coloring page.
	PageID string `json:"pageId"`

	// Source names the surface the download came from ("web", "app").
	Source string `json:"source,omitempty"`

	// DownloadedAt is the server-side timestamp of the download.
	DownloadedAt time.Time `json:"downloadedAt"`
}
