// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package database

import (
	"context"
	"fmt"
)

// schemaStatements create the interaction log tables and indexes.
// Statements are idempotent so initialization is safe on every boot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS downloads (
		id UUID PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		page_id VARCHAR NOT NULL,
		source VARCHAR NOT NULL DEFAULT 'web',
		correlation_key VARCHAR UNIQUE,
		downloaded_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_downloads_user ON downloads (user_id, downloaded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_downloads_page ON downloads (page_id)`,
}

// initialize creates the schema.
func (db *DB) initialize() error {
	ctx := context.Background()
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
