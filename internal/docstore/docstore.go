// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package docstore opens the embedded BadgerDB instance shared by the
// page catalog, character directory, user accounts and newsletter
// subscriptions. Each of those packages owns a key prefix inside the
// single database; this package only manages the database lifecycle.
package docstore

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/coloratura-app/coloratura/internal/config"
)

// Open opens (or creates) the document store described by cfg.
// The caller owns the returned handle and must Close it on shutdown.
func Open(cfg config.DocStoreConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil // Badger's own logging is too chatty for production

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	return db, nil
}

// OpenInMemory opens a throwaway in-memory store. Used by tests.
func OpenInMemory() (*badger.DB, error) {
	return Open(config.DocStoreConfig{InMemory: true})
}
