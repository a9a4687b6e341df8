// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package database owns the embedded DuckDB interaction log. Every
// completed download lands here as an append-only row; the
// recommendation pipeline reads download histories and per-page
// downloader lists from it, and the newsletter digest aggregates over
// it. Catalog and profile data live in the document store, not here.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/coloratura-app/coloratura/internal/config"
)

// DB wraps the DuckDB connection and provides interaction log access.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the interaction log and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists so first boot does not fail
	// with "No such file or directory".
	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
		}
	}

	// Auto-install/auto-load of extensions is disabled to prevent
	// hangs in restricted network environments; nothing in this schema
	// needs an extension.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return db, nil
}

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying SQL connection. Used by tests and by
// packages that need one-off aggregate queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
