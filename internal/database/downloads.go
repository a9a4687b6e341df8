// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coloratura-app/coloratura/internal/metrics"
	"github.com/coloratura-app/coloratura/internal/models"
)

// PageDownloads is an aggregate row for digest and trending queries.
type PageDownloads struct {
	PageID    string `json:"pageId"`
	Downloads int64  `json:"downloads"`
}

// AppendDownload records a completed download. The correlation key
// deduplicates redelivered events: a key already present leaves the
// log untouched and returns false. An empty key skips deduplication.
func (db *DB) AppendDownload(ctx context.Context, rec *models.DownloadRecord, correlationKey string) (bool, error) {
	if rec.UserID == "" || rec.PageID == "" {
		return false, fmt.Errorf("append download: user id and page id required")
	}
	downloadedAt := rec.DownloadedAt
	if downloadedAt.IsZero() {
		downloadedAt = time.Now().UTC()
	}
	source := rec.Source
	if source == "" {
		source = "web"
	}

	var key interface{}
	if correlationKey != "" {
		key = correlationKey
	}

	query := `INSERT INTO downloads (id, user_id, page_id, source, correlation_key, downloaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query,
		uuid.New(), rec.UserID, rec.PageID, source, key, downloadedAt)
	metrics.RecordDBQuery("INSERT", "downloads", time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("append download: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		// Driver could not report the count; treat as inserted.
		return true, nil
	}
	return rows > 0, nil
}

// GetDownloadsByUser returns the distinct page ids the user has
// downloaded, most recent first.
func (db *DB) GetDownloadsByUser(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT page_id, MAX(downloaded_at) AS last_download
		FROM downloads
		WHERE user_id = ?
		GROUP BY page_id
		ORDER BY last_download DESC, page_id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID)
	metrics.RecordDBQuery("SELECT", "downloads", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("get downloads by user: %w", err)
	}
	defer closeWithLog(rows, "downloads rows")

	var pageIDs []string
	for rows.Next() {
		var pageID string
		var last time.Time
		if err := rows.Scan(&pageID, &last); err != nil {
			return nil, fmt.Errorf("scan download row: %w", err)
		}
		pageIDs = append(pageIDs, pageID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate download rows: %w", err)
	}
	return pageIDs, nil
}

// GetDownloadersByPage returns the distinct user ids that downloaded
// the page, ordered by user id for stable co-occurrence accumulation.
func (db *DB) GetDownloadersByPage(ctx context.Context, pageID string) ([]string, error) {
	query := `SELECT DISTINCT user_id FROM downloads WHERE page_id = ? ORDER BY user_id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, pageID)
	metrics.RecordDBQuery("SELECT", "downloads", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("get downloaders by page: %w", err)
	}
	defer closeWithLog(rows, "downloads rows")

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan downloader row: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate downloader rows: %w", err)
	}
	return userIDs, nil
}

// CountDownloadsSince counts a user's downloads at or after the cutoff.
// Backs the daily allowance check.
func (db *DB) CountDownloadsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM downloads WHERE user_id = ? AND downloaded_at >= ?`

	start := time.Now()
	var count int
	err := db.conn.QueryRowContext(ctx, query, userID, since).Scan(&count)
	metrics.RecordDBQuery("SELECT", "downloads", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count downloads since: %w", err)
	}
	return count, nil
}

// RecentDownloads returns a user's latest download records, newest
// first. Backs the account history endpoint.
func (db *DB) RecentDownloads(ctx context.Context, userID string, limit int) ([]models.DownloadRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT user_id, page_id, source, downloaded_at
		FROM downloads
		WHERE user_id = ?
		ORDER BY downloaded_at DESC
		LIMIT ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID, limit)
	metrics.RecordDBQuery("SELECT", "downloads", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("recent downloads: %w", err)
	}
	defer closeWithLog(rows, "downloads rows")

	var records []models.DownloadRecord
	for rows.Next() {
		var rec models.DownloadRecord
		if err := rows.Scan(&rec.UserID, &rec.PageID, &rec.Source, &rec.DownloadedAt); err != nil {
			return nil, fmt.Errorf("scan download record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate download records: %w", err)
	}
	return records, nil
}

// TopPagesSince aggregates the most downloaded pages at or after the
// cutoff. Backs the newsletter digest.
func (db *DB) TopPagesSince(ctx context.Context, since time.Time, limit int) ([]PageDownloads, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT page_id, COUNT(*) AS downloads
		FROM downloads
		WHERE downloaded_at >= ?
		GROUP BY page_id
		ORDER BY downloads DESC, page_id
		LIMIT ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, since, limit)
	metrics.RecordDBQuery("SELECT", "downloads", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("top pages since: %w", err)
	}
	defer closeWithLog(rows, "downloads rows")

	var top []PageDownloads
	for rows.Next() {
		var row PageDownloads
		if err := rows.Scan(&row.PageID, &row.Downloads); err != nil {
			return nil, fmt.Errorf("scan top page row: %w", err)
		}
		top = append(top, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top page rows: %w", err)
	}
	return top, nil
}
