// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package newsletter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/catalog"
	"github.com/coloratura-app/coloratura/internal/database"
	"github.com/coloratura-app/coloratura/internal/models"
)

// Digest is one issue of the periodic newsletter: the most downloaded
// pages over the window, enriched from the catalog.
type Digest struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	WindowStart time.Time     `json:"windowStart"`
	Entries     []DigestEntry `json:"entries"`
}

// DigestEntry is a single ranked page in a digest issue.
type DigestEntry struct {
	Rank          int               `json:"rank"`
	PageID        string            `json:"pageId"`
	CharacterName string            `json:"characterName"`
	Theme         string            `json:"theme,omitempty"`
	Difficulty    models.Difficulty `json:"difficulty"`
	ThumbnailURL  string            `json:"thumbnailUrl,omitempty"`
	Downloads     int64             `json:"downloads"`
}

// DownloadAggregator reports download aggregates from the interaction
// log.
type DownloadAggregator interface {
	TopPagesSince(ctx context.Context, since time.Time, limit int) ([]database.PageDownloads, error)
}

// PageResolver looks up catalog entries for digest enrichment.
type PageResolver interface {
	GetPage(ctx context.Context, id string) (*models.ColoringPage, error)
}

// Builder assembles digest issues from the interaction log and the
// catalog.
type Builder struct {
	downloads DownloadAggregator
	pages     PageResolver
	logger    zerolog.Logger
	now       func() time.Time
}

// NewBuilder creates a digest builder over the given stores.
func NewBuilder(downloads DownloadAggregator, pages PageResolver, logger zerolog.Logger) (*Builder, error) {
	if downloads == nil {
		return nil, fmt.Errorf("download aggregator required")
	}
	if pages == nil {
		return nil, fmt.Errorf("page resolver required")
	}
	return &Builder{
		downloads: downloads,
		pages:     pages,
		logger:    logger.With().Str("component", "digest-builder").Logger(),
		now:       time.Now,
	}, nil
}

// Build assembles a digest covering downloads at or after since. Pages
// that have left the catalog keep their slot out of the issue; entries
// are ranked by the log's download ordering.
func (b *Builder) Build(ctx context.Context, since time.Time, size int) (*Digest, error) {
	top, err := b.downloads.TopPagesSince(ctx, since, size)
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}

	digest := &Digest{
		GeneratedAt: b.now().UTC(),
		WindowStart: since,
		Entries:     make([]DigestEntry, 0, len(top)),
	}

	for _, row := range top {
		page, err := b.pages.GetPage(ctx, row.PageID)
		if errors.Is(err, catalog.ErrPageNotFound) {
			b.logger.Debug().Str("page_id", row.PageID).Msg("digest page no longer in catalog, skipping")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve page %s: %w", row.PageID, err)
		}

		digest.Entries = append(digest.Entries, DigestEntry{
			Rank:          len(digest.Entries) + 1,
			PageID:        page.ID,
			CharacterName: page.CharacterName,
			Theme:         page.Theme,
			Difficulty:    page.Difficulty,
			ThumbnailURL:  page.ThumbnailURL,
			Downloads:     row.Downloads,
		})
	}

	return digest, nil
}
