// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher rebuilds the index on a fixed interval so characters added
// to the catalog become searchable without a restart. It runs as a
// leaf of the supervision tree.
type Refresher struct {
	index    *Index
	interval time.Duration
	logger   zerolog.Logger
}

// NewRefresher creates a refresher. An interval at or below zero falls
// back to five minutes.
func NewRefresher(index *Index, interval time.Duration, logger zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{
		index:    index,
		interval: interval,
		logger:   logger.With().Str("component", "search-refresher").Logger(),
	}
}

// Run rebuilds the index every interval until the context is canceled.
// A failed rebuild is logged and retried next tick; the index keeps
// serving its previous snapshot in the meantime.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.index.Rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Error().Err(err).Msg("index rebuild failed, keeping previous snapshot")
				continue
			}
			r.logger.Debug().Int("characters", r.index.Size()).Msg("index rebuilt")
		}
	}
}
