// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package newsletter

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/coloratura-app/coloratura/internal/catalog"
	"github.com/coloratura-app/coloratura/internal/database"
	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/models"
)

type stubAggregator struct {
	rows     []database.PageDownloads
	err      error
	gotSince time.Time
	gotLimit int
}

func (s *stubAggregator) TopPagesSince(ctx context.Context, since time.Time, limit int) ([]database.PageDownloads, error) {
	s.gotSince = since
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

type stubResolver struct {
	pages map[string]*models.ColoringPage
	err   error
}

func (s *stubResolver) GetPage(ctx context.Context, id string) (*models.ColoringPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	page, ok := s.pages[id]
	if !ok {
		return nil, catalog.ErrPageNotFound
	}
	return page, nil
}

func digestPages() map[string]*models.ColoringPage {
	return map[string]*models.ColoringPage{
		"pg-1": {
			ID:            "pg-1",
			CharacterName: "Pikachu",
			Theme:         "forest",
			Difficulty:    models.DifficultyEasy,
			ThumbnailURL:  "https://cdn.example.com/pg-1-thumb.png",
		},
		"pg-2": {
			ID:            "pg-2",
			CharacterName: "Doraemon",
			Difficulty:    models.DifficultyMedium,
		},
		"pg-3": {
			ID:            "pg-3",
			CharacterName: "Totoro",
			Theme:         "forest",
			Difficulty:    models.DifficultyHard,
		},
	}
}

func newTestBuilder(t *testing.T, downloads DownloadAggregator, pages PageResolver) *Builder {
	t.Helper()

	b, err := NewBuilder(downloads, pages, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewBuilder() = %v", err)
	}
	return b
}

func TestNewBuilderValidation(t *testing.T) {
	t.Parallel()

	logger := logging.NewTestLogger(io.Discard)
	if _, err := NewBuilder(nil, &stubResolver{}, logger); err == nil {
		t.Error("NewBuilder(nil aggregator) = nil, want error")
	}
	if _, err := NewBuilder(&stubAggregator{}, nil, logger); err == nil {
		t.Error("NewBuilder(nil resolver) = nil, want error")
	}
}

func TestBuildRanksAndEnriches(t *testing.T) {
	t.Parallel()

	agg := &stubAggregator{rows: []database.PageDownloads{
		{PageID: "pg-2", Downloads: 42},
		{PageID: "pg-1", Downloads: 17},
	}}
	builder := newTestBuilder(t, agg, &stubResolver{pages: digestPages()})

	generated := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	builder.now = func() time.Time { return generated }

	since := generated.Add(-24 * time.Hour)
	digest, err := builder.Build(context.Background(), since, 10)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	if agg.gotLimit != 10 {
		t.Errorf("aggregator limit = %d, want 10", agg.gotLimit)
	}
	if !agg.gotSince.Equal(since) {
		t.Errorf("aggregator since = %v, want %v", agg.gotSince, since)
	}
	if !digest.GeneratedAt.Equal(generated) {
		t.Errorf("GeneratedAt = %v, want %v", digest.GeneratedAt, generated)
	}
	if !digest.WindowStart.Equal(since) {
		t.Errorf("WindowStart = %v, want %v", digest.WindowStart, since)
	}

	if len(digest.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(digest.Entries))
	}
	first, second := digest.Entries[0], digest.Entries[1]
	if first.Rank != 1 || first.PageID != "pg-2" || first.Downloads != 42 {
		t.Errorf("entry 0 = %+v, want rank 1 pg-2 with 42 downloads", first)
	}
	if first.CharacterName != "Doraemon" {
		t.Errorf("entry 0 character = %q, want Doraemon", first.CharacterName)
	}
	if second.Rank != 2 || second.PageID != "pg-1" || second.Downloads != 17 {
		t.Errorf("entry 1 = %+v, want rank 2 pg-1 with 17 downloads", second)
	}
	if second.Theme != "forest" || second.ThumbnailURL == "" {
		t.Errorf("entry 1 not enriched from catalog: %+v", second)
	}
}

func TestBuildSkipsVanishedPages(t *testing.T) {
	t.Parallel()

	agg := &stubAggregator{rows: []database.PageDownloads{
		{PageID: "pg-1", Downloads: 30},
		{PageID: "pg-gone", Downloads: 20},
		{PageID: "pg-3", Downloads: 10},
	}}
	builder := newTestBuilder(t, agg, &stubResolver{pages: digestPages()})

	digest, err := builder.Build(context.Background(), time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	if len(digest.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2 after skipping vanished page", len(digest.Entries))
	}
	if digest.Entries[0].PageID != "pg-1" || digest.Entries[0].Rank != 1 {
		t.Errorf("entry 0 = %+v, want pg-1 rank 1", digest.Entries[0])
	}
	if digest.Entries[1].PageID != "pg-3" || digest.Entries[1].Rank != 2 {
		t.Errorf("entry 1 = %+v, want pg-3 rank 2 with no gap", digest.Entries[1])
	}
}

func TestBuildEmptyWindow(t *testing.T) {
	t.Parallel()

	builder := newTestBuilder(t, &stubAggregator{}, &stubResolver{pages: digestPages()})

	digest, err := builder.Build(context.Background(), time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if len(digest.Entries) != 0 {
		t.Errorf("len(Entries) = %d, want 0", len(digest.Entries))
	}
}

func TestBuildAggregatorError(t *testing.T) {
	t.Parallel()

	aggErr := errors.New("interaction log offline")
	builder := newTestBuilder(t, &stubAggregator{err: aggErr}, &stubResolver{pages: digestPages()})

	_, err := builder.Build(context.Background(), time.Now().Add(-time.Hour), 10)
	if !errors.Is(err, aggErr) {
		t.Errorf("Build() = %v, want wrapped aggregator error", err)
	}
}

func TestBuildResolverError(t *testing.T) {
	t.Parallel()

	resolveErr := errors.New("document store offline")
	agg := &stubAggregator{rows: []database.PageDownloads{{PageID: "pg-1", Downloads: 5}}}
	builder := newTestBuilder(t, agg, &stubResolver{err: resolveErr})

	_, err := builder.Build(context.Background(), time.Now().Add(-time.Hour), 10)
	if !errors.Is(err, resolveErr) {
		t.Errorf("Build() = %v, want wrapped resolver error", err)
	}
	if err != nil && !strings.Contains(err.Error(), "pg-1") {
		t.Errorf("Build() error %q does not name the failing page", err)
	}
}
