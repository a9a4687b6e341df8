// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package strategies

import (
	"context"
	"sort"

	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
)

// stubCatalog serves a fixed page set with the same query semantics as
// the real catalog store.
type stubCatalog struct {
	pages []models.ColoringPage
	err   error
}

func (s *stubCatalog) GetPages(_ context.Context, ids []string) ([]models.ColoringPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	byID := make(map[string]models.ColoringPage, len(s.pages))
	for _, p := range s.pages {
		byID[p.ID] = p
	}
	out := make([]models.ColoringPage, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubCatalog) PagesByKeywords(_ context.Context, ageGroup models.AgeGroup, keywords, excludeIDs []string) ([]models.ColoringPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	var out []models.ColoringPage
	for _, p := range s.pages {
		if ageGroup != "" && p.AgeGroup != ageGroup {
			continue
		}
		if _, skip := excluded[p.ID]; skip {
			continue
		}
		match := false
		for _, kw := range keywords {
			if p.HasKeyword(kw) {
				match = true
				break
			}
		}
		if match {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubCatalog) TopPagesByDownloads(_ context.Context, ageGroup models.AgeGroup, limit int) ([]models.ColoringPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.ColoringPage
	for _, p := range s.pages {
		if ageGroup != "" && p.AgeGroup != ageGroup {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DownloadCount != out[j].DownloadCount {
			return out[i].DownloadCount > out[j].DownloadCount
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// stubInteractions serves a fixed download log. Per-user errors let
// fan-out failure paths be exercised.
type stubInteractions struct {
	downloadsByUser   map[string][]string
	downloadersByPage map[string][]string
	err               error
	userErrs          map[string]error
}

func (s *stubInteractions) GetDownloadsByUser(_ context.Context, userID string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err, ok := s.userErrs[userID]; ok {
		return nil, err
	}
	return s.downloadsByUser[userID], nil
}

func (s *stubInteractions) GetDownloadersByPage(_ context.Context, pageID string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.downloadersByPage[pageID], nil
}

func personalizedRequest(userID string, ageGroup models.AgeGroup) *recommend.Request {
	return &recommend.Request{
		UserID: userID,
		User:   &models.UserProfile{ID: userID, AgeGroup: ageGroup},
	}
}

func candidateIDs(result *recommend.Result) []string {
	ids := make([]string, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		ids = append(ids, c.Page.ID)
	}
	sort.Strings(ids)
	return ids
}

func candidateScore(result *recommend.Result, pageID string) (float64, bool) {
	for _, c := range result.Candidates {
		if c.Page.ID == pageID {
			return c.Score, true
		}
	}
	return 0, false
}

var (
	_ recommend.CatalogAccessor     = (*stubCatalog)(nil)
	_ recommend.InteractionAccessor = (*stubInteractions)(nil)
)
