// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package strategies

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
)

// CollaborativeConfig tunes the similar-user search.
type CollaborativeConfig struct {
	// MinCoOccurrence is the minimum number of shared downloads before
	// another user counts as similar. Below two, a single popular page
	// would make everyone similar to everyone.
	MinCoOccurrence int

	// MaxSimilarUsers caps the neighborhood size. It is also the
	// denominator of the confidence estimate.
	MaxSimilarUsers int
}

func (c CollaborativeConfig) withDefaults() CollaborativeConfig {
	if c.MinCoOccurrence <= 0 {
		c.MinCoOccurrence = 2
	}
	if c.MaxSimilarUsers <= 0 {
		c.MaxSimilarUsers = 10
	}
	return c
}

// Collaborative recommends pages downloaded by users whose download
// history overlaps the requester's.
type Collaborative struct {
	cfg          CollaborativeConfig
	catalog      recommend.CatalogAccessor
	interactions recommend.InteractionAccessor
	logger       zerolog.Logger
}

// NewCollaborative builds the strategy. Zero config fields fall back to
// defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCollaborative(cfg CollaborativeConfig, catalog recommend.CatalogAccessor, interactions recommend.InteractionAccessor, logger zerolog.Logger) *Collaborative {
	return &Collaborative{
		cfg:          cfg.withDefaults(),
		catalog:      catalog,
		interactions: interactions,
		logger:       logger.With().Str("strategy", recommend.StrategyCollaborative).Logger(),
	}
}

// Name implements recommend.Strategy.
func (s *Collaborative) Name() string { return recommend.StrategyCollaborative }

// Personalized implements recommend.Strategy.
func (s *Collaborative) Personalized() bool { return true }

// Generate walks the co-download graph two hops out: users who share
// downloads with the requester, then the pages those users downloaded.
func (s *Collaborative) Generate(ctx context.Context, req *recommend.Request) (*recommend.Result, error) {
	if req.User == nil {
		return s.empty(), nil
	}

	downloads, err := s.interactions.GetDownloadsByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch download history: %w", err)
	}
	if len(downloads) == 0 {
		// No basis for similarity. The selector decides what happens
		// next, not this strategy.
		return s.empty(), nil
	}

	owned := make(map[string]struct{}, len(downloads))
	for _, id := range downloads {
		owned[id] = struct{}{}
	}

	similar, err := s.similarUsers(ctx, req.UserID, downloads)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return s.empty(), nil
	}

	scores, err := s.scoreCandidates(ctx, similar, owned)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return s.empty(), nil
	}

	candidates, err := s.resolveCandidates(ctx, req.TargetAgeGroup(), scores)
	if err != nil {
		return nil, err
	}

	confidence := math.Min(1.0, float64(len(similar))/float64(s.cfg.MaxSimilarUsers))
	s.logger.Debug().
		Int("history", len(downloads)).
		Int("similar_users", len(similar)).
		Int("candidates", len(candidates)).
		Msg("collaborative pass complete")

	return &recommend.Result{
		Strategy:   recommend.StrategyCollaborative,
		Candidates: candidates,
		Confidence: confidence,
	}, nil
}

type neighbor struct {
	userID string
	shared int
}

// similarUsers accumulates per-user co-occurrence counts across the
// requester's downloads and keeps the closest neighbors above the
// threshold.
func (s *Collaborative) similarUsers(ctx context.Context, userID string, downloads []string) ([]neighbor, error) {
	counts := make(map[string]int)
	for _, pageID := range downloads {
		downloaders, err := s.interactions.GetDownloadersByPage(ctx, pageID)
		if err != nil {
			return nil, fmt.Errorf("fetch downloaders of %q: %w", pageID, err)
		}
		for _, other := range downloaders {
			if other == userID {
				continue
			}
			counts[other]++
		}
	}

	neighbors := make([]neighbor, 0, len(counts))
	for id, shared := range counts {
		if shared < s.cfg.MinCoOccurrence {
			continue
		}
		neighbors = append(neighbors, neighbor{userID: id, shared: shared})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].shared != neighbors[j].shared {
			return neighbors[i].shared > neighbors[j].shared
		}
		return neighbors[i].userID < neighbors[j].userID
	})

	if len(neighbors) > s.cfg.MaxSimilarUsers {
		neighbors = neighbors[:s.cfg.MaxSimilarUsers]
	}
	return neighbors, nil
}

// scoreCandidates fetches each neighbor's downloads concurrently and
// accumulates one point per neighbor that downloaded a page the
// requester has not. The fan-out is safe: each goroutine writes only its
// own slot.
func (s *Collaborative) scoreCandidates(ctx context.Context, neighbors []neighbor, owned map[string]struct{}) (map[string]float64, error) {
	results := make([][]string, len(neighbors))
	errs := make([]error, len(neighbors))

	var wg sync.WaitGroup
	for i, n := range neighbors {
		wg.Add(1)
		go func(idx int, userID string) {
			defer wg.Done()
			results[idx], errs[idx] = s.interactions.GetDownloadsByUser(ctx, userID)
		}(i, n.userID)
	}
	wg.Wait()

	scores := make(map[string]float64)
	for i := range neighbors {
		if errs[i] != nil {
			return nil, fmt.Errorf("fetch downloads of similar user %q: %w", neighbors[i].userID, errs[i])
		}
		for _, pageID := range results[i] {
			if _, alreadyOwned := owned[pageID]; alreadyOwned {
				continue
			}
			scores[pageID]++
		}
	}
	return scores, nil
}

// resolveCandidates loads page records for the scored ids and keeps those
// in the target age group. An empty target skips the age filter.
func (s *Collaborative) resolveCandidates(ctx context.Context, target models.AgeGroup, scores map[string]float64) ([]recommend.ScoredPage, error) {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pages, err := s.catalog.GetPages(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve candidate pages: %w", err)
	}

	candidates := make([]recommend.ScoredPage, 0, len(pages))
	for _, page := range pages {
		if target != "" && page.AgeGroup != target {
			continue
		}
		candidates = append(candidates, recommend.ScoredPage{Page: page, Score: scores[page.ID]})
	}
	return candidates, nil
}

func (s *Collaborative) empty() *recommend.Result {
	return &recommend.Result{Strategy: recommend.StrategyCollaborative, Candidates: nil, Confidence: 0}
}

var _ recommend.Strategy = (*Collaborative)(nil)
