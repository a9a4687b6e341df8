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
	"strings"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
)

// Content-based scoring weights. Keyword overlap dominates, difficulty
// affinity refines, popularity breaks ties.
const (
	keywordMatchWeight    = 0.5
	difficultyMatchWeight = 0.3
	popularityTieWeight   = 0.2

	// contentConfidence is fixed regardless of history size. Content
	// similarity is treated as moderately reliable evidence.
	contentConfidence = 0.8
)

// ContentBasedConfig tunes taste-profile extraction.
type ContentBasedConfig struct {
	// MaxKeywords caps the preferred-keyword profile size.
	MaxKeywords int

	// MaxDifficulties caps the preferred-difficulty profile size.
	MaxDifficulties int
}

func (c ContentBasedConfig) withDefaults() ContentBasedConfig {
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = 5
	}
	if c.MaxDifficulties <= 0 {
		c.MaxDifficulties = 2
	}
	return c
}

// ContentBased recommends pages whose attributes resemble the user's
// past downloads. It carries the chain when collaborative signal is
// absent, which is common for users with niche taste.
type ContentBased struct {
	cfg          ContentBasedConfig
	catalog      recommend.CatalogAccessor
	interactions recommend.InteractionAccessor
	logger       zerolog.Logger
}

// NewContentBased builds the strategy. Zero config fields fall back to
// defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewContentBased(cfg ContentBasedConfig, catalog recommend.CatalogAccessor, interactions recommend.InteractionAccessor, logger zerolog.Logger) *ContentBased {
	return &ContentBased{
		cfg:          cfg.withDefaults(),
		catalog:      catalog,
		interactions: interactions,
		logger:       logger.With().Str("strategy", recommend.StrategyContentBased).Logger(),
	}
}

// Name implements recommend.Strategy.
func (s *ContentBased) Name() string { return recommend.StrategyContentBased }

// Personalized implements recommend.Strategy.
func (s *ContentBased) Personalized() bool { return true }

// Generate derives a taste profile from the user's downloads and matches
// the catalog against it.
func (s *ContentBased) Generate(ctx context.Context, req *recommend.Request) (*recommend.Result, error) {
	if req.User == nil {
		return s.empty(), nil
	}

	downloads, err := s.interactions.GetDownloadsByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch download history: %w", err)
	}
	if len(downloads) == 0 {
		return s.empty(), nil
	}

	history, err := s.catalog.GetPages(ctx, downloads)
	if err != nil {
		return nil, fmt.Errorf("resolve downloaded pages: %w", err)
	}

	keywords := preferredKeywords(history, s.cfg.MaxKeywords)
	if len(keywords) == 0 {
		// Downloads without keyword metadata give nothing to match on.
		return s.empty(), nil
	}
	difficulties := preferredDifficulties(history, s.cfg.MaxDifficulties)

	matches, err := s.catalog.PagesByKeywords(ctx, req.TargetAgeGroup(), keywords, downloads)
	if err != nil {
		return nil, fmt.Errorf("query catalog by keywords: %w", err)
	}
	if len(matches) == 0 {
		return s.empty(), nil
	}

	candidates := make([]recommend.ScoredPage, 0, len(matches))
	for _, page := range matches {
		candidates = append(candidates, recommend.ScoredPage{
			Page:  page,
			Score: scoreContentMatch(&page, keywords, difficulties),
		})
	}

	s.logger.Debug().
		Int("history", len(history)).
		Strs("preferred_keywords", keywords).
		Int("candidates", len(candidates)).
		Msg("content-based pass complete")

	return &recommend.Result{
		Strategy:   recommend.StrategyContentBased,
		Candidates: candidates,
		Confidence: contentConfidence,
	}, nil
}

// scoreContentMatch is additive and unbounded above: each preferred
// keyword present adds keywordMatchWeight, a preferred difficulty adds
// difficultyMatchWeight, and log-damped popularity breaks remaining
// ties.
func scoreContentMatch(page *models.ColoringPage, keywords []string, difficulties []models.Difficulty) float64 {
	score := 0.0
	for _, kw := range keywords {
		if page.HasKeyword(kw) {
			score += keywordMatchWeight
		}
	}
	if containsDifficulty(difficulties, page.Difficulty) {
		score += difficultyMatchWeight
	}
	score += popularityTieWeight * math.Log10(float64(page.DownloadCount)+1)
	return score
}

// preferredKeywords returns the most frequent keywords across the
// history, lowercased, ties broken by first appearance.
func preferredKeywords(history []models.ColoringPage, max int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, page := range history {
		for _, kw := range page.Keywords {
			k := strings.ToLower(kw)
			if k == "" {
				continue
			}
			if counts[k] == 0 {
				order = append(order, k)
			}
			counts[k]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > max {
		order = order[:max]
	}
	return order
}

// preferredDifficulties mirrors preferredKeywords over the difficulty
// enum.
func preferredDifficulties(history []models.ColoringPage, max int) []models.Difficulty {
	counts := make(map[models.Difficulty]int)
	order := make([]models.Difficulty, 0, 3)
	for _, page := range history {
		if page.Difficulty == "" {
			continue
		}
		if counts[page.Difficulty] == 0 {
			order = append(order, page.Difficulty)
		}
		counts[page.Difficulty]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > max {
		order = order[:max]
	}
	return order
}

func containsDifficulty(set []models.Difficulty, d models.Difficulty) bool {
	for _, v := range set {
		if v == d {
			return true
		}
	}
	return false
}

func (s *ContentBased) empty() *recommend.Result {
	return &recommend.Result{Strategy: recommend.StrategyContentBased, Candidates: nil, Confidence: 0}
}

var _ recommend.Strategy = (*ContentBased)(nil)
