// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package strategies

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/recommend"
)

// Popularity scoring weights. Download count dominates; the jitter term
// perturbs ordering so repeated calls expose more of the catalog than a
// frozen top-N would.
const (
	downloadWeight = 0.7
	jitterWeight   = 0.3
)

// Confidence by request shape. None of these results are personalized,
// but an explicit age scope is better evidence than the global catalog.
const (
	fallbackConfidence  = 0.6
	ageScopedConfidence = 0.7
	anonymousConfidence = 0.5
)

// PopularityConfig tunes the fallback pool.
type PopularityConfig struct {
	// PoolSize caps the raw candidate pool pulled from the catalog.
	PoolSize int
}

func (c PopularityConfig) withDefaults() PopularityConfig {
	if c.PoolSize <= 0 {
		c.PoolSize = 40
	}
	return c
}

// Popularity is the always-available fallback: the most-downloaded pages
// in the target age group, lightly jittered. It never needs a user.
type Popularity struct {
	cfg     PopularityConfig
	catalog recommend.CatalogAccessor
	logger  zerolog.Logger

	// rng is guarded by rngMu; rand.Rand is not safe for concurrent
	// draws. The source is injected so tests can fix the seed and
	// assert on the non-jittered score component.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewPopularity builds the strategy. A nil source gets a time-seeded
// one, which is the production mode: jitter is intentionally not
// reproducible.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPopularity(cfg PopularityConfig, catalog recommend.CatalogAccessor, src rand.Source, logger zerolog.Logger) *Popularity {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Popularity{
		cfg:     cfg.withDefaults(),
		catalog: catalog,
		logger:  logger.With().Str("strategy", recommend.StrategyHybrid).Logger(),
		rng:     rand.New(src), //nolint:gosec // jitter is not security-sensitive
	}
}

// Name implements recommend.Strategy.
func (s *Popularity) Name() string { return recommend.StrategyHybrid }

// Personalized implements recommend.Strategy.
func (s *Popularity) Personalized() bool { return false }

// Generate ranks the catalog's most-downloaded pages for the request's
// age scope, drawing fresh jitter per page per call.
func (s *Popularity) Generate(ctx context.Context, req *recommend.Request) (*recommend.Result, error) {
	pool, err := s.catalog.TopPagesByDownloads(ctx, req.TargetAgeGroup(), s.cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("query popular pages: %w", err)
	}

	candidates := make([]recommend.ScoredPage, 0, len(pool))
	for _, page := range pool {
		candidates = append(candidates, recommend.ScoredPage{
			Page:  page,
			Score: float64(page.DownloadCount)*downloadWeight + s.jitter()*jitterWeight,
		})
	}

	strategy, confidence := s.classify(req)
	s.logger.Debug().
		Str("reported_as", strategy).
		Int("pool", len(candidates)).
		Msg("popularity pass complete")

	return &recommend.Result{
		Strategy:   strategy,
		Candidates: candidates,
		Confidence: confidence,
	}, nil
}

// classify picks the reported strategy label and confidence. The
// personalized-fallback arm keys on a resolved profile, not the bare
// user id: when the directory lookup degraded, no personalization
// evidence was consulted and the anonymous confidence applies.
func (s *Popularity) classify(req *recommend.Request) (string, float64) {
	switch {
	case req.User != nil:
		return recommend.StrategyHybrid, fallbackConfidence
	case req.AgeGroup != "":
		return recommend.StrategyAgePopularity, ageScopedConfidence
	default:
		return recommend.StrategyHybrid, anonymousConfidence
	}
}

// jitter draws one uniform value in [0,1).
func (s *Popularity) jitter() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

var _ recommend.Strategy = (*Popularity)(nil)
