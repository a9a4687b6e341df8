// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/accounts"
	"github.com/coloratura-app/coloratura/internal/cache"
	"github.com/coloratura-app/coloratura/internal/catalog"
	"github.com/coloratura-app/coloratura/internal/config"
	"github.com/coloratura-app/coloratura/internal/database"
	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
	"github.com/coloratura-app/coloratura/internal/recommend/strategies"
)

// userDirectory adapts the accounts store to the engine's directory
// interface, translating the store's not-found sentinel into the one
// the engine's fallback logic matches on.
type userDirectory struct {
	users *accounts.Store
}

func (d userDirectory) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	profile, err := d.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, recommend.ErrUserNotFound
		}
		return nil, err
	}
	return profile, nil
}

// buildRecommendEngine wires the recommendation engine: catalog,
// interaction log and user directory behind circuit breakers, a TTL
// cache, and the collaborative -> content-based -> popularity
// strategy chain.
func buildRecommendEngine(
	cfg *config.Config,
	catalogStore *catalog.Store,
	db *database.DB,
	users *accounts.Store,
	logger zerolog.Logger,
) (*recommend.Engine, error) {
	engineCfg := recommend.DefaultConfig()
	if cfg.Recommend.RequestTimeout > 0 {
		engineCfg.RequestTimeout = cfg.Recommend.RequestTimeout
	}

	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, err
	}

	pages := recommend.NewBreakerCatalog(catalogStore)
	interactions := recommend.NewBreakerInteractions(db)

	engine.SetUserDirectory(recommend.NewBreakerDirectory(userDirectory{users: users}))
	engine.SetInteractions(interactions)
	if cfg.Recommend.CacheTTL > 0 {
		engine.SetCache(cache.New(cfg.Recommend.CacheTTL))
	}

	engine.RegisterStrategy(strategies.NewCollaborative(
		strategies.CollaborativeConfig{}, pages, interactions, logger))
	engine.RegisterStrategy(strategies.NewContentBased(
		strategies.ContentBasedConfig{}, pages, interactions, logger))
	// nil source means time-seeded shuffle; tests inject a fixed seed.
	engine.RegisterStrategy(strategies.NewPopularity(
		strategies.PopularityConfig{PoolSize: cfg.Recommend.PopularityPoolSize}, pages, nil, logger))

	return engine, nil
}
