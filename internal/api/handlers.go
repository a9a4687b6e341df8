// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"context"
	"time"

	"github.com/coloratura-app/coloratura/internal/catalog"
	"github.com/coloratura-app/coloratura/internal/config"
	"github.com/coloratura-app/coloratura/internal/limits"
	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
	"github.com/coloratura-app/coloratura/internal/search"
	"github.com/coloratura-app/coloratura/internal/websocket"
)

// Handler dependencies are consumer-defined interfaces so tests can
// run against stubs instead of Badger and DuckDB instances.

// Recommender is satisfied by *recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// PageCatalog is the catalog view the handlers need. *catalog.Store
// satisfies it.
type PageCatalog interface {
	GetPage(ctx context.Context, id string) (*models.ColoringPage, error)
	QueryPages(ctx context.Context, q catalog.PageQuery) ([]models.ColoringPage, error)
	CountPages(ctx context.Context) (int, error)
}

// CharacterSearcher is satisfied by *search.Index.
type CharacterSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Result, error)
	Ready() bool
}

// AllowanceChecker is satisfied by *limits.Allowance.
type AllowanceChecker interface {
	Check(ctx context.Context, userID string) limits.Decision
}

// DownloadPublisher is satisfied by *eventprocessor.Pipeline.
type DownloadPublisher interface {
	PublishDownload(ctx context.Context, userID, pageID, source string) error
}

// SubscriptionStore is satisfied by *newsletter.Store.
type SubscriptionStore interface {
	Subscribe(ctx context.Context, email, language string) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, email, token string) error
}

// Pinger reports interaction-log connectivity for readiness probes.
// *database.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler carries the wired platform components behind the routes.
type Handler struct {
	config     *config.Config
	engine     Recommender
	catalog    PageCatalog
	searcher   CharacterSearcher
	allowance  AllowanceChecker
	publisher  DownloadPublisher
	newsletter SubscriptionStore
	hub        *websocket.Hub
	db         Pinger

	startTime time.Time
	version   string
}

// HandlerDeps names the Handler's collaborators for NewHandler.
type HandlerDeps struct {
	Config     *config.Config
	Engine     Recommender
	Catalog    PageCatalog
	Searcher   CharacterSearcher
	Allowance  AllowanceChecker
	Publisher  DownloadPublisher
	Newsletter SubscriptionStore
	Hub        *websocket.Hub
	DB         Pinger
	Version    string
}

// NewHandler creates the route handler set. Nil collaborators are
// tolerated; the affected endpoints report unavailable.
func NewHandler(deps HandlerDeps) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		config:     deps.Config,
		engine:     deps.Engine,
		catalog:    deps.Catalog,
		searcher:   deps.Searcher,
		allowance:  deps.Allowance,
		publisher:  deps.Publisher,
		newsletter: deps.Newsletter,
		hub:        deps.Hub,
		db:         deps.DB,
		startTime:  time.Now(),
		version:    version,
	}
}
