// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package main is the entry point for the Coloratura server.
//
// Coloratura is a self-hosted coloring page platform: a printable page
// catalog, a tiered recommendation engine, multilingual character
// search, download allowances and a newsletter digest, all behind one
// REST API with a WebSocket live feed.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, config file and
//     environment variables (Koanf v2)
//  2. Document store: BadgerDB holding pages, characters, user
//     profiles and newsletter subscriptions
//  3. Interaction log: DuckDB holding the append-only download history
//  4. Recommendation engine: collaborative, content-based and
//     popularity strategies behind circuit breakers
//  5. Event pipeline: Watermill-routed download events (in-process
//     channel bus, or NATS JetStream with -tags nats)
//  6. WebSocket hub: real-time download and stats broadcasts
//  7. HTTP server: REST API with Swagger documentation
//
// Every long-running component is attached to a suture supervisor
// tree, so a crashing digest scheduler or search refresher restarts
// in isolation instead of taking the process down.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables (COLORATURA_ prefix), a
// config.yaml file, then built-in defaults. The defaults run a demo
// instance out of the box: in-memory stores, seeded catalog, header
// identity mode.
//
// # Identity Modes
//
// The API never trusts a user id from query parameters. Two modes are
// supported via SECURITY_AUTH_MODE:
//   - "header": the X-User-ID request header names the caller. For
//     development and trusted reverse proxies only.
//   - "token": a Bearer JWT signed with SECURITY_TOKEN_SECRET; the
//     subject claim names the caller.
//
// Endpoints that work for everyone (catalog browsing, search, health)
// treat missing identity as anonymous; downloads require identity.
//
// # Build Tags
//
//	go build ./cmd/server              # in-process channel transport
//	go build -tags "nats" ./cmd/server # NATS JetStream transport
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP
// listener stops accepting connections, in-flight requests get 10s to
// complete, then the event pipeline, hub and stores are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/coloratura-app/coloratura/docs" // generated swagger docs
	"github.com/coloratura-app/coloratura/internal/accounts"
	"github.com/coloratura-app/coloratura/internal/api"
	"github.com/coloratura-app/coloratura/internal/catalog"
	"github.com/coloratura-app/coloratura/internal/config"
	"github.com/coloratura-app/coloratura/internal/database"
	"github.com/coloratura-app/coloratura/internal/docstore"
	"github.com/coloratura-app/coloratura/internal/eventprocessor"
	"github.com/coloratura-app/coloratura/internal/limits"
	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/newsletter"
	"github.com/coloratura-app/coloratura/internal/search"
	"github.com/coloratura-app/coloratura/internal/supervisor"
	"github.com/coloratura-app/coloratura/internal/supervisor/services"
	ws "github.com/coloratura-app/coloratura/internal/websocket"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Coloratura with supervisor tree")
	logging.Info().
		Str("auth_mode", cfg.Security.AuthMode).
		Str("events_transport", cfg.Events.Transport).
		Bool("docstore_in_memory", cfg.DocStore.InMemory).
		Str("database_path", cfg.Database.Path).
		Msg("Configuration loaded")

	if cfg.Security.AuthMode == "header" {
		logging.Warn().Msg("Identity mode is 'header' (X-User-ID is trusted as-is)")
		logging.Warn().Msg("Use SECURITY_AUTH_MODE=token with a signed Bearer token in production")
	}
	if cfg.Security.DisableRateLimit {
		logging.Warn().Msg("Rate limiting is DISABLED (SECURITY_RATE_LIMIT_DISABLED=true)")
	}

	// Open the Badger document store for catalog, characters, user
	// profiles and newsletter subscriptions.
	docs, err := docstore.Open(cfg.DocStore)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer func() {
		if err := docs.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()

	catalogStore := catalog.NewStore(docs)
	userStore := accounts.NewStore(docs)
	subscriptions := newsletter.NewStore(docs)

	// Seed the demo catalog if enabled. SeedDemoData is a no-op when
	// the catalog already holds pages, so restarts are safe.
	if cfg.DocStore.SeedDemo {
		if err := catalog.SeedDemoData(context.Background(), catalogStore); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed demo catalog")
		}
		logging.Info().Msg("Demo catalog seeding complete")
	}

	// Open the DuckDB interaction log. It is the source of truth for
	// download history: recommendations, allowances and digests all
	// aggregate over it.
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize interaction database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing interaction database")
		}
	}()
	logging.Info().Msg("Interaction database initialized")

	logger := logging.Logger()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Character search index over the catalog's character directory.
	// Built once at startup, then rebuilt on a timer by the refresher.
	index, err := search.NewIndex(search.Config{
		MaxResults:     cfg.Search.MaxResults,
		MinQueryLength: cfg.Search.MinQueryLength,
	}, catalogStore, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create search index")
	}
	if err := index.Rebuild(ctx); err != nil {
		// Non-fatal: the refresher retries and /search reports 503
		// until the first snapshot lands.
		logging.Warn().Err(err).Msg("Initial search index build failed (will retry)")
	} else {
		logging.Info().Int("characters", index.Size()).Msg("Search index built")
	}
	refresher := search.NewRefresher(index, cfg.Search.RebuildEvery, logger)

	// Recommendation engine with circuit-broken accessors and the
	// collaborative -> content-based -> popularity fallback chain.
	engine, err := buildRecommendEngine(cfg, catalogStore, db, userStore, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build recommendation engine")
	}
	logging.Info().
		Dur("cache_ttl", cfg.Recommend.CacheTTL).
		Dur("request_timeout", cfg.Recommend.RequestTimeout).
		Msg("Recommendation engine initialized")

	// WebSocket hub for the live download feed. Created before the
	// pipeline so the pipeline can broadcast persisted events.
	hub := ws.NewHub()

	// Download event pipeline: HTTP publishes, Watermill routes, the
	// handlers append to DuckDB, bump catalog counters and broadcast.
	pipeline, err := eventprocessor.NewPipeline(&cfg.Events, db, catalogStore, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event pipeline")
	}
	pipeline.SetBroadcaster(hub)
	defer func() {
		if err := pipeline.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event pipeline")
		}
	}()
	logging.Info().Str("transport", cfg.Events.Transport).Msg("Event pipeline created")

	// Per-user download allowance over the interaction log.
	allowance := limits.NewAllowance(limits.Config{
		DailyDownloads: cfg.Limits.DailyDownloads,
		BurstPerMinute: cfg.Limits.BurstPerMinute,
		Disabled:       cfg.Limits.Disabled,
	}, db, logger)
	if cfg.Limits.Disabled {
		logging.Warn().Msg("Download allowances are DISABLED (LIMITS_DISABLED=true)")
	}

	// Newsletter digest: builder aggregates the download window, the
	// scheduler publishes issues to the hub on the digest cadence.
	builder, err := newsletter.NewBuilder(db, catalogStore, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create newsletter builder")
	}
	scheduler := newsletter.NewScheduler(newsletter.Config{
		Enabled:        cfg.Newsletter.Enabled,
		DigestInterval: cfg.Newsletter.DigestInterval,
		DigestSize:     cfg.Newsletter.DigestSize,
	}, builder, subscriptions, hub, logger)

	handler := api.NewHandler(api.HandlerDeps{
		Config:     cfg,
		Engine:     engine,
		Catalog:    catalogStore,
		Searcher:   index,
		Allowance:  allowance,
		Publisher:  pipeline,
		Newsletter: subscriptions,
		Hub:        hub,
		DB:         db,
		Version:    version,
	})
	router := api.NewRouter(handler, api.NewMiddleware(cfg.Security))

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create supervisor tree. The slog adapter bridges zerolog to
	// sutureslog so supervision events land in the same log stream.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer: index refresh and allowance bucket cleanup.
	tree.AddDataService(services.NewRunnerService("search-refresher", refresher))
	tree.AddDataService(services.NewRunnerService("allowance-cleanup", allowance))

	// Messaging layer: hub, pipeline, digest scheduler.
	tree.AddMessagingService(services.NewRunnerService("websocket-hub", hub))
	tree.AddMessagingService(services.NewRunnerService("event-pipeline", pipeline))
	if cfg.Newsletter.Enabled {
		tree.AddMessagingService(services.NewRunnerService("digest-scheduler", scheduler))
		logging.Info().
			Dur("interval", cfg.Newsletter.DigestInterval).
			Int("size", cfg.Newsletter.DigestSize).
			Msg("Newsletter digest scheduler added to supervisor tree")
	} else {
		logging.Info().Msg("Newsletter digests disabled (NEWSLETTER_ENABLED=false)")
	}

	// API layer.
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
