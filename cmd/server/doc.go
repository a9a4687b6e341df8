// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

/*
Package main is the entry point for the Coloratura server.

Coloratura is a self-hosted coloring page platform: a printable page
catalog, a tiered recommendation engine, multilingual character search,
download allowances and newsletter digests behind one REST API.

# Application Architecture

The server implements a layered architecture with Suture v4 process
supervision:

	RootSupervisor ("coloratura")
	├── DataSupervisor ("data-layer")
	│   ├── Search Refresher (periodic index rebuilds)
	│   └── Allowance Cleanup (idle bucket expiry)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (live download feed)
	│   ├── Event Pipeline (Watermill download routing)
	│   └── Digest Scheduler (newsletter issues)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST API + Swagger)

Storage is split by access pattern: BadgerDB holds the documents
(pages, characters, user profiles, subscriptions) and DuckDB holds the
append-only download history that recommendations, allowances and
digests aggregate over.

Initialization wiring lives in main.go; the recommendation engine's
strategy chain and circuit breakers are assembled in recommend_init.go.
Swagger metadata is declared in docs.go and regenerated with swag into
the top-level docs package.
*/
package main
