// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package main provides the Coloratura HTTP server
//
// Coloratura API serves a printable coloring page catalog with
// personalized recommendations, multilingual character search,
// download allowances and newsletter digests.
//
// @title Coloratura API
// @version 1.0
// @description Coloring page catalog and recommendation platform
// @description
// @description ## Features
// @description
// @description - **Page Catalog**: Filterable, paginated coloring page browsing by character, theme, age group and difficulty
// @description - **Tiered Recommendations**: Collaborative filtering with content-based and popularity fallbacks, so every caller gets a full result set
// @description - **Character Search**: Accent- and case-insensitive lookup across localized character names
// @description - **Download Allowances**: Per-user daily quota with a short-term burst guard
// @description - **Newsletter Digests**: Periodic most-downloaded-pages issues with single-use unsubscribe tokens
// @description - **Live Feed**: WebSocket broadcasts of download events and catalog stats
// @description
// @description ## Identity
// @description
// @description The API never reads a user id from query parameters. Callers are
// @description identified by a Bearer JWT (token mode) or the X-User-ID header
// @description (header mode, development only). Anonymous callers can browse,
// @description search and receive popularity recommendations; downloads require
// @description identity.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address, with a
// @description tighter budget on mutating endpoints. Download requests are
// @description additionally subject to the per-user allowance; exhausted
// @description allowances answer 429 with a Retry-After header.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "meta": {
// @description     "requestId": "a1b2c3d4",
// @description     "timestamp": "2026-08-31T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/coloratura-app/coloratura/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3001
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer JWT whose subject claim names the calling user. Format: "Bearer {token}".
//
// @tag.name Catalog
// @tag.description Coloring page browsing and metadata
//
// @tag.name Recommendations
// @tag.description Personalized page recommendations with tiered fallback
//
// @tag.name Search
// @tag.description Multilingual character name search
//
// @tag.name Downloads
// @tag.description Download event submission and allowance enforcement
//
// @tag.name Newsletter
// @tag.description Digest subscription management
//
// @tag.name Realtime
// @tag.description WebSocket live feed of downloads and catalog stats
//
// @tag.name Core
// @tag.description Health probes and system status
package main
