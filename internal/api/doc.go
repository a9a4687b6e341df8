// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package api implements the HTTP surface of the Coloratura server:
// recommendations, the page catalog, character search, download
// recording, newsletter subscriptions, the live WebSocket feed, and
// health probes.
//
// Routing uses chi with grouped middleware stacks. Every group gets a
// rate-limit tier, security headers, and Prometheus instrumentation;
// identity resolution runs once for the whole /api/v1 subtree so
// handlers only ever read the resolved identity from the request
// context.
//
// All responses share one envelope:
//
//	{
//	  "success": true,
//	  "data":    ...,
//	  "error":   {"code": "...", "message": "...", "details": {...}},
//	  "meta":    {"requestId": "...", "timestamp": "...", "durationMs": 12}
//	}
//
// exactly one of data and error is set.
package api
