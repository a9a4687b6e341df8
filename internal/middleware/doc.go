// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for response compression
and Prometheus metrics integration. Both components use the plain
http.HandlerFunc shape and are mounted on the chi router through the api
package's adapter. Request-id handling and identity resolution live in
internal/api, next to the router that configures them.

Key Components:

  - Compression: Gzip compression for responses >1KB
  - Prometheus Metrics: HTTP request/response instrumentation

Usage Example - Compression:

	import "github.com/coloratura-app/coloratura/internal/middleware"

	// Wrap handler with gzip compression
	http.HandleFunc("/api/v1/pages",
	    middleware.Compression(handler),
	)

	// Responses >1KB are automatically compressed
	// Accept-Encoding: gzip header is required

Compression Details:

The compression middleware:
  - Only compresses responses >1KB (configurable threshold)
  - Supports gzip encoding (Accept-Encoding: gzip)
  - Applies to text/json/javascript/xml mime types
  - Automatically sets Content-Encoding header
  - Flushes compressed data for streaming responses

Performance Characteristics:

  - Compression: 70-90% size reduction for JSON (text/json mime types)
  - Compression overhead: ~1-2ms for typical responses
  - Metrics overhead: <0.1ms per request

Thread Safety:

All middleware components are thread-safe:
  - Compression pools gzip writers per request
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: HTTP handlers and the router that mounts this middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
