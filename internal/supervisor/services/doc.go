// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

/*
Package services provides suture.Service wrappers for Coloratura components.

This package adapts application components to the suture v4 supervision
model, translating their lifecycle patterns into suture's context-aware
Serve pattern.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Translates blocking ListenAndServe into the Serve pattern
  - http.ErrServerClosed on shutdown is a normal stop, not a failure

Runner (RunnerService):
  - Wraps any component with a blocking Run(ctx) error method
  - Used for the WebSocket hub, download event pipeline, newsletter
    digest scheduler, and the allowance cleanup loop
  - Contributes only the name suture logs under; the components
    already honor context cancellation themselves

# Error Semantics

A wrapper returning an error causes the owning supervisor to restart
it with backoff. Returning ctx.Err() after cancellation is the normal
shutdown path and does not count as a failure.

See Also:

  - internal/supervisor: the tree these services are added to
  - cmd/server: wiring of concrete components into wrappers
*/
package services
