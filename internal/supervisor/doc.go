// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

/*
Package supervisor provides process supervision for Coloratura using suture v4.

This package implements a hierarchical supervisor tree that manages the lifecycle
of all long-running services in the application. It provides Erlang/OTP-style
supervision with automatic restart, failure isolation, and graceful shutdown.

# Overview

The supervisor tree organizes services into three layers for failure isolation:

	RootSupervisor ("coloratura")
	├── DataSupervisor ("data-layer")
	│   ├── search index refresh
	│   └── allowance bucket cleanup
	├── MessagingSupervisor ("messaging-layer")
	│   ├── download event pipeline
	│   ├── WebSocket hub
	│   └── newsletter digest scheduler
	└── APISupervisor ("api-layer")
	    └── HTTP server

This hierarchy ensures that:
  - A crash in the digest scheduler doesn't affect WebSocket connections
  - Event pipeline failures don't impact catalog read availability
  - Each layer can restart independently

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Logs service starts, stops, failures, and restarts
  - Event hooks via the sutureslog adapter

# Usage Example

	tree, err := supervisor.NewTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddDataService(services.NewRunnerService("allowance-cleanup", allowance))
	tree.AddMessagingService(services.NewRunnerService("event-pipeline", pipeline))
	tree.AddMessagingService(services.NewRunnerService("websocket-hub", hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil {
	    return err
	}

# Restart Semantics

A service that returns an error is restarted with backoff. A service
that returns suture.ErrDoNotRestart is removed permanently, and
suture.ErrTerminateSupervisorTree propagates upward and stops the
whole tree. Context cancellation is a normal stop, not a failure.

See Also:

  - internal/supervisor/services: suture.Service wrappers for components
  - cmd/server: tree assembly and signal handling
*/
package supervisor
