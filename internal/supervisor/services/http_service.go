// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer is the slice of *http.Server lifecycle the API layer
// needs: start blocking, stop gracefully. Tests substitute stubs.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the catalog API server under the api-layer
// supervisor. It translates http.Server's blocking ListenAndServe into
// suture's context-aware Serve: the listener runs in a goroutine, and
// cancellation triggers a graceful Shutdown so in-flight catalog and
// recommendation requests finish before the process exits.
//
// Example usage:
//
//	server := &http.Server{Addr: cfg.ListenAddr(), Handler: router.Setup()}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
}

// NewHTTPServerService wraps the API server for supervision.
//
// shutdownTimeout bounds how long in-flight requests get to complete
// once shutdown starts; non-positive values fall back to 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// Serve implements suture.Service. It blocks until the listener fails
// or the supervisor cancels the context, then drains via Shutdown.
// http.ErrServerClosed is not an error here; it is what Shutdown makes
// ListenAndServe return.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	// ListenAndServe blocks, so it runs in a goroutine and reports
	// through errCh.
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		// Listener failed before any shutdown was requested, or closed
		// from outside this service.
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// Shutdown needs its own context; the supervisor's is already
		// canceled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api server shutdown failed: %w", err)
		}

		// Let the listener goroutine observe ErrServerClosed and exit.
		<-errCh
		return ctx.Err()
	}
}

// String names the service in supervisor logs.
func (h *HTTPServerService) String() string {
	return h.name
}
