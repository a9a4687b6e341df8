// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

//go:build !nats

package eventprocessor

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/coloratura-app/coloratura/internal/config"
)

// EmbeddedServer is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats to enable JetStream support.
type EmbeddedServer struct{}

// NewEmbeddedServer returns an error when NATS is not compiled in.
func NewEmbeddedServer(_ string) (*EmbeddedServer, error) {
	return nil, ErrNATSNotEnabled
}

// ClientURL is a stub.
func (s *EmbeddedServer) ClientURL() string {
	return ""
}

// Shutdown is a no-op stub.
func (s *EmbeddedServer) Shutdown(_ context.Context) error {
	return nil
}

// NATSTransport is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats to enable JetStream support.
type NATSTransport struct{}

// NewNATSTransport returns an error when NATS is not compiled in.
func NewNATSTransport(_ *config.NATSConfig, _ watermill.LoggerAdapter) (*NATSTransport, error) {
	return nil, ErrNATSNotEnabled
}

// Publisher returns nil for the stub implementation.
func (t *NATSTransport) Publisher() message.Publisher {
	return nil
}

// Subscriber returns nil for the stub implementation.
func (t *NATSTransport) Subscriber() message.Subscriber {
	return nil
}

// Close is a no-op stub.
func (t *NATSTransport) Close() error {
	return nil
}
