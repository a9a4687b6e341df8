// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package eventprocessor implements the download event pipeline.
//
// Every completed download is published as a DownloadEvent on a
// Watermill message bus and consumed asynchronously. The consumer
// appends the download to the DuckDB interaction log, bumps the
// page's denormalized download counter in the catalog, and feeds the
// live activity broadcast. Deduplication happens at the log append:
// the event id doubles as the correlation key, so redelivered
// messages never produce a second row.
//
// Two transports are supported. The default is an in-process
// gochannel bus, which needs no external services and is what the
// test suite runs against. Building with -tags=nats swaps in NATS
// JetStream for multi-instance deployments; without the tag the NATS
// constructors return ErrNATSNotEnabled.
//
// The Router wraps Watermill's router with panic recovery,
// exponential backoff retry, and a poison queue for messages that
// exhaust their retries. Pipeline ties the pieces together from an
// EventsConfig.
package eventprocessor
