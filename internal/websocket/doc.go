// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

/*
Package websocket provides the live activity feed for connected
frontend clients.

The download event consumer pushes every processed download into the
Hub, which fans it out to all connected WebSocket clients. The same
hub also carries catalog statistics refreshes and newsletter digest
notifications.

Key components:

  - Hub: central broker that manages client connections and broadcasts
  - Client: one WebSocket connection with separate read/write goroutines
  - Message: typed envelope ({"type": ..., "data": ...})

Message types:

  - download: one completed download (user, page, source, timestamp)
  - stats_update: catalog totals changed (after seeding or imports)
  - digest_published: a newsletter digest was generated
  - ping/pong: client liveness

The hub drains lifecycle events (register/unregister) before broadcast
messages and iterates clients in a stable order, so delivery order is
reproducible in tests. A client that cannot keep up has its send
buffer overflow and is dropped rather than blocking the hub.

The HTTP upgrade endpoint lives in internal/api; this package only
deals with connections that are already upgraded.
*/
package websocket
