// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package strategies holds the candidate generators behind the
// recommendation engine's fallback chain: collaborative filtering over
// shared download histories, content-based matching over keyword and
// difficulty affinity, and the always-available popularity blend.
//
// Each strategy is self-contained: it fetches what it needs through the
// accessor interfaces injected at construction and never shares state
// with the others. Wiring order decides fallback order.
package strategies
