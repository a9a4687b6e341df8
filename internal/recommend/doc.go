// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package recommend implements the tiered recommendation pipeline that
// powers the /recommendations endpoint.
//
// The engine tries candidate-generation strategies in registration order
// and stops at the first one that yields candidates:
//
//  1. collaborative_filtering: items downloaded by users with overlapping
//     download history (requires a resolved user with history)
//  2. content_based: items sharing keywords and difficulty with the user's
//     past downloads (requires a resolved user with history)
//  3. hybrid: popularity-ranked fallback with per-call jitter, always
//     available; reported as age_based_popularity for anonymous requests
//     scoped to an explicit age group
//
// A strategy that errors or produces nothing is logged and skipped, so
// personalization degrades to popularity rather than failing the request.
// A chain that runs cleanly without finding anything yields an empty
// response; only when every strategy, including the fallback, fails with
// an error does Recommend return ErrAllStrategiesExhausted.
//
// Each strategy emits its own confidence value and the engine passes it
// through unchanged. Candidates flow through the exclusion and preference
// filters, then the finalizer sorts by score, drops duplicate ids, and
// truncates to the requested limit.
//
// The package depends on the stores only through the CatalogAccessor,
// InteractionAccessor, and UserDirectory interfaces so each strategy can
// be unit-tested against in-memory fakes.
package recommend
