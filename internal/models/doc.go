// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

/*
Package models defines the data structures shared across the Coloratura
service.

It is the single source of truth for catalog, account, and interaction
shapes. Packages higher in the stack (catalog store, interaction log,
recommendation engine, API) depend on these types; models depends on
nothing but the standard library.

Model Categories:

 1. Catalog Models:
    - ColoringPage: a single printable line-art item with audience and
      difficulty classification
    - Character: a catalog character with multilingual searchable names

 2. Account Models:
    - UserProfile: read-only projection of an account (declared age group,
      saved preferences, download allowance)
    - Preferences: explicit user-supplied content constraints

 3. Interaction Models:
    - DownloadRecord: one append-only interaction log row

 4. Newsletter Models:
    - Subscription: digest signup state

All JSON tags use the platform's public camelCase convention.
*/
package models
