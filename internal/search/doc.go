// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

/*
Package search implements the multilingual character index.

Characters carry their localized names and aliases in SearchableNames
(lowercased at ingest), so a query in Korean, Japanese, or English
resolves to the same character. The index matches a query three ways,
strongest first:

  - exact: the query is one of a character's searchable names
  - prefix: a searchable name starts with the query (autocomplete)
  - mention: a searchable name appears inside a longer query, found
    with an Aho-Corasick automaton ("pikachu coloring pages")

Matches are merged per character keeping the strongest kind, then
ranked by kind, editorial popularity, and name. The index is built
from the catalog's character collection and rebuilt wholesale when
the catalog changes; lookups run against an immutable snapshot.
*/
package search
