// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package models

// Character is a catalog character with multilingual search support.
//
// SearchableNames carries the character's name in every supported language
// plus common misspellings, all lowercased at ingest time. The search index
// matches user queries against this list so a query in Korean or Japanese
// finds the same character as its English name.
type Character struct {
	// ID is the document key in the catalog store.
	ID string `json:"id"`

	// Name is the canonical English display name.
	Name string `json:"name"`

	// Type is the archetype grouping (e.g. "animal", "fantasy", "robot").
	Type string `json:"type,omitempty"`

	// OriginCountry is the character's cultural origin, used for regional
	// catalog curation.
	OriginCountry string `json:"originCountry,omitempty"`

	// SearchableNames holds lowercased localized names and aliases.
	SearchableNames []string `json:"searchableNames"`

	// Popularity is a coarse editorial popularity rank (higher is more
	// popular); used to order search results.
	Popularity int `json:"popularity"`

	// AgeGroups lists the audiences this character has pages for.
	AgeGroups []AgeGroup `json:"ageGroups,omitempty"`

	// Themes lists the themes this character appears in.
	Themes []string `json:"themes,omitempty"`

	// Difficulties lists the difficulty levels available for this character.
	Difficulties []Difficulty `json:"difficulties,omitempty"`
}
