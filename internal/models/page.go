// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package models

import (
	"strings"
	"time"
)

// AgeGroup classifies a coloring page's intended audience.
type AgeGroup string

const (
	// AgeGroupChild targets ages roughly 3-9.
	AgeGroupChild AgeGroup = "child"

	// AgeGroupTeen targets ages roughly 10-17.
	AgeGroupTeen AgeGroup = "teen"

	// AgeGroupAdult targets detailed designs for adults.
	AgeGroupAdult AgeGroup = "adult"
)

// ValidAgeGroups contains all valid age groups.
var ValidAgeGroups = []AgeGroup{AgeGroupChild, AgeGroupTeen, AgeGroupAdult}

// IsValidAgeGroup checks whether g is a known age group.
func IsValidAgeGroup(g AgeGroup) bool {
	for _, valid := range ValidAgeGroups {
		if g == valid {
			return true
		}
	}
	return false
}

// Difficulty classifies line density and detail level of a page.
type Difficulty string

const (
	// DifficultyEasy has thick outlines and large regions.
	DifficultyEasy Difficulty = "easy"

	// DifficultyMedium has moderate detail.
	DifficultyMedium Difficulty = "medium"

	// DifficultyHard has fine detail and intricate patterns.
	DifficultyHard Difficulty = "hard"
)

// ValidDifficulties contains all valid difficulty levels.
var ValidDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValidDifficulty checks whether d is a known difficulty.
func IsValidDifficulty(d Difficulty) bool {
	for _, valid := range ValidDifficulties {
		if d == valid {
			return true
		}
	}
	return false
}

// ColoringPage is a single catalog item.
//
// Pages are immutable for the duration of a recommendation call.
// DownloadCount is monotonically non-decreasing and is mutated only by the
// download event consumer, never by the recommendation subsystem.
type ColoringPage struct {
	// ID is the document key in the catalog store.
	ID string `json:"id"`

	// CharacterName is the display name of the featured character.
	CharacterName string `json:"characterName"`

	// CharacterType groups characters by franchise-independent archetype
	// (e.g. "animal", "fantasy", "vehicle").
	CharacterType string `json:"characterType,omitempty"`

	// Keywords describe the page content. Order is irrelevant; matching is
	// set-based and case-insensitive.
	Keywords []string `json:"keywords"`

	// Difficulty is the line-art complexity level.
	Difficulty Difficulty `json:"difficulty"`

	// AgeGroup is the intended audience.
	AgeGroup AgeGroup `json:"ageGroup"`

	// Theme is an optional thematic grouping (e.g. "ocean", "space").
	Theme string `json:"theme,omitempty"`

	// ImageURL points at the printable full-resolution line art.
	ImageURL string `json:"imageUrl,omitempty"`

	// ThumbnailURL points at the preview rendition.
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`

	// DownloadCount is the lifetime number of successful downloads.
	DownloadCount int64 `json:"downloadCount"`

	// CreatedAt is when the page entered the catalog.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// HasKeyword reports whether the page carries the exact keyword,
// compared case-insensitively.
func (p *ColoringPage) HasKeyword(keyword string) bool {
	for _, k := range p.Keywords {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}
