// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package models

import (
	"testing"
)

func TestIsValidAgeGroup(t *testing.T) {
	tests := []struct {
		name string
		g    AgeGroup
		want bool
	}{
		{name: "child", g: AgeGroupChild, want: true},
		{name: "teen", g: AgeGroupTeen, want: true},
		{name: "adult", g: AgeGroupAdult, want: true},
		{name: "empty", g: AgeGroup(""), want: false},
		{name: "unknown", g: AgeGroup("toddler"), want: false},
		{name: "case sensitive", g: AgeGroup("Child"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAgeGroup(tt.g); got != tt.want {
				t.Errorf("IsValidAgeGroup(%q) = %v, want %v", tt.g, got, tt.want)
			}
		})
	}
}

func TestIsValidDifficulty(t *testing.T) {
	tests := []struct {
		name string
		d    Difficulty
		want bool
	}{
		{name: "easy", d: DifficultyEasy, want: true},
		{name: "medium", d: DifficultyMedium, want: true},
		{name: "hard", d: DifficultyHard, want: true},
		{name: "empty", d: Difficulty(""), want: false},
		{name: "unknown", d: Difficulty("expert"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidDifficulty(tt.d); got != tt.want {
				t.Errorf("IsValidDifficulty(%q) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestColoringPage_HasKeyword(t *testing.T) {
	page := ColoringPage{
		ID:       "page-1",
		Keywords: []string{"dragon", "Fire", "castle"},
	}

	tests := []struct {
		name    string
		keyword string
		want    bool
	}{
		{name: "exact match", keyword: "dragon", want: true},
		{name: "case-insensitive match", keyword: "fire", want: true},
		{name: "upper query", keyword: "CASTLE", want: true},
		{name: "no match", keyword: "ocean", want: false},
		{name: "substring is not a keyword match", keyword: "drag", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := page.HasKeyword(tt.keyword); got != tt.want {
				t.Errorf("HasKeyword(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestPreferences_IsZero(t *testing.T) {
	tests := []struct {
		name  string
		prefs Preferences
		want  bool
	}{
		{name: "empty", prefs: Preferences{}, want: true},
		{name: "characters set", prefs: Preferences{Characters: []string{"dragon"}}, want: false},
		{name: "difficulties set", prefs: Preferences{Difficulties: []Difficulty{DifficultyEasy}}, want: false},
		{name: "keywords set", prefs: Preferences{Keywords: []string{"space"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prefs.IsZero(); got != tt.want {
				t.Errorf("IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}
