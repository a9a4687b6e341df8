// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package models

import (
	"time"
)

// UserProfile is the account subsystem's view of a user as consumed by the
// recommendation and download pipelines. The profile is read-only here;
// account creation and mutation happen outside this service.
type UserProfile struct {
	// ID is the account identity key (matches the bearer token subject).
	ID string `json:"id"`

	// DisplayName is the user-chosen name.
	DisplayName string `json:"displayName,omitempty"`

	// Email is used for newsletter delivery only.
	Email string `json:"email,omitempty"`

	// AgeGroup is the user's declared age group. Empty when undeclared.
	AgeGroup AgeGroup `json:"ageGroup,omitempty"`

	// Preferences holds explicit content constraints the user saved.
	Preferences Preferences `json:"preferences,omitempty"`

	// DailyDownloadLimit caps downloads per rolling day. Zero means the
	// service default applies.
	DailyDownloadLimit int `json:"dailyDownloadLimit,omitempty"`

	// CreatedAt is the account creation time.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Preferences are explicit user-supplied content constraints, as opposed to
// behavioral signal inferred from download history. All dimensions are
// optional; an empty dimension imposes no constraint.
type Preferences struct {
	// Characters narrows results to pages whose character name contains
	// one of these substrings (case-insensitive).
	Characters []string `json:"characters,omitempty"`

	// Difficulties narrows results to pages with one of these levels.
	Difficulties []Difficulty `json:"difficulties,omitempty"`

	// Keywords narrows results to pages with at least one keyword
	// containing one of these substrings (case-insensitive).
	Keywords []string `json:"keywords,omitempty"`
}

// IsZero reports whether no preference dimension is set.
func (p Preferences) IsZero() bool {
	return len(p.Characters) == 0 && len(p.Difficulties) == 0 && len(p.Keywords) == 0
}
