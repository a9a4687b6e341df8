// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package recommend

import (
	"testing"

	"github.com/coloratura-app/coloratura/internal/models"
)

func TestExcludeDownloaded(t *testing.T) {
	candidates := []ScoredPage{scored("pg-1", 3), scored("pg-2", 2), scored("pg-3", 1)}

	t.Run("removes owned pages", func(t *testing.T) {
		kept := excludeDownloaded(candidates, []string{"pg-1", "pg-3"})
		if got := itemIDsScored(kept); len(got) != 1 || got[0] != "pg-2" {
			t.Errorf("kept = %v, want [pg-2]", got)
		}
	})

	t.Run("empty history keeps everything", func(t *testing.T) {
		kept := excludeDownloaded(candidates, nil)
		if len(kept) != 3 {
			t.Errorf("kept = %d, want 3", len(kept))
		}
	})
}

func itemIDsScored(candidates []ScoredPage) []string {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Page.ID)
	}
	return ids
}

func TestMatchesPreferences(t *testing.T) {
	page := models.ColoringPage{
		ID:            "pg-1",
		CharacterName: "Ember the Dragon",
		Difficulty:    models.DifficultyEasy,
		Keywords:      []string{"dragon", "castle", "flames"},
	}

	tests := []struct {
		name  string
		prefs models.Preferences
		want  bool
	}{
		{
			name:  "character substring matches case-insensitively",
			prefs: models.Preferences{Characters: []string{"ember"}},
			want:  true,
		},
		{
			name:  "character substring in the middle of the name",
			prefs: models.Preferences{Characters: []string{"DRAG"}},
			want:  true,
		},
		{
			name:  "character mismatch",
			prefs: models.Preferences{Characters: []string{"luna"}},
			want:  false,
		},
		{
			name:  "difficulty in set",
			prefs: models.Preferences{Difficulties: []models.Difficulty{models.DifficultyEasy, models.DifficultyHard}},
			want:  true,
		},
		{
			name:  "difficulty outside set",
			prefs: models.Preferences{Difficulties: []models.Difficulty{models.DifficultyHard}},
			want:  false,
		},
		{
			name:  "keyword preference is a substring of a page keyword",
			prefs: models.Preferences{Keywords: []string{"flame"}},
			want:  true,
		},
		{
			name:  "keyword preference case-insensitive",
			prefs: models.Preferences{Keywords: []string{"CASTLE"}},
			want:  true,
		},
		{
			name:  "keyword mismatch",
			prefs: models.Preferences{Keywords: []string{"ocean"}},
			want:  false,
		},
		{
			name: "conjunction requires every supplied dimension",
			prefs: models.Preferences{
				Characters:   []string{"ember"},
				Difficulties: []models.Difficulty{models.DifficultyHard},
			},
			want: false,
		},
		{
			name: "conjunction passes when every dimension matches",
			prefs: models.Preferences{
				Characters:   []string{"ember"},
				Difficulties: []models.Difficulty{models.DifficultyEasy},
				Keywords:     []string{"castle"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesPreferences(&page, &tt.prefs); got != tt.want {
				t.Errorf("matchesPreferences() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterByPreferences_SingleDifficulty(t *testing.T) {
	candidates := []ScoredPage{
		{Page: models.ColoringPage{ID: "pg-1", Difficulty: models.DifficultyEasy}, Score: 3},
		{Page: models.ColoringPage{ID: "pg-2", Difficulty: models.DifficultyMedium}, Score: 2},
		{Page: models.ColoringPage{ID: "pg-3", Difficulty: models.DifficultyEasy}, Score: 1},
	}

	kept := filterByPreferences(candidates, &models.Preferences{
		Difficulties: []models.Difficulty{models.DifficultyEasy},
	})

	if len(kept) != 2 {
		t.Fatalf("kept = %d, want 2", len(kept))
	}
	for _, c := range kept {
		if c.Page.Difficulty != models.DifficultyEasy {
			t.Errorf("page %s has difficulty %q, want %q", c.Page.ID, c.Page.Difficulty, models.DifficultyEasy)
		}
	}
}
