// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package strategies

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
)

func TestContentBased_Generate_AttributeMatch(t *testing.T) {
	// User u downloaded only pg-a (easy, dragon). Candidate pg-b shares
	// the keyword and the difficulty, so it scores the keyword weight
	// plus the difficulty weight plus the popularity term.
	catalog := &stubCatalog{pages: []models.ColoringPage{
		{ID: "pg-a", AgeGroup: models.AgeGroupChild, Difficulty: models.DifficultyEasy, Keywords: []string{"dragon"}},
		{ID: "pg-b", AgeGroup: models.AgeGroupChild, Difficulty: models.DifficultyEasy, Keywords: []string{"dragon", "fire"}, DownloadCount: 10},
	}}
	interactions := &stubInteractions{
		downloadsByUser: map[string][]string{"u": {"pg-a"}},
	}

	s := NewContentBased(ContentBasedConfig{}, catalog, interactions, zerolog.Nop())
	result, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if got := candidateIDs(result); len(got) != 1 || got[0] != "pg-b" {
		t.Fatalf("candidates = %v, want [pg-b]", got)
	}
	score, _ := candidateScore(result, "pg-b")
	want := 0.5 + 0.3 + 0.2*math.Log10(11)
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("score(pg-b) = %v, want %v", score, want)
	}
	if score < 0.8 {
		t.Errorf("score(pg-b) = %v, want >= 0.8 (keyword plus difficulty)", score)
	}
	if result.Confidence != contentConfidence {
		t.Errorf("confidence = %v, want %v", result.Confidence, contentConfidence)
	}
	if result.Strategy != recommend.StrategyContentBased {
		t.Errorf("strategy = %q, want %q", result.Strategy, recommend.StrategyContentBased)
	}
}

func TestContentBased_Generate_ExcludesOwnDownloads(t *testing.T) {
	catalog := &stubCatalog{pages: []models.ColoringPage{
		{ID: "pg-a", AgeGroup: models.AgeGroupChild, Difficulty: models.DifficultyEasy, Keywords: []string{"dragon"}},
		{ID: "pg-b", AgeGroup: models.AgeGroupChild, Difficulty: models.DifficultyEasy, Keywords: []string{"dragon"}},
	}}
	interactions := &stubInteractions{
		downloadsByUser: map[string][]string{"u": {"pg-a"}},
	}

	s := NewContentBased(ContentBasedConfig{}, catalog, interactions, zerolog.Nop())
	result, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, c := range result.Candidates {
		if c.Page.ID == "pg-a" {
			t.Error("candidates include an already-downloaded page")
		}
	}
}

func TestContentBased_Generate_Empty(t *testing.T) {
	tests := []struct {
		name         string
		req          *recommend.Request
		catalog      *stubCatalog
		interactions *stubInteractions
	}{
		{
			name:         "no resolved user",
			req:          &recommend.Request{UserID: "u"},
			catalog:      &stubCatalog{},
			interactions: &stubInteractions{},
		},
		{
			name:         "empty download history",
			req:          personalizedRequest("u", models.AgeGroupChild),
			catalog:      &stubCatalog{},
			interactions: &stubInteractions{downloadsByUser: map[string][]string{}},
		},
		{
			name: "history without keyword metadata",
			req:  personalizedRequest("u", models.AgeGroupChild),
			catalog: &stubCatalog{pages: []models.ColoringPage{
				{ID: "pg-a", AgeGroup: models.AgeGroupChild, Difficulty: models.DifficultyEasy},
			}},
			interactions: &stubInteractions{downloadsByUser: map[string][]string{"u": {"pg-a"}}},
		},
		{
			name: "no catalog overlap beyond the history",
			req:  personalizedRequest("u", models.AgeGroupChild),
			catalog: &stubCatalog{pages: []models.ColoringPage{
				{ID: "pg-a", AgeGroup: models.AgeGroupChild, Keywords: []string{"dragon"}},
				{ID: "pg-b", AgeGroup: models.AgeGroupChild, Keywords: []string{"ocean"}},
			}},
			interactions: &stubInteractions{downloadsByUser: map[string][]string{"u": {"pg-a"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewContentBased(ContentBasedConfig{}, tt.catalog, tt.interactions, zerolog.Nop())
			result, err := s.Generate(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(result.Candidates) != 0 {
				t.Errorf("candidates = %d, want 0", len(result.Candidates))
			}
		})
	}
}

func TestPreferredKeywords(t *testing.T) {
	page := func(id string, keywords ...string) models.ColoringPage {
		return models.ColoringPage{ID: id, Keywords: keywords}
	}

	tests := []struct {
		name    string
		history []models.ColoringPage
		max     int
		want    []string
	}{
		{
			name: "ranks by frequency",
			history: []models.ColoringPage{
				page("a", "castle", "dragon"),
				page("b", "dragon", "fire"),
				page("c", "dragon", "castle"),
			},
			max:  2,
			want: []string{"dragon", "castle"},
		},
		{
			name: "ties break by first appearance",
			history: []models.ColoringPage{
				page("a", "fox", "owl"),
				page("b", "owl", "fox"),
			},
			max:  2,
			want: []string{"fox", "owl"},
		},
		{
			name: "lowercases and merges case variants",
			history: []models.ColoringPage{
				page("a", "Dragon"),
				page("b", "dragon"),
				page("c", "castle"),
			},
			max:  1,
			want: []string{"dragon"},
		},
		{
			name: "caps the profile size",
			history: []models.ColoringPage{
				page("a", "one", "two", "three", "four", "five", "six", "seven"),
			},
			max:  5,
			want: []string{"one", "two", "three", "four", "five"},
		},
		{
			name:    "empty history",
			history: nil,
			max:     5,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preferredKeywords(tt.history, tt.max)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("preferredKeywords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreferredDifficulties(t *testing.T) {
	page := func(d models.Difficulty) models.ColoringPage {
		return models.ColoringPage{Difficulty: d}
	}

	history := []models.ColoringPage{
		page(models.DifficultyEasy),
		page(models.DifficultyMedium),
		page(models.DifficultyMedium),
		page(models.DifficultyHard),
		page(models.DifficultyMedium),
		page(models.DifficultyHard),
	}

	got := preferredDifficulties(history, 2)
	want := []models.Difficulty{models.DifficultyMedium, models.DifficultyHard}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("preferredDifficulties() = %v, want %v", got, want)
	}
}

func TestContentBased_Generate_KeywordCapDrivesQuery(t *testing.T) {
	// Six distinct keywords with skewed frequencies: only the top five
	// may produce candidates. pg-target matches solely on the sixth
	// keyword, so it must not appear.
	history := []models.ColoringPage{
		{ID: "h1", Keywords: []string{"k1", "k2", "k3"}},
		{ID: "h2", Keywords: []string{"k1", "k2", "k3"}},
		{ID: "h3", Keywords: []string{"k1", "k4", "k5"}},
		{ID: "h4", Keywords: []string{"k4", "k5", "k6"}},
	}
	catalog := &stubCatalog{pages: append(history, models.ColoringPage{
		ID: "pg-target", AgeGroup: models.AgeGroupChild, Keywords: []string{"k6"},
	})}
	interactions := &stubInteractions{
		downloadsByUser: map[string][]string{"u": {"h1", "h2", "h3", "h4"}},
	}

	s := NewContentBased(ContentBasedConfig{}, catalog, interactions, zerolog.Nop())
	result, err := s.Generate(context.Background(), personalizedRequest("u", ""))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, found := candidateScore(result, "pg-target"); found {
		t.Error("page matching only the sixth-ranked keyword should be outside the profile")
	}
}

func TestContentBased_Generate_AccessorErrors(t *testing.T) {
	upstreamErr := errors.New("store unreachable")

	t.Run("history fetch failure", func(t *testing.T) {
		s := NewContentBased(ContentBasedConfig{}, &stubCatalog{}, &stubInteractions{err: upstreamErr}, zerolog.Nop())
		_, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
		if !errors.Is(err, upstreamErr) {
			t.Errorf("Generate() error = %v, want wrapped %v", err, upstreamErr)
		}
	})

	t.Run("catalog failure", func(t *testing.T) {
		interactions := &stubInteractions{downloadsByUser: map[string][]string{"u": {"pg-a"}}}
		s := NewContentBased(ContentBasedConfig{}, &stubCatalog{err: upstreamErr}, interactions, zerolog.Nop())
		_, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
		if !errors.Is(err, upstreamErr) {
			t.Errorf("Generate() error = %v, want wrapped %v", err, upstreamErr)
		}
	})
}
