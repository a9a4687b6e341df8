// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package strategies

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
)

func TestNewCollaborative(t *testing.T) {
	tests := []struct {
		name                string
		cfg                 CollaborativeConfig
		wantMinCoOccurrence int
		wantMaxSimilar      int
	}{
		{
			name:                "applies defaults for zero config",
			cfg:                 CollaborativeConfig{},
			wantMinCoOccurrence: 2,
			wantMaxSimilar:      10,
		},
		{
			name:                "uses provided config values",
			cfg:                 CollaborativeConfig{MinCoOccurrence: 3, MaxSimilarUsers: 5},
			wantMinCoOccurrence: 3,
			wantMaxSimilar:      5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCollaborative(tt.cfg, &stubCatalog{}, &stubInteractions{}, zerolog.Nop())
			if s.cfg.MinCoOccurrence != tt.wantMinCoOccurrence {
				t.Errorf("MinCoOccurrence = %d, want %d", s.cfg.MinCoOccurrence, tt.wantMinCoOccurrence)
			}
			if s.cfg.MaxSimilarUsers != tt.wantMaxSimilar {
				t.Errorf("MaxSimilarUsers = %d, want %d", s.cfg.MaxSimilarUsers, tt.wantMaxSimilar)
			}
			if s.Name() != recommend.StrategyCollaborative {
				t.Errorf("Name() = %q, want %q", s.Name(), recommend.StrategyCollaborative)
			}
			if !s.Personalized() {
				t.Error("Personalized() = false, want true")
			}
		})
	}
}

func TestCollaborative_Generate_SharedHistory(t *testing.T) {
	// User u downloaded a and b. Users v and w each downloaded a, b, and
	// c, so both share two downloads with u and c is the candidate.
	catalog := &stubCatalog{pages: []models.ColoringPage{
		{ID: "pg-a", AgeGroup: models.AgeGroupChild},
		{ID: "pg-b", AgeGroup: models.AgeGroupChild},
		{ID: "pg-c", AgeGroup: models.AgeGroupChild},
	}}
	interactions := &stubInteractions{
		downloadsByUser: map[string][]string{
			"u": {"pg-a", "pg-b"},
			"v": {"pg-a", "pg-b", "pg-c"},
			"w": {"pg-a", "pg-b", "pg-c"},
		},
		downloadersByPage: map[string][]string{
			"pg-a": {"u", "v", "w"},
			"pg-b": {"u", "v", "w"},
		},
	}

	s := NewCollaborative(CollaborativeConfig{}, catalog, interactions, zerolog.Nop())
	result, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if got := candidateIDs(result); len(got) != 1 || got[0] != "pg-c" {
		t.Fatalf("candidates = %v, want [pg-c]", got)
	}
	score, ok := candidateScore(result, "pg-c")
	if !ok || score != 2 {
		t.Errorf("score(pg-c) = %v, want 2 (one point per similar user)", score)
	}
	if result.Confidence != 0.2 {
		t.Errorf("confidence = %v, want 0.2 (two similar users over cap ten)", result.Confidence)
	}
	if result.Strategy != recommend.StrategyCollaborative {
		t.Errorf("strategy = %q, want %q", result.Strategy, recommend.StrategyCollaborative)
	}
}

func TestCollaborative_Generate_Empty(t *testing.T) {
	tests := []struct {
		name         string
		req          *recommend.Request
		interactions *stubInteractions
	}{
		{
			name:         "no resolved user",
			req:          &recommend.Request{UserID: "u"},
			interactions: &stubInteractions{},
		},
		{
			name:         "empty download history",
			req:          personalizedRequest("u", models.AgeGroupChild),
			interactions: &stubInteractions{downloadsByUser: map[string][]string{}},
		},
		{
			name: "single shared download is below the similarity threshold",
			req:  personalizedRequest("u", models.AgeGroupChild),
			interactions: &stubInteractions{
				downloadsByUser: map[string][]string{
					"u": {"pg-a"},
					"v": {"pg-a", "pg-c"},
				},
				downloadersByPage: map[string][]string{
					"pg-a": {"u", "v"},
				},
			},
		},
		{
			name: "similar users own nothing new",
			req:  personalizedRequest("u", models.AgeGroupChild),
			interactions: &stubInteractions{
				downloadsByUser: map[string][]string{
					"u": {"pg-a", "pg-b"},
					"v": {"pg-a", "pg-b"},
				},
				downloadersByPage: map[string][]string{
					"pg-a": {"u", "v"},
					"pg-b": {"u", "v"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCollaborative(CollaborativeConfig{}, &stubCatalog{}, tt.interactions, zerolog.Nop())
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

func TestCollaborative_Generate_AgeGroupFilter(t *testing.T) {
	// Candidate pg-adult matches by co-occurrence but not by audience.
	catalog := &stubCatalog{pages: []models.ColoringPage{
		{ID: "pg-child", AgeGroup: models.AgeGroupChild},
		{ID: "pg-adult", AgeGroup: models.AgeGroupAdult},
	}}
	interactions := &stubInteractions{
		downloadsByUser: map[string][]string{
			"u": {"pg-a", "pg-b"},
			"v": {"pg-a", "pg-b", "pg-child", "pg-adult"},
		},
		downloadersByPage: map[string][]string{
			"pg-a": {"u", "v"},
			"pg-b": {"u", "v"},
		},
	}

	s := NewCollaborative(CollaborativeConfig{}, catalog, interactions, zerolog.Nop())

	t.Run("explicit override scopes candidates", func(t *testing.T) {
		req := personalizedRequest("u", models.AgeGroupAdult)
		req.AgeGroup = models.AgeGroupChild
		result, err := s.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if got := candidateIDs(result); len(got) != 1 || got[0] != "pg-child" {
			t.Errorf("candidates = %v, want [pg-child]", got)
		}
	})

	t.Run("declared age group scopes candidates", func(t *testing.T) {
		result, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupAdult))
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if got := candidateIDs(result); len(got) != 1 || got[0] != "pg-adult" {
			t.Errorf("candidates = %v, want [pg-adult]", got)
		}
	})

	t.Run("no age group keeps every candidate", func(t *testing.T) {
		result, err := s.Generate(context.Background(), personalizedRequest("u", ""))
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if got := candidateIDs(result); len(got) != 2 {
			t.Errorf("candidates = %v, want both age groups", got)
		}
	})
}

func TestCollaborative_Generate_NeighborCap(t *testing.T) {
	// Twelve users each share both of u's downloads; only the cap of ten
	// contributes to scoring and confidence saturates at 1.0.
	downloadsByUser := map[string][]string{"u": {"pg-a", "pg-b"}}
	downloaders := []string{"u"}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("v-%02d", i)
		downloadsByUser[id] = []string{"pg-a", "pg-b", "pg-c"}
		downloaders = append(downloaders, id)
	}
	interactions := &stubInteractions{
		downloadsByUser: downloadsByUser,
		downloadersByPage: map[string][]string{
			"pg-a": downloaders,
			"pg-b": downloaders,
		},
	}
	catalog := &stubCatalog{pages: []models.ColoringPage{
		{ID: "pg-c", AgeGroup: models.AgeGroupChild},
	}}

	s := NewCollaborative(CollaborativeConfig{}, catalog, interactions, zerolog.Nop())
	result, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", result.Confidence)
	}
	score, _ := candidateScore(result, "pg-c")
	if score != 10 {
		t.Errorf("score(pg-c) = %v, want 10 (capped neighborhood)", score)
	}
}

func TestCollaborative_Generate_ConfidenceScaling(t *testing.T) {
	for _, neighborCount := range []int{1, 3, 7, 10} {
		downloadsByUser := map[string][]string{"u": {"pg-a", "pg-b"}}
		downloaders := []string{"u"}
		for i := 0; i < neighborCount; i++ {
			id := fmt.Sprintf("v-%02d", i)
			downloadsByUser[id] = []string{"pg-a", "pg-b", "pg-c"}
			downloaders = append(downloaders, id)
		}
		interactions := &stubInteractions{
			downloadsByUser: downloadsByUser,
			downloadersByPage: map[string][]string{
				"pg-a": downloaders,
				"pg-b": downloaders,
			},
		}
		catalog := &stubCatalog{pages: []models.ColoringPage{{ID: "pg-c", AgeGroup: models.AgeGroupChild}}}

		s := NewCollaborative(CollaborativeConfig{}, catalog, interactions, zerolog.Nop())
		result, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
		if err != nil {
			t.Fatalf("neighbors=%d: Generate() error = %v", neighborCount, err)
		}

		want := float64(neighborCount) / 10.0
		if math.Abs(result.Confidence-want) > 1e-9 {
			t.Errorf("neighbors=%d: confidence = %v, want %v", neighborCount, result.Confidence, want)
		}
	}
}

func TestCollaborative_Generate_AccessorErrors(t *testing.T) {
	upstreamErr := errors.New("store unreachable")

	t.Run("history fetch failure", func(t *testing.T) {
		s := NewCollaborative(CollaborativeConfig{}, &stubCatalog{}, &stubInteractions{err: upstreamErr}, zerolog.Nop())
		_, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
		if !errors.Is(err, upstreamErr) {
			t.Errorf("Generate() error = %v, want wrapped %v", err, upstreamErr)
		}
	})

	t.Run("neighbor fetch failure during fan-out", func(t *testing.T) {
		interactions := &stubInteractions{
			downloadsByUser: map[string][]string{
				"u": {"pg-a", "pg-b"},
				"v": {"pg-a", "pg-b", "pg-c"},
			},
			downloadersByPage: map[string][]string{
				"pg-a": {"u", "v"},
				"pg-b": {"u", "v"},
			},
			userErrs: map[string]error{"v": upstreamErr},
		}
		s := NewCollaborative(CollaborativeConfig{}, &stubCatalog{}, interactions, zerolog.Nop())
		_, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
		if !errors.Is(err, upstreamErr) {
			t.Errorf("Generate() error = %v, want wrapped %v", err, upstreamErr)
		}
	})

	t.Run("catalog resolution failure", func(t *testing.T) {
		interactions := &stubInteractions{
			downloadsByUser: map[string][]string{
				"u": {"pg-a", "pg-b"},
				"v": {"pg-a", "pg-b", "pg-c"},
			},
			downloadersByPage: map[string][]string{
				"pg-a": {"u", "v"},
				"pg-b": {"u", "v"},
			},
		}
		s := NewCollaborative(CollaborativeConfig{}, &stubCatalog{err: upstreamErr}, interactions, zerolog.Nop())
		_, err := s.Generate(context.Background(), personalizedRequest("u", models.AgeGroupChild))
		if !errors.Is(err, upstreamErr) {
			t.Errorf("Generate() error = %v, want wrapped %v", err, upstreamErr)
		}
	})
}
