// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/models"
)

// SeedDemoData populates an empty catalog with a demo character roster
// and page set so a fresh install has something to browse and the
// popularity fallback has a pool to draw from. A non-empty catalog is
// left untouched.
func SeedDemoData(ctx context.Context, store *Store) error {
	count, err := store.CountPages(ctx)
	if err != nil {
		return fmt.Errorf("count pages: %w", err)
	}
	if count > 0 {
		logging.Debug().Int("pages", count).Msg("catalog already populated, skipping seed")
		return nil
	}

	for i := range demoCharacters {
		if err := store.UpsertCharacter(ctx, &demoCharacters[i]); err != nil {
			return fmt.Errorf("seed character %s: %w", demoCharacters[i].ID, err)
		}
	}
	for i := range demoPages {
		if err := store.UpsertPage(ctx, &demoPages[i]); err != nil {
			return fmt.Errorf("seed page %s: %w", demoPages[i].ID, err)
		}
	}

	logging.Info().
		Int("characters", len(demoCharacters)).
		Int("pages", len(demoPages)).
		Msg("seeded demo catalog")
	return nil
}

var demoCharacters = []models.Character{
	{
		ID: "ember-dragon", Name: "Ember the Dragon", Type: "fantasy",
		OriginCountry: "wales",
		SearchableNames: []string{
			"ember", "dragon", "drache", "dragón", "draak", "drago",
		},
		Popularity: 95,
		AgeGroups:  []models.AgeGroup{models.AgeGroupChild, models.AgeGroupTeen},
		Themes:     []string{"fantasy", "castles"},
		Difficulties: []models.Difficulty{
			models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard,
		},
	},
	{
		ID: "luna-fox", Name: "Luna the Fox", Type: "animal",
		OriginCountry: "finland",
		SearchableNames: []string{
			"luna", "fox", "renard", "fuchs", "zorro", "vos", "volpe",
		},
		Popularity: 88,
		AgeGroups:  []models.AgeGroup{models.AgeGroupChild},
		Themes:     []string{"forest", "night sky"},
		Difficulties: []models.Difficulty{
			models.DifficultyEasy, models.DifficultyMedium,
		},
	},
	{
		ID: "barnaby-bear", Name: "Barnaby Bear", Type: "animal",
		OriginCountry: "canada",
		SearchableNames: []string{
			"barnaby", "bear", "ours", "bär", "oso", "beer", "orso",
		},
		Popularity: 72,
		AgeGroups:  []models.AgeGroup{models.AgeGroupChild},
		Themes:     []string{"forest", "picnic"},
		Difficulties: []models.Difficulty{
			models.DifficultyEasy,
		},
	},
	{
		ID: "pip-penguin", Name: "Pip the Penguin", Type: "animal",
		OriginCountry: "argentina",
		SearchableNames: []string{
			"pip", "penguin", "pingouin", "pinguin", "pingüino", "pinguïn",
		},
		Popularity: 81,
		AgeGroups:  []models.AgeGroup{models.AgeGroupChild, models.AgeGroupTeen},
		Themes:     []string{"antarctic", "winter"},
		Difficulties: []models.Difficulty{
			models.DifficultyEasy, models.DifficultyMedium,
		},
	},
	{
		ID: "coral-mermaid", Name: "Coral the Mermaid", Type: "fantasy",
		OriginCountry: "greece",
		SearchableNames: []string{
			"coral", "mermaid", "sirène", "meerjungfrau", "sirena", "zeemeermin",
		},
		Popularity: 90,
		AgeGroups:  []models.AgeGroup{models.AgeGroupChild, models.AgeGroupTeen},
		Themes:     []string{"ocean", "coral reef"},
		Difficulties: []models.Difficulty{
			models.DifficultyMedium, models.DifficultyHard,
		},
	},
	{
		ID: "sir-thistle", Name: "Sir Thistle", Type: "fantasy",
		OriginCountry: "scotland",
		SearchableNames: []string{
			"thistle", "knight", "chevalier", "ritter", "caballero", "ridder",
		},
		Popularity: 64,
		AgeGroups:  []models.AgeGroup{models.AgeGroupTeen, models.AgeGroupAdult},
		Themes:     []string{"castles", "heraldry"},
		Difficulties: []models.Difficulty{
			models.DifficultyMedium, models.DifficultyHard,
		},
	},
	{
		ID: "willow-owl", Name: "Willow the Owl", Type: "animal",
		OriginCountry: "germany",
		SearchableNames: []string{
			"willow", "owl", "hibou", "eule", "búho", "uil", "gufo",
		},
		Popularity: 77,
		AgeGroups:  []models.AgeGroup{models.AgeGroupTeen, models.AgeGroupAdult},
		Themes:     []string{"forest", "night sky"},
		Difficulties: []models.Difficulty{
			models.DifficultyMedium, models.DifficultyHard,
		},
	},
	{
		ID: "rex-robot", Name: "Rex the Robot", Type: "machine",
		OriginCountry: "japan",
		SearchableNames: []string{
			"rex", "robot", "roboter", "robotto",
		},
		Popularity: 83,
		AgeGroups:  []models.AgeGroup{models.AgeGroupChild, models.AgeGroupTeen},
		Themes:     []string{"space", "workshop"},
		Difficulties: []models.Difficulty{
			models.DifficultyEasy, models.DifficultyMedium,
		},
	},
	{
		ID: "mochi-cat", Name: "Mochi the Cat", Type: "animal",
		OriginCountry: "japan",
		SearchableNames: []string{
			"mochi", "cat", "chat", "katze", "gato", "kat", "neko",
		},
		Popularity: 93,
		AgeGroups:  []models.AgeGroup{models.AgeGroupChild, models.AgeGroupAdult},
		Themes:     []string{"home", "garden"},
		Difficulties: []models.Difficulty{
			models.DifficultyEasy, models.DifficultyHard,
		},
	},
	{
		ID: "captain-finn", Name: "Captain Finn", Type: "adventure",
		OriginCountry: "portugal",
		SearchableNames: []string{
			"finn", "captain", "sailor", "marin", "seemann", "marinero",
		},
		Popularity: 58,
		AgeGroups:  []models.AgeGroup{models.AgeGroupChild, models.AgeGroupTeen},
		Themes:     []string{"ocean", "islands"},
		Difficulties: []models.Difficulty{
			models.DifficultyEasy, models.DifficultyMedium,
		},
	},
}

var seedBase = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func demoPage(id, characterID, characterName, characterType string, keywords []string,
	difficulty models.Difficulty, ageGroup models.AgeGroup, theme string,
	downloads int64, dayOffset int) models.ColoringPage {
	return models.ColoringPage{
		ID:            id,
		CharacterName: characterName,
		CharacterType: characterType,
		Keywords:      keywords,
		Difficulty:    difficulty,
		AgeGroup:      ageGroup,
		Theme:         theme,
		ImageURL:      fmt.Sprintf("/assets/pages/%s.png", id),
		ThumbnailURL:  fmt.Sprintf("/assets/thumbs/%s.png", id),
		DownloadCount: downloads,
		CreatedAt:     seedBase.AddDate(0, 0, dayOffset),
	}
}

var demoPages = []models.ColoringPage{
	demoPage("pg-ember-01", "ember-dragon", "Ember the Dragon", "fantasy",
		[]string{"dragon", "castle", "flames"},
		models.DifficultyEasy, models.AgeGroupChild, "fantasy", 950, 0),
	demoPage("pg-ember-02", "ember-dragon", "Ember the Dragon", "fantasy",
		[]string{"dragon", "mountains", "clouds"},
		models.DifficultyMedium, models.AgeGroupChild, "fantasy", 720, 2),
	demoPage("pg-ember-03", "ember-dragon", "Ember the Dragon", "fantasy",
		[]string{"dragon", "treasure", "cave"},
		models.DifficultyHard, models.AgeGroupTeen, "fantasy", 410, 4),
	demoPage("pg-luna-01", "luna-fox", "Luna the Fox", "animal",
		[]string{"fox", "forest", "moon"},
		models.DifficultyEasy, models.AgeGroupChild, "forest", 860, 1),
	demoPage("pg-luna-02", "luna-fox", "Luna the Fox", "animal",
		[]string{"fox", "snow", "stars"},
		models.DifficultyMedium, models.AgeGroupChild, "night sky", 540, 3),
	demoPage("pg-barnaby-01", "barnaby-bear", "Barnaby Bear", "animal",
		[]string{"bear", "honey", "picnic"},
		models.DifficultyEasy, models.AgeGroupChild, "picnic", 630, 5),
	demoPage("pg-barnaby-02", "barnaby-bear", "Barnaby Bear", "animal",
		[]string{"bear", "river", "fish"},
		models.DifficultyEasy, models.AgeGroupChild, "forest", 380, 8),
	demoPage("pg-pip-01", "pip-penguin", "Pip the Penguin", "animal",
		[]string{"penguin", "ice", "fish"},
		models.DifficultyEasy, models.AgeGroupChild, "antarctic", 700, 6),
	demoPage("pg-pip-02", "pip-penguin", "Pip the Penguin", "animal",
		[]string{"penguin", "sledding", "snow"},
		models.DifficultyMedium, models.AgeGroupTeen, "winter", 290, 9),
	demoPage("pg-coral-01", "coral-mermaid", "Coral the Mermaid", "fantasy",
		[]string{"mermaid", "ocean", "shells"},
		models.DifficultyMedium, models.AgeGroupChild, "ocean", 810, 2),
	demoPage("pg-coral-02", "coral-mermaid", "Coral the Mermaid", "fantasy",
		[]string{"mermaid", "coral", "fish"},
		models.DifficultyMedium, models.AgeGroupTeen, "coral reef", 520, 7),
	demoPage("pg-coral-03", "coral-mermaid", "Coral the Mermaid", "fantasy",
		[]string{"mermaid", "shipwreck", "treasure"},
		models.DifficultyHard, models.AgeGroupTeen, "ocean", 330, 11),
	demoPage("pg-thistle-01", "sir-thistle", "Sir Thistle", "fantasy",
		[]string{"knight", "castle", "shield"},
		models.DifficultyMedium, models.AgeGroupTeen, "castles", 440, 4),
	demoPage("pg-thistle-02", "sir-thistle", "Sir Thistle", "fantasy",
		[]string{"knight", "tournament", "banners"},
		models.DifficultyHard, models.AgeGroupAdult, "heraldry", 260, 12),
	demoPage("pg-willow-01", "willow-owl", "Willow the Owl", "animal",
		[]string{"owl", "forest", "moon"},
		models.DifficultyMedium, models.AgeGroupTeen, "night sky", 480, 3),
	demoPage("pg-willow-02", "willow-owl", "Willow the Owl", "animal",
		[]string{"owl", "mandala", "feathers"},
		models.DifficultyHard, models.AgeGroupAdult, "forest", 590, 10),
	demoPage("pg-rex-01", "rex-robot", "Rex the Robot", "machine",
		[]string{"robot", "rocket", "stars"},
		models.DifficultyEasy, models.AgeGroupChild, "space", 670, 1),
	demoPage("pg-rex-02", "rex-robot", "Rex the Robot", "machine",
		[]string{"robot", "gears", "workshop"},
		models.DifficultyMedium, models.AgeGroupTeen, "workshop", 350, 6),
	demoPage("pg-mochi-01", "mochi-cat", "Mochi the Cat", "animal",
		[]string{"cat", "yarn", "basket"},
		models.DifficultyEasy, models.AgeGroupChild, "home", 890, 0),
	demoPage("pg-mochi-02", "mochi-cat", "Mochi the Cat", "animal",
		[]string{"cat", "garden", "butterflies"},
		models.DifficultyEasy, models.AgeGroupChild, "garden", 610, 5),
	demoPage("pg-mochi-03", "mochi-cat", "Mochi the Cat", "animal",
		[]string{"cat", "mandala", "flowers"},
		models.DifficultyHard, models.AgeGroupAdult, "garden", 430, 9),
	demoPage("pg-finn-01", "captain-finn", "Captain Finn", "adventure",
		[]string{"sailor", "ship", "waves"},
		models.DifficultyEasy, models.AgeGroupChild, "ocean", 310, 7),
	demoPage("pg-finn-02", "captain-finn", "Captain Finn", "adventure",
		[]string{"sailor", "map", "island"},
		models.DifficultyMedium, models.AgeGroupTeen, "islands", 240, 13),
	demoPage("pg-finn-03", "captain-finn", "Captain Finn", "adventure",
		[]string{"sailor", "lighthouse", "seagulls"},
		models.DifficultyMedium, models.AgeGroupChild, "ocean", 180, 15),
}
