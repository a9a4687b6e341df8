// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package recommend

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/models"
)

// applyFilters runs the exclusion and preference filters over the
// selected strategy's candidates. Filters only remove; they never
// rescore or reorder.
func (e *Engine) applyFilters(ctx context.Context, req *Request, candidates []ScoredPage, logger zerolog.Logger) []ScoredPage {
	kept := candidates

	if req.ExcludeDownloaded && req.UserID != "" && e.interactions != nil {
		// Fresh lookup on purpose: the generator may have worked from a
		// cached result or never needed the full history.
		downloaded, err := e.interactions.GetDownloadsByUser(ctx, req.UserID)
		if err != nil {
			logger.Warn().Err(err).Msg("download history unavailable, exclude-downloaded filter skipped")
		} else {
			kept = excludeDownloaded(kept, downloaded)
		}
	}

	if req.Preferences != nil && !req.Preferences.IsZero() {
		kept = filterByPreferences(kept, req.Preferences)
	}

	return kept
}

func excludeDownloaded(candidates []ScoredPage, downloaded []string) []ScoredPage {
	if len(downloaded) == 0 {
		return candidates
	}
	owned := make(map[string]struct{}, len(downloaded))
	for _, id := range downloaded {
		owned[id] = struct{}{}
	}

	kept := make([]ScoredPage, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := owned[c.Page.ID]; skip {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// filterByPreferences keeps candidates passing every supplied preference
// dimension. Dimensions left empty impose no constraint.
func filterByPreferences(candidates []ScoredPage, prefs *models.Preferences) []ScoredPage {
	kept := make([]ScoredPage, 0, len(candidates))
	for _, c := range candidates {
		if matchesPreferences(&c.Page, prefs) {
			kept = append(kept, c)
		}
	}
	return kept
}

func matchesPreferences(page *models.ColoringPage, prefs *models.Preferences) bool {
	if len(prefs.Characters) > 0 && !matchesCharacter(page.CharacterName, prefs.Characters) {
		return false
	}
	if len(prefs.Difficulties) > 0 && !containsDifficulty(prefs.Difficulties, page.Difficulty) {
		return false
	}
	if len(prefs.Keywords) > 0 && !matchesKeywordSubstring(page.Keywords, prefs.Keywords) {
		return false
	}
	return true
}

// matchesCharacter reports whether the character name contains any of
// the wanted substrings, case-insensitively.
func matchesCharacter(name string, wanted []string) bool {
	lower := strings.ToLower(name)
	for _, w := range wanted {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func containsDifficulty(set []models.Difficulty, d models.Difficulty) bool {
	for _, v := range set {
		if v == d {
			return true
		}
	}
	return false
}

// matchesKeywordSubstring reports whether any page keyword contains any
// wanted substring, case-insensitively. This is looser than the exact
// keyword overlap used during candidate generation: "drag" matches a
// page keyword "dragon" here.
func matchesKeywordSubstring(keywords, wanted []string) bool {
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		for _, w := range wanted {
			if w == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(w)) {
				return true
			}
		}
	}
	return false
}
