// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package recommend

import (
	"sort"

	"github.com/coloratura-app/coloratura/internal/models"
)

// finalize produces the caller-visible item list: sort by score
// descending, drop duplicate ids keeping the highest-scored occurrence,
// truncate to limit, strip scores. Unscored candidates carry the zero
// score and sink to the bottom; ties break by id so ordering is stable
// across calls.
func finalize(candidates []ScoredPage, limit int) []models.ColoringPage {
	ranked := make([]ScoredPage, len(candidates))
	copy(ranked, candidates)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Page.ID < ranked[j].Page.ID
	})

	seen := make(map[string]struct{}, len(ranked))
	items := make([]models.ColoringPage, 0, min(limit, len(ranked)))
	for _, c := range ranked {
		if _, dup := seen[c.Page.ID]; dup {
			continue
		}
		seen[c.Page.ID] = struct{}{}
		items = append(items, c.Page)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items
}
