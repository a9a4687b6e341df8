// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/metrics"
	"github.com/coloratura-app/coloratura/internal/models"
)

// Match kinds, strongest first.
const (
	MatchExact   = "exact"
	MatchPrefix  = "prefix"
	MatchMention = "mention"
)

// ErrQueryTooShort is returned when the query has fewer runes than
// the configured minimum. The API layer maps it to a 400.
var ErrQueryTooShort = errors.New("search: query below minimum length")

// CharacterSource supplies the characters to index. *catalog.Store
// satisfies it.
type CharacterSource interface {
	AllCharacters(ctx context.Context) ([]models.Character, error)
}

// Config controls index behavior.
type Config struct {
	// MaxResults caps results per query and is the default when the
	// caller passes no limit.
	MaxResults int

	// MinQueryLength is the minimum query length in runes, so a
	// two-character Korean query is as valid as a two-letter one.
	MinQueryLength int
}

// DefaultConfig returns the index defaults.
func DefaultConfig() Config {
	return Config{
		MaxResults:     20,
		MinQueryLength: 2,
	}
}

// Result is one matched character.
type Result struct {
	Character   models.Character `json:"character"`
	MatchedName string           `json:"matchedName"`
	MatchKind   string           `json:"matchKind"`
}

// Index answers multilingual character queries from an in-memory
// snapshot of the catalog's characters. Rebuild swaps the snapshot
// wholesale; Search never blocks on a rebuild in progress.
type Index struct {
	config Config
	source CharacterSource
	logger zerolog.Logger

	mu         sync.RWMutex
	characters map[string]models.Character
	trie       *Trie
	matcher    *NameMatcher
	builtAt    time.Time
}

// NewIndex creates an index reading characters from source. The
// index is empty until the first Rebuild.
func NewIndex(cfg Config, source CharacterSource, logger zerolog.Logger) (*Index, error) {
	if source == nil {
		return nil, errors.New("search: character source is required")
	}
	defaults := DefaultConfig()
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaults.MaxResults
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = defaults.MinQueryLength
	}
	return &Index{
		config: cfg,
		source: source,
		logger: logger.With().Str("component", "search").Logger(),
	}, nil
}

// Rebuild loads all characters from the source and swaps in a fresh
// trie and matcher. Concurrent searches keep using the old snapshot
// until the swap.
func (idx *Index) Rebuild(ctx context.Context) error {
	start := time.Now()

	chars, err := idx.source.AllCharacters(ctx)
	if err != nil {
		return fmt.Errorf("search: load characters: %w", err)
	}

	characters := make(map[string]models.Character, len(chars))
	trie := NewTrie()
	matcher := NewNameMatcher()

	for _, ch := range chars {
		if ch.ID == "" {
			continue
		}
		characters[ch.ID] = ch

		// The canonical display name is always searchable, even when
		// ingest forgot to include it in SearchableNames.
		trie.Insert(ch.Name, ch.ID)
		matcher.Add(ch.Name, ch.ID)
		for _, name := range ch.SearchableNames {
			trie.Insert(name, ch.ID)
			matcher.Add(name, ch.ID)
		}
	}
	matcher.Build()

	idx.mu.Lock()
	idx.characters = characters
	idx.trie = trie
	idx.matcher = matcher
	idx.builtAt = time.Now()
	idx.mu.Unlock()

	metrics.SetSearchIndexSize(len(characters))
	idx.logger.Info().
		Int("characters", len(characters)).
		Int("names", trie.Size()).
		Dur("duration", time.Since(start)).
		Msg("search index rebuilt")
	return nil
}

// Search returns characters matching the query, strongest match kind
// first, then by popularity. A limit <= 0 or above the configured
// maximum uses the maximum.
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	start := time.Now()

	q := normalizeName(query)
	if utf8.RuneCountInString(q) < idx.config.MinQueryLength {
		metrics.RecordSearch("rejected", time.Since(start))
		return nil, fmt.Errorf("%w: need at least %d characters", ErrQueryTooShort, idx.config.MinQueryLength)
	}
	if limit <= 0 || limit > idx.config.MaxResults {
		limit = idx.config.MaxResults
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	characters, trie, matcher := idx.characters, idx.trie, idx.matcher
	idx.mu.RUnlock()

	if trie == nil {
		// Not built yet. An empty result keeps probes honest without
		// failing user queries during startup.
		metrics.RecordSearch("miss", time.Since(start))
		return []Result{}, nil
	}

	best := make(map[string]Result)

	if ids, ok := trie.Lookup(q); ok {
		for _, id := range ids {
			upgradeMatch(best, characters, id, q, MatchExact)
		}
	}
	for _, match := range trie.WithPrefix(q, 0) {
		for _, id := range match.IDs {
			upgradeMatch(best, characters, id, match.Name, MatchPrefix)
		}
	}
	for _, mention := range matcher.Find(q) {
		for _, id := range mention.IDs {
			upgradeMatch(best, characters, id, mention.Name, MatchMention)
		}
	}

	results := make([]Result, 0, len(best))
	for _, r := range best {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		ri, rj := results[i], results[j]
		if matchRank(ri.MatchKind) != matchRank(rj.MatchKind) {
			return matchRank(ri.MatchKind) > matchRank(rj.MatchKind)
		}
		if ri.Character.Popularity != rj.Character.Popularity {
			return ri.Character.Popularity > rj.Character.Popularity
		}
		if ri.Character.Name != rj.Character.Name {
			return ri.Character.Name < rj.Character.Name
		}
		return ri.Character.ID < rj.Character.ID
	})
	if len(results) > limit {
		results = results[:limit]
	}

	outcome := "hit"
	if len(results) == 0 {
		outcome = "miss"
	}
	metrics.RecordSearch(outcome, time.Since(start))
	idx.logger.Debug().
		Str("query", q).
		Int("results", len(results)).
		Str("outcome", outcome).
		Msg("character search")
	return results, nil
}

// Ready reports whether the index has been built at least once.
func (idx *Index) Ready() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return !idx.builtAt.IsZero()
}

// Size returns the number of indexed characters.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.characters)
}

// upgradeMatch records a match for a character, keeping the
// strongest kind seen so far.
func upgradeMatch(best map[string]Result, characters map[string]models.Character, id, name, kind string) {
	ch, ok := characters[id]
	if !ok {
		return
	}
	if existing, ok := best[id]; ok && matchRank(existing.MatchKind) >= matchRank(kind) {
		return
	}
	best[id] = Result{Character: ch, MatchedName: name, MatchKind: kind}
}

func matchRank(kind string) int {
	switch kind {
	case MatchExact:
		return 3
	case MatchPrefix:
		return 2
	case MatchMention:
		return 1
	default:
		return 0
	}
}
