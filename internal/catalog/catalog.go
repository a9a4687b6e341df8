// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package catalog stores the coloring-page catalog and the character
// directory in the embedded document store. Pages are the unit the
// recommendation pipeline works with; characters back the multilingual
// search endpoint.
//
// Keys:
//
//	page:<id>       -> models.ColoringPage
//	character:<id>  -> models.Character
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/coloratura-app/coloratura/internal/metrics"
	"github.com/coloratura-app/coloratura/internal/models"
)

const (
	pageKeyPrefix      = "page:"
	characterKeyPrefix = "character:"
)

var (
	// ErrPageNotFound is returned when a page id has no catalog entry.
	ErrPageNotFound = errors.New("page not found")

	// ErrCharacterNotFound is returned when a character id is unknown.
	ErrCharacterNotFound = errors.New("character not found")
)

// PageQuery describes a filtered catalog scan.
type PageQuery struct {
	// AgeGroup restricts results to one audience tier. Empty means any.
	AgeGroup models.AgeGroup

	// AnyKeywords keeps pages whose keyword set overlaps this list
	// (case-insensitive exact keyword match). Empty means no keyword
	// constraint.
	AnyKeywords []string

	// Difficulties keeps pages whose difficulty is in this set.
	Difficulties []models.Difficulty

	// Character keeps pages for one character, matched case-insensitively
	// against the page's character name. Empty means any character.
	Character string

	// Theme keeps pages with one theme, matched case-insensitively.
	// Empty means any theme.
	Theme string

	// ExcludeIDs drops specific pages from the result.
	ExcludeIDs []string

	// SortByDownloads orders results by download count descending.
	// Without it, results are ordered by id for stable pagination.
	SortByDownloads bool

	Offset int
	Limit  int // 0 = no limit
}

// Store provides access to pages and characters.
type Store struct {
	db *badger.DB
}

// NewStore wraps an open document store handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// UpsertPage writes a page record.
func (s *Store) UpsertPage(ctx context.Context, page *models.ColoringPage) error {
	if page.ID == "" {
		return fmt.Errorf("upsert page: empty id")
	}
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal page: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(pageKeyPrefix+page.ID), data)
	})
	metrics.RecordDocStoreOp("set", "pages", err)
	return err
}

// GetPage retrieves a page by id. Returns ErrPageNotFound for unknown ids.
func (s *Store) GetPage(ctx context.Context, id string) (*models.ColoringPage, error) {
	var page models.ColoringPage

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(pageKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrPageNotFound
		}
		if err != nil {
			return fmt.Errorf("get page: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &page)
		})
	})
	metrics.RecordDocStoreOp("get", "pages", err)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPages retrieves a batch of pages. Unknown ids are skipped, so the
// result may be shorter than the input. Order follows the input ids.
func (s *Store) GetPages(ctx context.Context, ids []string) ([]models.ColoringPage, error) {
	pages := make([]models.ColoringPage, 0, len(ids))

	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get([]byte(pageKeyPrefix + id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get page %s: %w", id, err)
			}
			var page models.ColoringPage
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &page)
			}); err != nil {
				return fmt.Errorf("unmarshal page %s: %w", id, err)
			}
			pages = append(pages, page)
		}
		return nil
	})
	metrics.RecordDocStoreOp("scan", "pages", err)
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// QueryPages scans the catalog and returns pages matching the query,
// sorted and truncated per the query's paging fields.
func (s *Store) QueryPages(ctx context.Context, q PageQuery) ([]models.ColoringPage, error) {
	exclude := make(map[string]struct{}, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		exclude[id] = struct{}{}
	}

	var matched []models.ColoringPage
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(pageKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var page models.ColoringPage
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &page)
			}); err != nil {
				return fmt.Errorf("unmarshal page: %w", err)
			}
			if _, skip := exclude[page.ID]; skip {
				continue
			}
			if !matchesQuery(&page, &q) {
				continue
			}
			matched = append(matched, page)
		}
		return nil
	})
	metrics.RecordDocStoreOp("scan", "pages", err)
	if err != nil {
		return nil, err
	}

	if q.SortByDownloads {
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].DownloadCount != matched[j].DownloadCount {
				return matched[i].DownloadCount > matched[j].DownloadCount
			}
			return matched[i].ID < matched[j].ID
		})
	} else {
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].ID < matched[j].ID
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return []models.ColoringPage{}, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// PagesByKeywords returns pages in the given age group whose keyword set
// overlaps keywords, excluding excludeIDs. An empty age group matches every
// tier. An empty keyword list matches nothing, since an unconstrained scan
// is never what a keyword lookup wants.
func (s *Store) PagesByKeywords(ctx context.Context, ageGroup models.AgeGroup, keywords, excludeIDs []string) ([]models.ColoringPage, error) {
	if len(keywords) == 0 {
		return []models.ColoringPage{}, nil
	}
	return s.QueryPages(ctx, PageQuery{
		AgeGroup:    ageGroup,
		AnyKeywords: keywords,
		ExcludeIDs:  excludeIDs,
	})
}

// TopPagesByDownloads returns the most-downloaded pages, optionally scoped
// to one age group. An empty age group ranks the whole catalog.
func (s *Store) TopPagesByDownloads(ctx context.Context, ageGroup models.AgeGroup, limit int) ([]models.ColoringPage, error) {
	return s.QueryPages(ctx, PageQuery{
		AgeGroup:        ageGroup,
		SortByDownloads: true,
		Limit:           limit,
	})
}

func matchesQuery(page *models.ColoringPage, q *PageQuery) bool {
	if q.AgeGroup != "" && page.AgeGroup != q.AgeGroup {
		return false
	}
	if q.Character != "" && !strings.EqualFold(page.CharacterName, q.Character) {
		return false
	}
	if q.Theme != "" && !strings.EqualFold(page.Theme, q.Theme) {
		return false
	}
	if len(q.Difficulties) > 0 {
		found := false
		for _, d := range q.Difficulties {
			if page.Difficulty == d {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(q.AnyKeywords) > 0 {
		found := false
		for _, kw := range q.AnyKeywords {
			if page.HasKeyword(kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CountPages returns the number of pages in the catalog.
func (s *Store) CountPages(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // key-only scan
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(pageKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementDownloadCount bumps a page's download counter and returns
// the new value. The read-modify-write runs in a single transaction.
func (s *Store) IncrementDownloadCount(ctx context.Context, id string) (int64, error) {
	var updated int64

	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(pageKeyPrefix + id)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrPageNotFound
		}
		if err != nil {
			return fmt.Errorf("get page: %w", err)
		}

		var page models.ColoringPage
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &page)
		}); err != nil {
			return fmt.Errorf("unmarshal page: %w", err)
		}

		page.DownloadCount++
		updated = page.DownloadCount

		data, err := json.Marshal(&page)
		if err != nil {
			return fmt.Errorf("marshal page: %w", err)
		}
		return txn.Set(key, data)
	})
	metrics.RecordDocStoreOp("set", "pages", err)
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// UpsertCharacter writes a character record. Searchable names are
// normalized to lower case on write so lookups never case-fold twice.
func (s *Store) UpsertCharacter(ctx context.Context, ch *models.Character) error {
	if ch.ID == "" {
		return fmt.Errorf("upsert character: empty id")
	}
	for i, name := range ch.SearchableNames {
		ch.SearchableNames[i] = strings.ToLower(name)
	}
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal character: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(characterKeyPrefix+ch.ID), data)
	})
	metrics.RecordDocStoreOp("set", "characters", err)
	return err
}

// GetCharacter retrieves a character by id.
func (s *Store) GetCharacter(ctx context.Context, id string) (*models.Character, error) {
	var ch models.Character

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(characterKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrCharacterNotFound
		}
		if err != nil {
			return fmt.Errorf("get character: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ch)
		})
	})
	metrics.RecordDocStoreOp("get", "characters", err)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// AllCharacters returns every character in the directory, ordered by
// id. The search index rebuilds from this at startup.
func (s *Store) AllCharacters(ctx context.Context) ([]models.Character, error) {
	var characters []models.Character

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(characterKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var ch models.Character
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ch)
			}); err != nil {
				return fmt.Errorf("unmarshal character: %w", err)
			}
			characters = append(characters, ch)
		}
		return nil
	})
	metrics.RecordDocStoreOp("scan", "characters", err)
	if err != nil {
		return nil, err
	}

	sort.Slice(characters, func(i, j int) bool {
		return characters[i].ID < characters[j].ID
	})
	return characters, nil
}
