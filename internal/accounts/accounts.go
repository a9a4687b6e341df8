// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package accounts stores user profiles in the embedded document
// store. The recommendation pipeline reads profiles for declared age
// groups and saved preferences; it never writes them.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/metrics"
	"github.com/coloratura-app/coloratura/internal/models"
)

const userKeyPrefix = "user:"

// ErrUserNotFound is returned when a user id has no profile.
var ErrUserNotFound = errors.New("user not found")

// Store provides access to user profiles.
type Store struct {
	db *badger.DB
}

// NewStore wraps an open document store handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Upsert writes a user profile.
func (s *Store) Upsert(ctx context.Context, user *models.UserProfile) error {
	if user.ID == "" {
		return fmt.Errorf("upsert user: empty id")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(userKeyPrefix+user.ID), data)
	})
	metrics.RecordDocStoreOp("set", "users", err)
	return err
}

// Get retrieves a user profile by id. Returns ErrUserNotFound for
// unknown ids.
func (s *Store) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	var user models.UserProfile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	metrics.RecordDocStoreOp("get", "users", err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the number of stored profiles.
func (s *Store) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(userKeyPrefix)
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

// SeedDemoUsers creates a handful of profiles on an empty store so the
// development header auth mode has identities to resolve against.
func SeedDemoUsers(ctx context.Context, store *Store) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	created := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	users := []models.UserProfile{
		{
			ID: "user-ada", DisplayName: "Ada", Email: "ada@example.com",
			AgeGroup: models.AgeGroupChild,
			Preferences: models.Preferences{
				Characters:   []string{"Ember"},
				Difficulties: []models.Difficulty{models.DifficultyEasy},
				Keywords:     []string{"dragon", "castle"},
			},
			DailyDownloadLimit: 10,
			CreatedAt:          created,
		},
		{
			ID: "user-bjorn", DisplayName: "Björn", Email: "bjorn@example.com",
			AgeGroup: models.AgeGroupTeen,
			Preferences: models.Preferences{
				Difficulties: []models.Difficulty{models.DifficultyMedium, models.DifficultyHard},
			},
			DailyDownloadLimit: 10,
			CreatedAt:          created.AddDate(0, 0, 3),
		},
		{
			ID: "user-chiyo", DisplayName: "Chiyo", Email: "chiyo@example.com",
			AgeGroup:           models.AgeGroupAdult,
			DailyDownloadLimit: 20,
			CreatedAt:          created.AddDate(0, 0, 7),
		},
	}

	for i := range users {
		if err := store.Upsert(ctx, &users[i]); err != nil {
			return fmt.Errorf("seed user %s: %w", users[i].ID, err)
		}
	}
	logging.Info().Int("users", len(users)).Msg("seeded demo users")
	return nil
}
