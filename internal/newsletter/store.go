// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package newsletter manages digest subscriptions and the periodic
// digest issue. Subscriptions live in the embedded document store
// keyed by normalized email; each issue is assembled from the
// interaction log's most downloaded pages and pushed to the live
// feed.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/metrics"
	"github.com/coloratura-app/coloratura/internal/models"
)

const subscriptionKeyPrefix = "subscription:"

var (
	// ErrNotSubscribed is returned when an email has no subscription
	// record.
	ErrNotSubscribed = errors.New("email not subscribed")

	// ErrInvalidToken is returned when an unsubscribe token does not
	// match the stored one.
	ErrInvalidToken = errors.New("invalid unsubscribe token")
)

// NormalizeEmail lowercases and trims an address so lookups are
// case-insensitive. The normalized form is the document key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Store provides access to newsletter subscriptions.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// NewStore wraps an open document store handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Subscribe activates a subscription for the address, creating the
// record if needed. Subscribing an already active address updates the
// language preference and keeps the existing token, so repeated
// signups do not invalidate links already handed out. Re-subscribing
// an unsubscribed address reactivates it with a fresh token and keeps
// the original opt-in time.
func (s *Store) Subscribe(ctx context.Context, email, language string) (*models.Subscription, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("subscribe: empty email")
	}

	existing, err := s.Get(ctx, email)
	if err != nil && !errors.Is(err, ErrNotSubscribed) {
		return nil, err
	}

	if existing != nil && existing.Status == models.SubscriptionActive {
		if language != "" && language != existing.Language {
			existing.Language = language
			if err := s.put(existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	sub := &models.Subscription{
		Email:            email,
		Status:           models.SubscriptionActive,
		UnsubscribeToken: uuid.NewString(),
		Language:         language,
		SubscribedAt:     s.now().UTC(),
	}
	if existing != nil {
		sub.SubscribedAt = existing.SubscribedAt
		if language == "" {
			sub.Language = existing.Language
		}
	}

	if err := s.put(sub); err != nil {
		return nil, err
	}
	s.refreshMetrics(ctx)
	return sub, nil
}

// Unsubscribe deactivates the subscription identified by email after
// verifying the token. Unsubscribing an already inactive address is a
// no-op provided the token still matches.
func (s *Store) Unsubscribe(ctx context.Context, email, token string) error {
	email = NormalizeEmail(email)

	sub, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	if token == "" || token != sub.UnsubscribeToken {
		return ErrInvalidToken
	}
	if sub.Status == models.SubscriptionUnsubscribed {
		return nil
	}

	now := s.now().UTC()
	sub.Status = models.SubscriptionUnsubscribed
	sub.UnsubscribedAt = &now

	if err := s.put(sub); err != nil {
		return err
	}
	s.refreshMetrics(ctx)
	return nil
}

// Get retrieves a subscription by email. Returns ErrNotSubscribed for
// unknown addresses.
func (s *Store) Get(ctx context.Context, email string) (*models.Subscription, error) {
	email = NormalizeEmail(email)
	var sub models.Subscription

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(subscriptionKeyPrefix + email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotSubscribed
		}
		if err != nil {
			return fmt.Errorf("get subscription: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sub)
		})
	})
	metrics.RecordDocStoreOp("get", "subscriptions", err)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ActiveCount returns the number of active subscriptions.
func (s *Store) ActiveCount(ctx context.Context) (int, error) {
	active, _, err := s.counts(ctx)
	return active, err
}

// RefreshMetrics recomputes the subscription status gauges from the
// store. Called once at startup; mutations keep them current after
// that.
func (s *Store) RefreshMetrics(ctx context.Context) error {
	active, unsubscribed, err := s.counts(ctx)
	if err != nil {
		return err
	}
	metrics.NewsletterSubscriptions.WithLabelValues(string(models.SubscriptionActive)).Set(float64(active))
	metrics.NewsletterSubscriptions.WithLabelValues(string(models.SubscriptionUnsubscribed)).Set(float64(unsubscribed))
	return nil
}

func (s *Store) put(sub *models.Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(subscriptionKeyPrefix+sub.Email), data)
	})
	metrics.RecordDocStoreOp("set", "subscriptions", err)
	return err
}

func (s *Store) counts(ctx context.Context) (active, unsubscribed int, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(subscriptionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var sub models.Subscription
			verr := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sub)
			})
			if verr != nil {
				return fmt.Errorf("decode subscription: %w", verr)
			}
			if sub.Status == models.SubscriptionActive {
				active++
			} else {
				unsubscribed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return active, unsubscribed, nil
}

func (s *Store) refreshMetrics(ctx context.Context) {
	if err := s.RefreshMetrics(ctx); err != nil {
		logging.Warn().Err(err).Msg("refresh subscription metrics")
	}
}
