// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package recommend

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/coloratura-app/coloratura/internal/models"
)

// accessorBreakerSettings is the shared trip policy for accessor
// breakers: open after five consecutive failures, stay open for 30
// seconds, then probe with up to three half-open requests.
func accessorBreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// BreakerCatalog wraps a CatalogAccessor so a persistently failing
// store fails fast instead of stalling every request. An open breaker
// surfaces as an accessor error, which strategies treat as zero
// candidates.
type BreakerCatalog struct {
	inner CatalogAccessor
	cb    *gobreaker.CircuitBreaker[interface{}]
}

// NewBreakerCatalog wraps inner in a circuit breaker.
func NewBreakerCatalog(inner CatalogAccessor) *BreakerCatalog {
	return &BreakerCatalog{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[interface{}](accessorBreakerSettings("recommend-catalog")),
	}
}

func (b *BreakerCatalog) GetPages(ctx context.Context, ids []string) ([]models.ColoringPage, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.GetPages(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return out.([]models.ColoringPage), nil
}

func (b *BreakerCatalog) PagesByKeywords(ctx context.Context, ageGroup models.AgeGroup, keywords, excludeIDs []string) ([]models.ColoringPage, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.PagesByKeywords(ctx, ageGroup, keywords, excludeIDs)
	})
	if err != nil {
		return nil, err
	}
	return out.([]models.ColoringPage), nil
}

func (b *BreakerCatalog) TopPagesByDownloads(ctx context.Context, ageGroup models.AgeGroup, limit int) ([]models.ColoringPage, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.TopPagesByDownloads(ctx, ageGroup, limit)
	})
	if err != nil {
		return nil, err
	}
	return out.([]models.ColoringPage), nil
}

// State returns the breaker state for monitoring.
func (b *BreakerCatalog) State() gobreaker.State {
	return b.cb.State()
}

// BreakerInteractions wraps an InteractionAccessor with the same trip
// policy as BreakerCatalog.
type BreakerInteractions struct {
	inner InteractionAccessor
	cb    *gobreaker.CircuitBreaker[interface{}]
}

// NewBreakerInteractions wraps inner in a circuit breaker.
func NewBreakerInteractions(inner InteractionAccessor) *BreakerInteractions {
	return &BreakerInteractions{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[interface{}](accessorBreakerSettings("recommend-interactions")),
	}
}

func (b *BreakerInteractions) GetDownloadsByUser(ctx context.Context, userID string) ([]string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.GetDownloadsByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return out.([]string), nil
}

func (b *BreakerInteractions) GetDownloadersByPage(ctx context.Context, pageID string) ([]string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.GetDownloadersByPage(ctx, pageID)
	})
	if err != nil {
		return nil, err
	}
	return out.([]string), nil
}

// State returns the breaker state for monitoring.
func (b *BreakerInteractions) State() gobreaker.State {
	return b.cb.State()
}

// BreakerDirectory wraps a UserDirectory. A missing profile is a
// client error, not an outage, so ErrUserNotFound never counts toward
// the trip threshold; only real directory failures open the breaker.
type BreakerDirectory struct {
	inner UserDirectory
	cb    *gobreaker.CircuitBreaker[interface{}]
}

// NewBreakerDirectory wraps inner in a circuit breaker.
func NewBreakerDirectory(inner UserDirectory) *BreakerDirectory {
	settings := accessorBreakerSettings("recommend-directory")
	settings.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrUserNotFound)
	}
	return &BreakerDirectory{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

func (b *BreakerDirectory) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.UserProfile), nil
}

// State returns the breaker state for monitoring.
func (b *BreakerDirectory) State() gobreaker.State {
	return b.cb.State()
}

var (
	_ CatalogAccessor     = (*BreakerCatalog)(nil)
	_ InteractionAccessor = (*BreakerInteractions)(nil)
	_ UserDirectory       = (*BreakerDirectory)(nil)
)
