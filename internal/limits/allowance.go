// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package limits enforces the per-user daily download allowance.
//
// The daily quota is counted against the interaction log, which the
// event pipeline writes asynchronously; a per-user token bucket in
// front of the count covers the window where rapid downloads have not
// reached the log yet, and keeps burst traffic off the store.
package limits

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/coloratura-app/coloratura/internal/metrics"
)

// Rejection reasons.
const (
	ReasonDailyLimit = "daily_limit"
	ReasonBurst      = "burst"
)

// How long an idle user's bucket survives before cleanup.
const bucketIdleTTL = time.Hour

// DownloadCounter counts a user's logged downloads. *database.DB
// satisfies it.
type DownloadCounter interface {
	CountDownloadsSince(ctx context.Context, userID string, since time.Time) (int, error)
}

// Config controls the allowance.
type Config struct {
	// DailyDownloads is the number of downloads a user gets per UTC
	// calendar day.
	DailyDownloads int

	// BurstPerMinute caps how fast a single user can download. Zero
	// disables the burst guard and leaves only the daily quota.
	BurstPerMinute int

	// Disabled turns the allowance off entirely.
	Disabled bool
}

// Decision is the outcome of an allowance check.
type Decision struct {
	Allowed bool

	// Unlimited marks callers the allowance does not meter: disabled
	// config or an unidentified user.
	Unlimited bool

	// Degraded marks a fail-open decision taken because the download
	// count was unavailable.
	Degraded bool

	Limit     int
	Remaining int // downloads left after this one; 0 when rejected

	Reason  string    // ReasonDailyLimit or ReasonBurst when rejected
	RetryAt time.Time // when a rejected caller may try again
}

// Allowance answers "may this user download another page right now".
type Allowance struct {
	config  Config
	counter DownloadCounter
	logger  zerolog.Logger

	mu      sync.Mutex
	buckets map[string]*userBucket

	now func() time.Time
}

type userBucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewAllowance creates the allowance service.
func NewAllowance(cfg Config, counter DownloadCounter, logger zerolog.Logger) *Allowance {
	return &Allowance{
		config:  cfg,
		counter: counter,
		logger:  logger.With().Str("component", "limits").Logger(),
		buckets: make(map[string]*userBucket),
		now:     time.Now,
	}
}

// Check decides whether userID may download a page now. The check
// fails open when the download count is unavailable; a store outage
// must not block downloads.
func (a *Allowance) Check(ctx context.Context, userID string) Decision {
	if a.config.Disabled || userID == "" {
		return Decision{Allowed: true, Unlimited: true}
	}

	now := a.now().UTC()

	if d, ok := a.checkBurst(userID, now); !ok {
		return d
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	count, err := a.counter.CountDownloadsSince(ctx, userID, dayStart)
	if err != nil {
		a.logger.Warn().Err(err).Str("user_id", userID).Msg("download count unavailable, allowing")
		return Decision{
			Allowed:   true,
			Degraded:  true,
			Limit:     a.config.DailyDownloads,
			Remaining: a.config.DailyDownloads,
		}
	}

	if count >= a.config.DailyDownloads {
		metrics.DownloadLimitRejections.Inc()
		a.logger.Info().
			Str("user_id", userID).
			Int("count", count).
			Int("limit", a.config.DailyDownloads).
			Msg("daily download limit reached")
		return Decision{
			Limit:   a.config.DailyDownloads,
			Reason:  ReasonDailyLimit,
			RetryAt: dayStart.Add(24 * time.Hour),
		}
	}

	remaining := a.config.DailyDownloads - count - 1
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   true,
		Limit:     a.config.DailyDownloads,
		Remaining: remaining,
	}
}

// checkBurst consumes a token from the user's bucket. Returns ok
// when the download may proceed to the daily check.
func (a *Allowance) checkBurst(userID string, now time.Time) (Decision, bool) {
	if a.config.BurstPerMinute <= 0 {
		return Decision{}, true
	}

	a.mu.Lock()
	bucket, exists := a.buckets[userID]
	if !exists {
		// Tokens refill smoothly across the minute instead of all at
		// once, so a legitimate batch of downloads spreads out rather
		// than hitting a wall.
		every := time.Minute / time.Duration(a.config.BurstPerMinute)
		bucket = &userBucket{limiter: rate.NewLimiter(rate.Every(every), a.config.BurstPerMinute)}
		a.buckets[userID] = bucket
	}
	bucket.lastAccess = now
	limiter := bucket.limiter
	a.mu.Unlock()

	res := limiter.Reserve()
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		a.logger.Debug().Str("user_id", userID).Dur("retry_in", delay).Msg("download burst throttled")
		return Decision{
			Limit:   a.config.DailyDownloads,
			Reason:  ReasonBurst,
			RetryAt: now.Add(delay),
		}, false
	}
	return Decision{}, true
}

// Run prunes idle user buckets until the context is canceled. It is
// safe to skip entirely; buckets are small and bounded by the active
// user set.
func (a *Allowance) Run(ctx context.Context) error {
	ticker := time.NewTicker(bucketIdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.cleanup()
		}
	}
}

func (a *Allowance) cleanup() {
	threshold := a.now().UTC().Add(-bucketIdleTTL)

	a.mu.Lock()
	defer a.mu.Unlock()
	for userID, bucket := range a.buckets {
		if bucket.lastAccess.Before(threshold) {
			delete(a.buckets, userID)
		}
	}
}

// BucketCount returns the number of tracked user buckets.
func (a *Allowance) BucketCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buckets)
}
