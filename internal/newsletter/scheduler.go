// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package newsletter

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/metrics"
	"github.com/coloratura-app/coloratura/internal/websocket"
)

// Config holds digest scheduler settings.
type Config struct {
	// Enabled controls whether issues are published at all.
	Enabled bool

	// DigestInterval is both the publish cadence and the download
	// window each issue covers.
	DigestInterval time.Duration

	// DigestSize is the maximum number of pages per issue.
	DigestSize int
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		DigestInterval: 24 * time.Hour,
		DigestSize:     10,
	}
}

// SubscriberCounter reports how many addresses are opted in.
type SubscriberCounter interface {
	ActiveCount(ctx context.Context) (int, error)
}

// Broadcaster pushes published digests to live feed subscribers.
type Broadcaster interface {
	BroadcastJSON(messageType string, data interface{})
}

// Scheduler publishes a digest issue on a fixed interval. It runs as a
// leaf of the supervision tree.
type Scheduler struct {
	config      Config
	builder     *Builder
	subscribers SubscriberCounter
	broadcaster Broadcaster
	logger      zerolog.Logger
	now         func() time.Time
}

// NewScheduler creates a digest scheduler. Zero config fields fall
// back to defaults.
func NewScheduler(cfg Config, builder *Builder, subscribers SubscriberCounter, broadcaster Broadcaster, logger zerolog.Logger) *Scheduler {
	if cfg.DigestInterval <= 0 {
		cfg.DigestInterval = DefaultConfig().DigestInterval
	}
	if cfg.DigestSize <= 0 {
		cfg.DigestSize = DefaultConfig().DigestSize
	}

	return &Scheduler{
		config:      cfg,
		builder:     builder,
		subscribers: subscribers,
		broadcaster: broadcaster,
		logger:      logger.With().Str("component", "digest-scheduler").Logger(),
		now:         time.Now,
	}
}

// Run publishes issues until the context is cancelled. The first issue
// goes out one full interval after start, so service restarts do not
// re-publish the current window.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info().Msg("digest scheduler disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().
		Dur("interval", s.config.DigestInterval).
		Int("size", s.config.DigestSize).
		Msg("digest scheduler started")

	ticker := time.NewTicker(s.config.DigestInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.publish(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// publish assembles and broadcasts one issue. Windows with no
// downloads produce no issue.
func (s *Scheduler) publish(ctx context.Context) {
	since := s.now().UTC().Add(-s.config.DigestInterval)

	digest, err := s.builder.Build(ctx, since, s.config.DigestSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("digest build failed")
		return
	}
	if len(digest.Entries) == 0 {
		s.logger.Debug().Time("window_start", since).Msg("no downloads in digest window, skipping issue")
		return
	}

	subscribers := 0
	if s.subscribers != nil {
		n, err := s.subscribers.ActiveCount(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("subscriber count unavailable")
		} else {
			subscribers = n
		}
	}

	s.broadcaster.BroadcastJSON(websocket.MessageTypeDigest, digest)
	metrics.NewsletterDigestsGenerated.Inc()

	s.logger.Info().
		Int("entries", len(digest.Entries)).
		Int("subscribers", subscribers).
		Time("window_start", since).
		Msg("digest published")
}
