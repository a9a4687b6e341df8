// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package config defines the application configuration and its
// validation rules. Configuration is assembled in layers: compiled-in
// defaults, an optional YAML file, then environment variables. The
// koanf loader in koanf.go implements the layering; this file owns the
// structure and the semantic checks.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the Coloratura server.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	DocStore   DocStoreConfig   `koanf:"docstore"`
	API        APIConfig        `koanf:"api"`
	Security   SecurityConfig   `koanf:"security"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Events     EventsConfig     `koanf:"events"`
	Newsletter NewsletterConfig `koanf:"newsletter"`
	Search     SearchConfig     `koanf:"search"`
	Limits     LimitsConfig     `koanf:"limits"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig controls the embedded DuckDB interaction log.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// DocStoreConfig controls the embedded Badger document store that
// holds the page catalog, character directory, user profiles and
// newsletter subscriptions.
type DocStoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
	SeedDemo bool   `koanf:"seed_demo"`
}

// APIConfig controls pagination and request shaping.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig controls identity resolution, CORS and rate limits.
//
// AuthMode selects how the caller's user id is resolved:
//
//	"token"  - Authorization: Bearer <jwt>, verified with TokenSecret
//	"header" - X-User-ID header, for development and tests only
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	TokenSecret       string        `koanf:"token_secret"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	DisableRateLimit  bool          `koanf:"disable_rate_limit"`
}

// RecommendConfig controls the recommendation engine.
type RecommendConfig struct {
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
	PopularityPoolSize int           `koanf:"popularity_pool_size"`
}

// EventsConfig controls the download event pipeline.
//
// Transport selects the message bus: "channel" runs an in-process
// Watermill bus and is always available; "nats" uses JetStream and
// requires the nats build tag.
type EventsConfig struct {
	Transport     string        `koanf:"transport"`
	BufferSize    int           `koanf:"buffer_size"`
	RetryCount    int           `koanf:"retry_count"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	CloseTimeout  time.Duration `koanf:"close_timeout"`
	NATS          NATSConfig    `koanf:"nats"`
}

// NATSConfig controls the optional JetStream transport.
type NATSConfig struct {
	URL             string        `koanf:"url"`
	Embedded        bool          `koanf:"embedded"`
	StoreDir        string        `koanf:"store_dir"`
	DurableName     string        `koanf:"durable_name"`
	SubscriberCount int           `koanf:"subscriber_count"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
}

// NewsletterConfig controls the subscription store and digest job.
type NewsletterConfig struct {
	Enabled        bool          `koanf:"enabled"`
	DigestInterval time.Duration `koanf:"digest_interval"`
	DigestSize     int           `koanf:"digest_size"`
}

// SearchConfig controls the character search index.
type SearchConfig struct {
	MaxResults     int           `koanf:"max_results"`
	MinQueryLength int           `koanf:"min_query_length"`
	RebuildEvery   time.Duration `koanf:"rebuild_every"`
}

// LimitsConfig controls per-user download allowances.
type LimitsConfig struct {
	DailyDownloads int  `koanf:"daily_downloads"`
	BurstPerMinute int  `koanf:"burst_per_minute"`
	Disabled       bool `koanf:"disabled"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// validEnvironments are the accepted server.environment values.
var validEnvironments = []string{"development", "staging", "production"}

// Validate checks the configuration for semantic errors. It returns
// the first problem found so startup fails with a single actionable
// message.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if !containsString(validEnvironments, c.Server.Environment) {
		return fmt.Errorf("server.environment must be one of %s, got %q",
			strings.Join(validEnvironments, ", "), c.Server.Environment)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must not be negative, got %d", c.Database.Threads)
	}
	if !c.DocStore.InMemory && c.DocStore.Path == "" {
		return fmt.Errorf("docstore.path must not be empty when docstore.in_memory is false")
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must not be below api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if err := c.Security.validate(); err != nil {
		return err
	}
	if err := c.Recommend.validate(); err != nil {
		return err
	}
	if err := c.Events.validate(); err != nil {
		return err
	}
	if c.Newsletter.Enabled {
		if c.Newsletter.DigestInterval <= 0 {
			return fmt.Errorf("newsletter.digest_interval must be positive, got %s", c.Newsletter.DigestInterval)
		}
		if c.Newsletter.DigestSize < 1 {
			return fmt.Errorf("newsletter.digest_size must be at least 1, got %d", c.Newsletter.DigestSize)
		}
	}
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search.max_results must be at least 1, got %d", c.Search.MaxResults)
	}
	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("search.min_query_length must be at least 1, got %d", c.Search.MinQueryLength)
	}
	if c.Search.RebuildEvery <= 0 {
		return fmt.Errorf("search.rebuild_every must be positive, got %s", c.Search.RebuildEvery)
	}
	if !c.Limits.Disabled && c.Limits.DailyDownloads < 1 {
		return fmt.Errorf("limits.daily_downloads must be at least 1, got %d", c.Limits.DailyDownloads)
	}
	if c.Limits.BurstPerMinute < 0 {
		return fmt.Errorf("limits.burst_per_minute must not be negative, got %d", c.Limits.BurstPerMinute)
	}
	return nil
}

func (s *SecurityConfig) validate() error {
	switch s.AuthMode {
	case "token":
		if s.TokenSecret == "" {
			return fmt.Errorf("security.token_secret must be set when security.auth_mode is \"token\"")
		}
	case "header":
		// Development mode, nothing to check.
	default:
		return fmt.Errorf("security.auth_mode must be \"token\" or \"header\", got %q", s.AuthMode)
	}
	if !s.DisableRateLimit {
		if s.RateLimitRequests < 1 {
			return fmt.Errorf("security.rate_limit_requests must be at least 1, got %d", s.RateLimitRequests)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", s.RateLimitWindow)
		}
	}
	return nil
}

func (r *RecommendConfig) validate() error {
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("recommend.request_timeout must be positive, got %s", r.RequestTimeout)
	}
	if r.CacheTTL < 0 {
		return fmt.Errorf("recommend.cache_ttl must not be negative, got %s", r.CacheTTL)
	}
	// The popularity pool is the raw candidate window for the fallback
	// strategy; outside this band the fallback either starves or stops
	// being a "popular" set.
	if r.PopularityPoolSize < 30 || r.PopularityPoolSize > 50 {
		return fmt.Errorf("recommend.popularity_pool_size must be between 30 and 50, got %d", r.PopularityPoolSize)
	}
	return nil
}

func (e *EventsConfig) validate() error {
	switch e.Transport {
	case "channel":
		if e.BufferSize < 1 {
			return fmt.Errorf("events.buffer_size must be at least 1, got %d", e.BufferSize)
		}
	case "nats":
		if !e.NATS.Embedded && e.NATS.URL == "" {
			return fmt.Errorf("events.nats.url must be set when events.nats.embedded is false")
		}
		if e.NATS.SubscriberCount < 1 {
			return fmt.Errorf("events.nats.subscriber_count must be at least 1, got %d", e.NATS.SubscriberCount)
		}
	default:
		return fmt.Errorf("events.transport must be \"channel\" or \"nats\", got %q", e.Transport)
	}
	if e.RetryCount < 0 {
		return fmt.Errorf("events.retry_count must not be negative, got %d", e.RetryCount)
	}
	if e.CloseTimeout <= 0 {
		return fmt.Errorf("events.close_timeout must be positive, got %s", e.CloseTimeout)
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
