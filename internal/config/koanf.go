// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are probed in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/coloratura/config.yaml",
	"/etc/coloratura/config.yml",
}

// Default returns the compiled-in configuration. Every field has a
// working value so the server starts with no file and no environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3001,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "data/interactions.duckdb",
			MaxMemory: "256MB",
			Threads:   2,
		},
		DocStore: DocStoreConfig{
			Path:     "data/docstore",
			InMemory: false,
			SeedDemo: true,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			AuthMode:          "header",
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Recommend: RecommendConfig{
			RequestTimeout:     5 * time.Second,
			CacheTTL:           2 * time.Minute,
			PopularityPoolSize: 40,
		},
		Events: EventsConfig{
			Transport:     "channel",
			BufferSize:    256,
			RetryCount:    3,
			RetryInterval: 100 * time.Millisecond,
			CloseTimeout:  10 * time.Second,
			NATS: NATSConfig{
				URL:             "nats://127.0.0.1:4222",
				Embedded:        true,
				StoreDir:        "data/nats",
				DurableName:     "coloratura-downloads",
				SubscriberCount: 2,
				ConnectTimeout:  5 * time.Second,
			},
		},
		Newsletter: NewsletterConfig{
			Enabled:        true,
			DigestInterval: 24 * time.Hour,
			DigestSize:     10,
		},
		Search: SearchConfig{
			MaxResults:     20,
			MinQueryLength: 2,
			RebuildEvery:   5 * time.Minute,
		},
		Limits: LimitsConfig{
			DailyDownloads: 10,
			BurstPerMinute: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// and environment variables, in that order of precedence (later layers
// win). The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	normalizeSliceFields(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first readable config file, honoring
// CONFIG_PATH over the default search list. An empty result means run
// on defaults and environment only.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envKeyMap is the explicit mapping from environment variable to
// config key. Only listed variables are read; everything else in the
// environment is ignored so unrelated variables cannot pollute the
// configuration.
var envKeyMap = map[string]string{
	"http_port":           "server.port",
	"http_host":           "server.host",
	"http_timeout":        "server.timeout",
	"environment":         "server.environment",
	"duckdb_path":         "database.path",
	"duckdb_max_memory":   "database.max_memory",
	"duckdb_threads":      "database.threads",
	"docstore_path":       "docstore.path",
	"docstore_in_memory":  "docstore.in_memory",
	"seed_demo_data":      "docstore.seed_demo",
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"auth_mode":             "security.auth_mode",
	"token_secret":          "security.token_secret",
	"cors_origins":          "security.cors_origins",
	"trusted_proxies":       "security.trusted_proxies",
	"rate_limit_requests":   "security.rate_limit_requests",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.disable_rate_limit",
	"recommend_timeout":     "recommend.request_timeout",
	"recommend_cache_ttl":   "recommend.cache_ttl",
	"recommend_pool_size":   "recommend.popularity_pool_size",
	"events_transport":      "events.transport",
	"events_buffer_size":    "events.buffer_size",
	"events_retry_count":    "events.retry_count",
	"events_retry_interval": "events.retry_interval",
	"events_close_timeout":  "events.close_timeout",
	"nats_url":              "events.nats.url",
	"nats_embedded":         "events.nats.embedded",
	"nats_store_dir":        "events.nats.store_dir",
	"nats_durable_name":     "events.nats.durable_name",
	"nats_subscribers":      "events.nats.subscriber_count",
	"nats_connect_timeout":  "events.nats.connect_timeout",
	"newsletter_enabled":         "newsletter.enabled",
	"newsletter_digest_interval": "newsletter.digest_interval",
	"newsletter_digest_size":     "newsletter.digest_size",
	"search_max_results":         "search.max_results",
	"search_min_query_length":    "search.min_query_length",
	"daily_download_limit":       "limits.daily_downloads",
	"download_burst_per_minute":  "limits.burst_per_minute",
	"disable_download_limit":     "limits.disabled",
	"log_level":                  "logging.level",
	"log_format":                 "logging.format",
	"log_caller":                 "logging.caller",
}

// envTransform maps an environment variable name to its config key.
// Returning "" drops the variable.
func envTransform(name string) string {
	return envKeyMap[strings.ToLower(name)]
}

// sliceConfigKeys hold comma-separated lists when set through the
// environment.
var sliceConfigKeys = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// normalizeSliceFields splits comma-separated string values into
// slices for keys that are declared as slices. Values that already
// unmarshaled as slices (from YAML or defaults) are left alone.
func normalizeSliceFields(k *koanf.Koanf) {
	for _, key := range sliceConfigKeys {
		if !k.Exists(key) {
			continue
		}
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		_ = k.Set(key, out)
	}
}
