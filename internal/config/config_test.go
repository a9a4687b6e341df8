// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("default port = %d, want 3001", cfg.Server.Port)
	}
	if cfg.Recommend.PopularityPoolSize != 40 {
		t.Errorf("default popularity pool = %d, want 40", cfg.Recommend.PopularityPoolSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Server.Environment = "prod" },
			wantErr: "server.environment",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name: "empty docstore path on disk",
			mutate: func(c *Config) {
				c.DocStore.Path = ""
				c.DocStore.InMemory = false
			},
			wantErr: "docstore.path",
		},
		{
			name: "empty docstore path in memory is fine",
			mutate: func(c *Config) {
				c.DocStore.Path = ""
				c.DocStore.InMemory = true
			},
		},
		{
			name:    "max page size below default",
			mutate:  func(c *Config) { c.API.MaxPageSize = 5 },
			wantErr: "api.max_page_size",
		},
		{
			name: "token mode without secret",
			mutate: func(c *Config) {
				c.Security.AuthMode = "token"
				c.Security.TokenSecret = ""
			},
			wantErr: "security.token_secret",
		},
		{
			name:    "unknown auth mode",
			mutate:  func(c *Config) { c.Security.AuthMode = "basic" },
			wantErr: "security.auth_mode",
		},
		{
			name:    "popularity pool below band",
			mutate:  func(c *Config) { c.Recommend.PopularityPoolSize = 10 },
			wantErr: "popularity_pool_size",
		},
		{
			name:    "popularity pool above band",
			mutate:  func(c *Config) { c.Recommend.PopularityPoolSize = 51 },
			wantErr: "popularity_pool_size",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Events.Transport = "kafka" },
			wantErr: "events.transport",
		},
		{
			name: "nats without url or embedded",
			mutate: func(c *Config) {
				c.Events.Transport = "nats"
				c.Events.NATS.Embedded = false
				c.Events.NATS.URL = ""
			},
			wantErr: "events.nats.url",
		},
		{
			name: "newsletter enabled with zero interval",
			mutate: func(c *Config) {
				c.Newsletter.Enabled = true
				c.Newsletter.DigestInterval = 0
			},
			wantErr: "newsletter.digest_interval",
		},
		{
			name: "download limit zero while enforced",
			mutate: func(c *Config) {
				c.Limits.Disabled = false
				c.Limits.DailyDownloads = 0
			},
			wantErr: "limits.daily_downloads",
		},
		{
			name: "download limit zero while disabled is fine",
			mutate: func(c *Config) {
				c.Limits.Disabled = true
				c.Limits.DailyDownloads = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	// A nonexistent CONFIG_PATH is an explicit request for that file.
	if _, err := Load(); err == nil {
		t.Fatal("Load() with missing CONFIG_PATH = nil error, want error")
	}

	t.Setenv(ConfigPathEnvVar, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("Load() port = %d, want default 3001", cfg.Server.Port)
	}
}

func TestLoadFileLayer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
server:
  port: 8080
  environment: production
recommend:
  popularity_pool_size: 30
`
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("file layer port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != "production" {
		t.Errorf("file layer environment = %q, want production", cfg.Server.Environment)
	}
	if cfg.Recommend.PopularityPoolSize != 30 {
		t.Errorf("file layer pool = %d, want 30", cfg.Recommend.PopularityPoolSize)
	}
	// Keys the file does not set keep their defaults.
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("default_page_size = %d, want default 20", cfg.API.DefaultPageSize)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RECOMMEND_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("env layer port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("env layer log level = %q, want debug", cfg.Logging.Level)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("cors origins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("cors origins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
	if cfg.Recommend.RequestTimeout != 2*time.Second {
		t.Errorf("env layer recommend timeout = %s, want 2s", cfg.Recommend.RequestTimeout)
	}
}

func TestLoadUnmappedEnvIgnored(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("SERVER_PORT", "1234") // not in the map, must not apply
	t.Setenv("PATH_INFO", "garbage")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("unmapped env changed port to %d, want default 3001", cfg.Server.Port)
	}
}

func TestListenAddr(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 3001
	if got := cfg.ListenAddr(); got != "127.0.0.1:3001" {
		t.Errorf("ListenAddr() = %q, want %q", got, "127.0.0.1:3001")
	}
}
