// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package recommend

import (
	"fmt"
	"time"
)

// Config tunes the engine. Strategies carry their own configuration; this
// only covers the orchestration layer.
type Config struct {
	// DefaultLimit is applied when a request leaves Limit at zero.
	DefaultLimit int

	// MaxLimit is the hard cap on requested result size.
	MaxLimit int

	// RequestTimeout bounds one Recommend call end to end, covering
	// every accessor round trip. Zero disables the deadline.
	RequestTimeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:   20,
		MaxLimit:       100,
		RequestTimeout: 5 * time.Second,
	}
}

// Validate checks internal consistency.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max limit %d below default limit %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}
