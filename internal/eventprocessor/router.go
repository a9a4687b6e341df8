// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// RouterConfig holds configuration for the Watermill router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// Throttle configuration (messages per second, 0 = disabled)
	ThrottlePerSecond int64

	// PoisonQueueTopic receives messages that exhaust their retries.
	// Empty disables the poison queue.
	PoisonQueueTopic string
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      5,
		RetryInitialInterval: time.Second,
		RetryMaxInterval:     time.Minute,
		RetryMultiplier:      2.0,
		ThrottlePerSecond:    0,
		PoisonQueueTopic:     TopicPoison,
	}
}

// Router wraps the Watermill router with a pre-configured middleware
// stack: panic recovery, exponential backoff retry, optional
// throttling, and poison queue routing for messages that fail every
// retry. Shutdown is driven by the Run context; the supervisor owns
// signal handling.
type Router struct {
	router   *message.Router
	config   RouterConfig
	logger   watermill.LoggerAdapter
	handlers map[string]*message.Handler
	running  atomic.Bool
}

// NewRouter creates a router with the middleware stack installed.
// poisonPublisher is used for dead-letter routing and may be nil to
// disable the poison queue.
func NewRouter(cfg *RouterConfig, poisonPublisher message.Publisher, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	r := &Router{
		router:   wmRouter,
		config:   *cfg,
		logger:   logger,
		handlers: make(map[string]*message.Handler),
	}

	// Middleware runs outer to inner: recover panics first, then
	// retry transient failures, then throttle, then dead-letter.
	wmRouter.AddMiddleware(middleware.Recoverer)

	retryMiddleware := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retryMiddleware.Middleware)

	if cfg.ThrottlePerSecond > 0 {
		throttle := middleware.NewThrottle(cfg.ThrottlePerSecond, time.Second)
		wmRouter.AddMiddleware(throttle.Middleware)
	}

	if poisonPublisher != nil && cfg.PoisonQueueTopic != "" {
		poisonQueue, err := middleware.PoisonQueue(poisonPublisher, cfg.PoisonQueueTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poisonQueue)
	}

	return r, nil
}

// AddConsumerHandler registers a handler that consumes without
// producing output messages.
func (r *Router) AddConsumerHandler(
	name string,
	subscribeTopic string,
	subscriber message.Subscriber,
	handler message.NoPublishHandlerFunc,
) *message.Handler {
	h := r.router.AddConsumerHandler(
		name,
		subscribeTopic,
		subscriber,
		handler,
	)
	r.handlers[name] = h
	return h
}

// AddHandlerMiddleware adds middleware to a specific handler.
// Handler-level middleware runs after router-level middleware.
func (r *Router) AddHandlerMiddleware(handlerName string, m ...message.HandlerMiddleware) error {
	h, exists := r.handlers[handlerName]
	if !exists {
		return fmt.Errorf("handler %q not found", handlerName)
	}
	h.AddMiddleware(m...)
	return nil
}

// Run starts the router and blocks until context cancellation or
// Close. All registered handlers begin processing messages.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// Running returns a channel that closes once the router is running.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close gracefully stops the router, waiting up to CloseTimeout for
// in-flight messages.
func (r *Router) Close() error {
	return r.router.Close()
}

// IsRunning reports whether the router is processing messages.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}
