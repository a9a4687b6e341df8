// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/config"
)

// handlerDownloadLog is the router handler persisting download events.
const handlerDownloadLog = "download-log"

// Pipeline wires the transport, publisher, consumer, and router into
// one unit. It is the only type the rest of the application needs
// from this package: the API layer publishes through it and the
// supervisor runs it.
type Pipeline struct {
	bus       *Bus
	nats      *NATSTransport
	publisher *Publisher
	consumer  *Consumer
	router    *Router
}

// NewPipeline builds the pipeline for the configured transport.
// Handlers are registered before Run, so no published message can
// race the subscription on the channel transport.
func NewPipeline(cfg *config.EventsConfig, appender DownloadAppender, counter CatalogCounter, logger zerolog.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("events config required")
	}

	wmLogger := NewWatermillLogger(logger)

	p := &Pipeline{}

	var transportPub message.Publisher
	var transportSub message.Subscriber

	switch cfg.Transport {
	case "nats":
		transport, err := NewNATSTransport(&cfg.NATS, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("nats transport: %w", err)
		}
		p.nats = transport
		transportPub = transport.Publisher()
		transportSub = transport.Subscriber()
	default:
		p.bus = NewBus(cfg.BufferSize, wmLogger)
		transportPub = p.bus.Publisher()
		transportSub = p.bus.Subscriber()
	}

	publisher, err := NewPublisher(transportPub, wmLogger)
	if err != nil {
		p.closeTransport()
		return nil, err
	}
	publisher.SetCircuitBreaker(NewCircuitBreaker(DefaultCircuitBreakerConfig("event-publisher")))
	p.publisher = publisher

	consumer, err := NewConsumer(appender, counter, wmLogger)
	if err != nil {
		p.closeTransport()
		return nil, err
	}
	p.consumer = consumer

	routerCfg := DefaultRouterConfig()
	if cfg.RetryCount > 0 {
		routerCfg.RetryMaxRetries = cfg.RetryCount
	}
	if cfg.RetryInterval > 0 {
		routerCfg.RetryInitialInterval = cfg.RetryInterval
	}
	if cfg.CloseTimeout > 0 {
		routerCfg.CloseTimeout = cfg.CloseTimeout
	}

	// The poison queue publishes on the raw transport publisher so a
	// tripped publish breaker cannot block dead-lettering.
	router, err := NewRouter(&routerCfg, transportPub, wmLogger)
	if err != nil {
		p.closeTransport()
		return nil, err
	}
	router.AddConsumerHandler(handlerDownloadLog, TopicDownloads, transportSub, consumer.Handle)
	p.router = router

	return p, nil
}

// PublishDownload creates and publishes a download event. This is the
// entry point for the API layer after a file is served.
func (p *Pipeline) PublishDownload(ctx context.Context, userID, pageID, source string) error {
	return p.publisher.PublishEvent(ctx, NewDownloadEvent(userID, pageID, source))
}

// Publisher returns the breaker-wrapped publisher.
func (p *Pipeline) Publisher() *Publisher {
	return p.publisher
}

// Consumer returns the download consumer, mainly for stats.
func (p *Pipeline) Consumer() *Consumer {
	return p.consumer
}

// SetBroadcaster wires the live activity feed into the consumer.
// Call before Run.
func (p *Pipeline) SetBroadcaster(b Broadcaster) {
	p.consumer.SetBroadcaster(b)
}

// Run starts the router and blocks until the context is canceled.
func (p *Pipeline) Run(ctx context.Context) error {
	return p.router.Run(ctx)
}

// Running returns a channel that closes once the router is running.
func (p *Pipeline) Running() <-chan struct{} {
	return p.router.Running()
}

// Close stops the router, then the publisher, then the transport.
func (p *Pipeline) Close() error {
	var firstErr error
	if p.router != nil {
		if err := p.router.Close(); err != nil {
			firstErr = err
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := p.closeTransport(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (p *Pipeline) closeTransport() error {
	if p.bus != nil {
		return p.bus.Close()
	}
	if p.nats != nil {
		return p.nats.Close()
	}
	return nil
}
