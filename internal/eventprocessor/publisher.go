// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/coloratura-app/coloratura/internal/metrics"
)

// natsMsgIDHeader is the JetStream deduplication header. Setting it on
// every message costs nothing on the channel transport and gives
// broker-side dedup on NATS.
const natsMsgIDHeader = "Nats-Msg-Id"

// Publisher wraps a Watermill publisher with an optional circuit
// breaker and a closed flag. It is transport-agnostic: the underlying
// publisher comes from the Bus or from the NATS constructors.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	logger         watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps the given Watermill publisher.
func NewPublisher(pub message.Publisher, logger watermill.LoggerAdapter) (*Publisher, error) {
	if pub == nil {
		return nil, fmt.Errorf("publisher required")
	}
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	return &Publisher{
		publisher: pub,
		logger:    logger,
	}, nil
}

// SetCircuitBreaker configures the circuit breaker for publish
// operations. Without one, publishes go straight through.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.circuitBreaker = cb
}

// Publish sends a message to the given topic. The message UUID is set
// as the JetStream deduplication ID.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPublisherClosed
	}
	p.mu.RUnlock()

	msg.SetContext(ctx)
	if msg.Metadata.Get(natsMsgIDHeader) == "" {
		msg.Metadata.Set(natsMsgIDHeader, msg.UUID)
	}

	if p.circuitBreaker == nil {
		if err := p.publisher.Publish(topic, msg); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}
		return nil
	}

	_, err := p.circuitBreaker.Execute(func() (interface{}, error) {
		return nil, p.publisher.Publish(topic, msg)
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// PublishEvent serializes the event and publishes it on its topic.
// The message UUID is the event ID, so a caller retrying a failed
// publish produces broker-level duplicates instead of new events.
func (p *Publisher) PublishEvent(ctx context.Context, event *DownloadEvent) error {
	data, err := SerializeEvent(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("user_id", event.UserID)

	if err := p.Publish(ctx, event.Topic(), msg); err != nil {
		return err
	}
	metrics.RecordEventPublished()

	p.logger.Debug("Published download event", watermill.LogFields{
		"event_id": event.EventID,
		"page_id":  event.PageID,
	})
	return nil
}

// Close marks the publisher closed and closes the underlying
// transport publisher. Close is idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}

// WatermillPublisher exposes the wrapped publisher for router wiring.
func (p *Publisher) WatermillPublisher() message.Publisher {
	return p.publisher
}
