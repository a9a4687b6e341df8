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

	"github.com/coloratura-app/coloratura/internal/metrics"
	"github.com/coloratura-app/coloratura/internal/models"
)

// DownloadAppender persists download events into the interaction log.
// AppendDownload returns false when the correlation key was already
// present, which is how redelivered messages are detected.
type DownloadAppender interface {
	AppendDownload(ctx context.Context, rec *models.DownloadRecord, correlationKey string) (bool, error)
}

// CatalogCounter bumps the denormalized per-page download counter.
type CatalogCounter interface {
	IncrementDownloadCount(ctx context.Context, pageID string) (int64, error)
}

// Broadcaster pushes processed downloads to the live activity feed.
type Broadcaster interface {
	BroadcastDownload(rec *models.DownloadRecord)
}

// Consumer processes download events from the bus. Each event is
// appended to the interaction log, reflected in the catalog counter,
// and forwarded to the activity broadcast.
//
// The consumer is designed to run behind the Router's middleware
// stack: panics and transient failures are handled there, so Handle
// only classifies its own errors.
type Consumer struct {
	appender    DownloadAppender
	counter     CatalogCounter
	broadcaster Broadcaster
	logger      watermill.LoggerAdapter

	messagesReceived  atomic.Int64
	messagesProcessed atomic.Int64
	duplicatesSkipped atomic.Int64
	parseErrors       atomic.Int64
}

// NewConsumer creates a consumer over the given stores.
func NewConsumer(appender DownloadAppender, counter CatalogCounter, logger watermill.LoggerAdapter) (*Consumer, error) {
	if appender == nil {
		return nil, fmt.Errorf("appender required")
	}
	if counter == nil {
		return nil, fmt.Errorf("counter required")
	}
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	return &Consumer{
		appender: appender,
		counter:  counter,
		logger:   logger,
	}, nil
}

// SetBroadcaster wires the live activity feed. Optional; without it
// processed events are not broadcast.
func (c *Consumer) SetBroadcaster(b Broadcaster) {
	c.broadcaster = b
}

// Handle processes a single download event message.
//
// Error handling:
//   - Parse and validation errors return PermanentError (retrying
//     malformed payloads cannot succeed)
//   - Append errors return RetryableError (the write may succeed on
//     redelivery)
//   - Duplicates return nil (ack without processing)
func (c *Consumer) Handle(msg *message.Message) error {
	start := time.Now()
	c.messagesReceived.Add(1)

	event, err := DeserializeEvent(msg.Payload)
	if err != nil {
		c.parseErrors.Add(1)
		metrics.RecordEventParseFailed()
		c.logger.Error("Failed to parse message", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return NewPermanentError("parse download event", err)
	}
	event.EnsureSchemaVersion()

	if err := event.Validate(); err != nil {
		c.parseErrors.Add(1)
		metrics.RecordEventParseFailed()
		c.logger.Error("Invalid event payload", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return NewPermanentError("validate download event", err)
	}

	ctx := context.Background()
	if msgCtx := msg.Context(); msgCtx != nil {
		ctx = msgCtx
	}

	// The event ID is the correlation key, so redelivery after a
	// crashed ack never inserts a second log row.
	rec := event.Record()
	inserted, err := c.appender.AppendDownload(ctx, rec, event.EventID)
	if err != nil {
		c.logger.Error("Failed to append download", err, watermill.LogFields{
			"event_id": event.EventID,
		})
		return NewRetryableError("append download", err)
	}

	if !inserted {
		c.duplicatesSkipped.Add(1)
		metrics.RecordEventDeduplicated()
		return nil
	}

	// Counter updates are best-effort; the interaction log is
	// authoritative. Failing the message here would skip the counter
	// forever, because redelivery stops at the dedup check above.
	if _, err := c.counter.IncrementDownloadCount(ctx, event.PageID); err != nil {
		c.logger.Error("Failed to increment download count", err, watermill.LogFields{
			"page_id": event.PageID,
		})
	}

	if c.broadcaster != nil {
		c.broadcaster.BroadcastDownload(rec)
	}

	c.messagesProcessed.Add(1)
	metrics.RecordDownloadEvent(time.Since(start), nil)
	return nil
}

// ConsumerStats is a snapshot of processing counters.
type ConsumerStats struct {
	Received     int64 `json:"received"`
	Processed    int64 `json:"processed"`
	Deduplicated int64 `json:"deduplicated"`
	ParseErrors  int64 `json:"parseErrors"`
}

// Stats returns the current processing counters.
func (c *Consumer) Stats() ConsumerStats {
	return ConsumerStats{
		Received:     c.messagesReceived.Load(),
		Processed:    c.messagesProcessed.Load(),
		Deduplicated: c.duplicatesSkipped.Load(),
		ParseErrors:  c.parseErrors.Load(),
	}
}
