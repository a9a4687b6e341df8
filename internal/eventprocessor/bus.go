// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus is the in-process transport. Publisher and subscriber share one
// gochannel instance, so messages published before any subscription
// are dropped; the Pipeline registers handlers before accepting
// traffic to avoid that window.
type Bus struct {
	channel *gochannel.GoChannel
}

// NewBus creates an in-process bus with the given output buffer size.
func NewBus(bufferSize int, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	if bufferSize < 1 {
		bufferSize = 256
	}

	return &Bus{
		channel: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: int64(bufferSize),
			},
			logger,
		),
	}
}

// Publisher returns the publish side of the bus.
func (b *Bus) Publisher() message.Publisher {
	return b.channel
}

// Subscriber returns the subscribe side of the bus.
func (b *Bus) Subscriber() message.Subscriber {
	return b.channel
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.channel.Close()
}
