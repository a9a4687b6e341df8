// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

//go:build nats

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsserver "github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"

	"github.com/coloratura-app/coloratura/internal/config"
)

const (
	natsAckWait      = 30 * time.Second
	natsMaxDeliver   = 5
	natsQueuePrefix  = "coloratura"
	natsReadyTimeout = 30 * time.Second
)

// EmbeddedServer wraps an in-process NATS JetStream server for
// single-instance deployments without external infrastructure.
type EmbeddedServer struct {
	server    *natsserver.Server
	clientURL string
}

// NewEmbeddedServer creates and starts an embedded JetStream server.
// Returns an error if the server is not ready within 30 seconds.
func NewEmbeddedServer(storeDir string) (*EmbeddedServer, error) {
	opts := &natsserver.Options{
		ServerName: "coloratura-events",
		Host:       "127.0.0.1",
		Port:       -1, // Random free port
		JetStream:  true,
		StoreDir:   storeDir,
		NoLog:      true,
	}

	ns, err := natsserver.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create nats server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(natsReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("nats server not ready within %s", natsReadyTimeout)
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown stops the server and waits for completion or context
// cancellation.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.server.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.WaitForShutdown()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// NATSTransport owns the JetStream publisher and subscriber pair,
// plus the embedded server when one is configured.
type NATSTransport struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	embedded   *EmbeddedServer
	logger     watermill.LoggerAdapter
}

// NewNATSTransport connects to JetStream, starting an embedded server
// first when cfg.Embedded is set.
func NewNATSTransport(cfg *config.NATSConfig, logger watermill.LoggerAdapter) (*NATSTransport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nats config required")
	}
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	url := cfg.URL
	var embedded *EmbeddedServer
	if cfg.Embedded {
		var err error
		embedded, err = NewEmbeddedServer(cfg.StoreDir)
		if err != nil {
			return nil, err
		}
		url = embedded.ClientURL()
	}

	natsOpts := []natsgo.Option{
		natsgo.Timeout(cfg.ConnectTimeout),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			TrackMsgId:    true, // Broker-side dedup on Nats-Msg-Id
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		shutdownEmbedded(embedded)
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: natsQueuePrefix,
		SubscribersCount: cfg.SubscriberCount,
		AckWaitTimeout:   natsAckWait,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			AckAsync:      false, // Synchronous acks for at-least-once
			DurablePrefix: cfg.DurableName,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.MaxDeliver(natsMaxDeliver),
				natsgo.AckWait(natsAckWait),
				natsgo.DeliverNew(),
			},
		},
	}, logger)
	if err != nil {
		closeQuiet(pub, logger)
		shutdownEmbedded(embedded)
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return &NATSTransport{
		publisher:  pub,
		subscriber: sub,
		embedded:   embedded,
		logger:     logger,
	}, nil
}

// Publisher returns the publish side of the transport.
func (t *NATSTransport) Publisher() message.Publisher {
	return t.publisher
}

// Subscriber returns the subscribe side of the transport.
func (t *NATSTransport) Subscriber() message.Subscriber {
	return t.subscriber
}

// Close shuts down the publisher, the subscriber, and the embedded
// server when one is running.
func (t *NATSTransport) Close() error {
	var firstErr error
	if err := t.publisher.Close(); err != nil {
		firstErr = err
	}
	if err := t.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if t.embedded != nil {
		ctx, cancel := context.WithTimeout(context.Background(), natsReadyTimeout)
		defer cancel()
		if err := t.embedded.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func closeQuiet(pub message.Publisher, logger watermill.LoggerAdapter) {
	if err := pub.Close(); err != nil {
		logger.Error("Close publisher", err, nil)
	}
}

func shutdownEmbedded(s *EmbeddedServer) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.Shutdown(ctx)
}
