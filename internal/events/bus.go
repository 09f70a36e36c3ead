// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/animerank/internal/config"
	"github.com/tomtom215/animerank/internal/metrics"
)

// Handler processes one decoded catalog event.
type Handler func(ctx context.Context, evt *CatalogUpdated) error

// Bus publishes and consumes catalog events on a single topic.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	closers    []func() error
	topic      string
	transport  string
	logger     watermill.LoggerAdapter

	closeOnce sync.Once
	closeErr  error
}

// NewBus builds a NATS-backed bus when events are enabled and a URL is
// configured, and an in-process bus otherwise.
func NewBus(cfg config.EventsConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	if !cfg.Enabled || cfg.URL == "" {
		return NewChannelBus(topic, logger), nil
	}
	return newNATSBus(cfg.URL, topic, logger)
}

// NewChannelBus creates an in-process bus. Only subscribers that are
// listening when an event is published receive it.
func NewChannelBus(topic string, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
	return &Bus{
		publisher:  ch,
		subscriber: ch,
		closers:    []func() error{ch.Close},
		topic:      topic,
		transport:  "channel",
		logger:     logger,
	}
}

func newNATSBus(url, topic string, logger watermill.LoggerAdapter) (*Bus, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("animerank"),
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

	// Core NATS only: events are notifications and a missed one is
	// recovered by the next scheduled refresh.
	jsCfg := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   jsCfg,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	// No queue group: every subscribed instance receives every event.
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     10 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        jsCfg,
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &Bus{
		publisher:  pub,
		subscriber: sub,
		closers:    []func() error{sub.Close, pub.Close},
		topic:      topic,
		transport:  "nats",
		logger:     logger,
	}, nil
}

// Topic returns the subject the bus publishes to.
func (b *Bus) Topic() string {
	return b.topic
}

// Transport returns "channel" or "nats".
func (b *Bus) Transport() string {
	return b.transport
}

// Publish sends evt to the topic.
func (b *Bus) Publish(ctx context.Context, evt *CatalogUpdated) error {
	payload, err := evt.Marshal()
	if err != nil {
		metrics.RecordEventPublished(b.topic, err)
		return err
	}

	msg := message.NewMessage(evt.EventID, payload)
	msg.Metadata.Set("source", evt.Source)
	msg.SetContext(ctx)

	err = b.publisher.Publish(b.topic, msg)
	metrics.RecordEventPublished(b.topic, err)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", b.topic, err)
	}
	return nil
}

// Listen subscribes to the topic and processes events with handle in a
// background goroutine. The subscription is active when Listen returns.
// The returned channel yields the consumer's exit error once and is then
// closed; ctx cancellation ends the consumer.
func (b *Bus) Listen(ctx context.Context, handle Handler) (<-chan error, error) {
	if handle == nil {
		return nil, errors.New("events: nil handler")
	}

	messages, err := b.subscriber.Subscribe(ctx, b.topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", b.topic, err)
	}

	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- b.consume(ctx, messages, handle)
	}()
	return done, nil
}

func (b *Bus) consume(ctx context.Context, messages <-chan *message.Message, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.process(ctx, msg, handle)
		}
	}
}

// process always acks. A malformed payload never decodes, and a failed
// handler is retried by the periodic refresh rather than by redelivery.
func (b *Bus) process(ctx context.Context, msg *message.Message, handle Handler) {
	defer msg.Ack()

	fields := watermill.LogFields{
		"message_uuid": msg.UUID,
		"topic":        b.topic,
	}

	evt, err := Unmarshal(msg.Payload)
	if err != nil {
		b.logger.Error("Dropping malformed catalog event", err, fields)
		metrics.RecordEventConsumed(b.topic, err)
		return
	}

	err = handle(ctx, evt)
	metrics.RecordEventConsumed(b.topic, err)
	if err != nil {
		b.logger.Error("Catalog event handler failed", err, fields.Add(watermill.LogFields{
			"source": evt.Source,
		}))
		return
	}
	b.logger.Debug("Catalog event handled", fields)
}

// Close shuts down the subscriber and publisher. It is safe to call more
// than once.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		var errs []error
		for _, c := range b.closers {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
		b.closeErr = errors.Join(errs...)
	})
	return b.closeErr
}
