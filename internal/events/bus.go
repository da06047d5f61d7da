// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/metrics"
)

const correlationIDMetadata = "correlation_id"

// Bus is an in-process pub/sub backed by watermill's Go channel transport.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates a bus. Messages published while nobody is subscribed are
// dropped.
func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, logger),
		logger: logger,
	}
}

// Publish sends a FetchCompleted event.
func (b *Bus) Publish(ctx context.Context, ev FetchCompleted) error {
	payload, err := marshalEvent(&ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	id := ev.EventID
	if id == "" {
		id = watermill.NewUUID()
	}
	msg := message.NewMessage(id, payload)
	if cid := logging.CorrelationIDFromContext(ctx); cid != "" {
		msg.Metadata.Set(correlationIDMetadata, cid)
	}

	if err := b.pubsub.Publish(TopicFetchCompleted, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicFetchCompleted, err)
	}
	metrics.EventsPublished.WithLabelValues(ev.DataSource, ev.Status).Inc()
	return nil
}

// Subscriber exposes the subscribing side for the recorder's router.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Logger returns the adapter the bus logs through.
func (b *Bus) Logger() watermill.LoggerAdapter {
	return b.logger
}

// Close stops delivery to every subscriber.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
