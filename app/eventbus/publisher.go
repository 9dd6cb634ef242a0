// Package eventbus publishes domain events after their transaction commits.
// Messages are JSON payloads carried by watermill; the transport is NATS in
// production (core subjects or durable JetStream) and an in-process go
// channel in development and tests.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Supported drivers.
const (
	DriverNATS      = "nats"
	DriverJetStream = "jetstream"
	DriverMemory    = "memory"
	DriverNone      = "none"
)

// Options selects and configures the transport.
type Options struct {
	Driver  string
	NATSURL string
}

// NewPublisher builds the publisher for the configured driver.
func NewPublisher(opts Options, logger *slog.Logger) (message.Publisher, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch opts.Driver {
	case DriverNATS:
		return NewNatsPublisher(opts.NATSURL, wmLogger)
	case DriverJetStream:
		return NewJetStreamPublisher(opts.NATSURL, logger)
	case DriverMemory:
		return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger), nil
	case DriverNone, "":
		return discardPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown event driver %q", opts.Driver)
	}
}

// PublishJSON marshals payload and publishes it as a single message on topic.
func PublishJSON(ctx context.Context, pub message.Publisher, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(uuid.New().String(), data)
	msg.SetContext(ctx)
	msg.Metadata.Set("content_type", "application/json")
	msg.Metadata.Set("topic", topic)
	if err := pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

type discardPublisher struct{}

func (discardPublisher) Publish(string, ...*message.Message) error { return nil }

func (discardPublisher) Close() error { return nil }
