package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const provisionTimeout = 10 * time.Second

// NewJetStreamPublisher provisions the event streams and returns a watermill
// publisher that persists every message in JetStream.
func NewJetStreamPublisher(natsURL string, logger *slog.Logger) (message.Publisher, error) {
	conn, err := nc.Connect(natsURL, nc.Name("smk-rating-provisioner"))
	if err != nil {
		logger.Error("Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer conn.Close()

	js, err := jetstream.New(conn)
	if err != nil {
		logger.Error("Failed to initialize JetStream", slog.Any("error", err))
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
	defer cancel()
	if err := InitializeStreams(ctx, js, logger); err != nil {
		return nil, err
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:       natsURL,
			Marshaler: &nats.NATSMarshaler{},
			NatsOptions: []nc.Option{
				nc.Name("smk-rating"),
				nc.RetryOnFailedConnect(true),
				nc.MaxReconnects(-1),
			},
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				TrackMsgId:    true,
			},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		logger.Error("Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}
	return publisher, nil
}
