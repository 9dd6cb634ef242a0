package eventbus

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// NatsPublisher implements the watermill Publisher interface on a core NATS
// connection. Metadata travels as NATS headers.
type NatsPublisher struct {
	conn   *nc.Conn
	logger watermill.LoggerAdapter
}

// NewNatsPublisher connects to natsURL with unlimited reconnects.
func NewNatsPublisher(natsURL string, logger watermill.LoggerAdapter, opts ...nc.Option) (*NatsPublisher, error) {
	logger.Info("Connecting to NATS for publisher", watermill.LogFields{"url": natsURL})

	connectOpts := []nc.Option{
		nc.Name("smk-rating"),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(2 * time.Second),
	}
	connectOpts = append(connectOpts, opts...)

	conn, err := nc.Connect(natsURL, connectOpts...)
	if err != nil {
		logger.Error("Failed to connect to NATS", err, nil)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS for publisher", nil)

	return &NatsPublisher{conn: conn, logger: logger}, nil
}

// Publish implements message.Publisher.
func (p *NatsPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		out := nc.NewMsg(topic)
		out.Data = msg.Payload
		out.Header.Set("Watermill-UUID", msg.UUID)
		for k, v := range msg.Metadata {
			out.Header.Set(k, v)
		}

		p.logger.Debug("Publishing message", watermill.LogFields{"topic": topic, "uuid": msg.UUID})
		if err := p.conn.PublishMsg(out); err != nil {
			return fmt.Errorf("failed to publish message to NATS: %w", err)
		}
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NatsPublisher) Close() error {
	p.logger.Info("Closing NATS publisher connection", nil)
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
