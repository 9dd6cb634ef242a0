package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
)

// EventStream is the JetStream stream holding every domain event.
const EventStream = "SMK_EVENTS"

// streamConfigs lists the streams provisioned at startup. Subjects follow the
// "<module>.<event>.v<n>" topic naming.
func streamConfigs() []jetstream.StreamConfig {
	return []jetstream.StreamConfig{
		{
			Name:      EventStream,
			Subjects:  []string{"rating.>", "season.>"},
			Retention: jetstream.LimitsPolicy,
			Storage:   jetstream.FileStorage,
		},
	}
}

// InitializeStreams creates the event streams or brings their subjects up to date.
func InitializeStreams(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) error {
	for _, cfg := range streamConfigs() {
		_, err := js.Stream(ctx, cfg.Name)
		switch {
		case errors.Is(err, jetstream.ErrStreamNotFound):
			if _, err := js.CreateStream(ctx, cfg); err != nil {
				logger.Error("Failed to create JetStream stream", slog.String("stream", cfg.Name), slog.Any("error", err))
				return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
			}
			logger.Info("Created JetStream stream", slog.String("stream", cfg.Name))
		case err != nil:
			return fmt.Errorf("failed to check stream %s: %w", cfg.Name, err)
		default:
			if _, err := js.UpdateStream(ctx, cfg); err != nil {
				return fmt.Errorf("failed to update stream %s: %w", cfg.Name, err)
			}
			logger.Debug("JetStream stream up to date", slog.String("stream", cfg.Name))
		}
	}
	return nil
}
