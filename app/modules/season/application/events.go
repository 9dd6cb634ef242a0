package seasonservice

import (
	"context"
	"time"

	"github.com/smk-league/smk-rating/app/eventbus"
	"github.com/smk-league/smk-rating/app/observability/attr"
)

const TopicSeasonPublished = "season.published.v1"

// SeasonPublishedEvent is the payload of TopicSeasonPublished.
type SeasonPublishedEvent struct {
	SeasonID   int64     `json:"season_id"`
	Slug       string    `json:"slug"`
	Grants     int       `json:"grants"`
	Movements  int       `json:"movements"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publish sends an event after commit and only logs failures.
func (s *SeasonService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := eventbus.PublishJSON(ctx, s.publisher, topic, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}
