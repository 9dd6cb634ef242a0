package ratingservice

import (
	"context"
	"time"

	"github.com/smk-league/smk-rating/app/eventbus"
	"github.com/smk-league/smk-rating/app/observability/attr"
)

const (
	TopicTournamentSubmitted = "rating.tournament.submitted.v1"
	TopicTournamentReverted  = "rating.tournament.reverted.v1"
	TopicTournamentDeleted   = "rating.tournament.deleted.v1"
	TopicGlobalResetApplied  = "rating.global_reset.applied.v1"
	TopicGlobalResetReverted = "rating.global_reset.reverted.v1"
)

// TournamentEvent is the payload of the tournament topics.
type TournamentEvent struct {
	TournamentID int64     `json:"tournament_id"`
	Date         time.Time `json:"date"`
	LeagueID     *int64    `json:"league_id,omitempty"`
	Players      int       `json:"players"`
	Ghosts       int       `json:"ghosts"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// GlobalResetEvent is the payload of the global reset topics.
type GlobalResetEvent struct {
	ResetID       int64     `json:"reset_id"`
	Value         float64   `json:"value"`
	EffectiveDate time.Time `json:"effective_date"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// publish sends an event after commit. Failures are logged only; the
// transaction they describe has already been committed.
func (s *RatingService) publish(ctx context.Context, topic string, payload any) {
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
