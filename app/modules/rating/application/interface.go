package ratingservice

import (
	"context"
	"time"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	"github.com/smk-league/smk-rating/app/shared/tunables"
)

// Service is the rating engine: tournament transactions, global resets and
// the read side of player standings.
type Service interface {
	// SubmitTournament ranks, rates and commits one tournament.
	SubmitTournament(ctx context.Context, req SubmitTournamentRequest) (SubmitTournamentResult, error)
	// RevertLastTournament undoes the most recent tournament from its snapshots.
	RevertLastTournament(ctx context.Context) (UndoResult, error)
	// DeleteTournament removes any tournament with the same absentee bookkeeping as a revert.
	DeleteTournament(ctx context.Context, id int64) (UndoResult, error)

	ApplyGlobalReset(ctx context.Context, value float64, date time.Time) (GlobalResetResult, error)
	RevertGlobalReset(ctx context.Context) (GlobalResetResult, error)

	GetTierDistribution(ctx context.Context) (TierDistribution, error)
	ListClassement(ctx context.Context, tier *ratingdomain.Tier) ([]ClassementEntry, error)
	ListPlayerNames(ctx context.Context) ([]string, error)
	GetPlayerStats(ctx context.Context, name string) (PlayerStats, error)
	ListProgressions(ctx context.Context, limit int) ([]ProgressionEntry, error)
	AddPlayer(ctx context.Context, name string, leagueID *int64) (PlayerView, error)

	ListTournaments(ctx context.Context) ([]TournamentSummary, error)
	GetTournamentDetails(ctx context.Context, id int64) (TournamentDetails, error)
	GetLatestTournament(ctx context.Context) (TournamentDetails, error)

	GetConfiguration(ctx context.Context) (tunables.Configuration, error)
	SetConfiguration(ctx context.Context, key, value string) (tunables.Configuration, error)
}

var _ Service = (*RatingService)(nil)
