package seasonservice

import (
	"context"

	seasondomain "github.com/smk-league/smk-rating/app/modules/season/domain"
)

// Service aggregates season statistics, resolves awards and publishes them.
type Service interface {
	CreateSeason(ctx context.Context, req CreateSeasonRequest) (SeasonView, error)
	ListSeasons(ctx context.Context) ([]SeasonView, error)
	GetSeason(ctx context.Context, slug string) (SeasonView, error)

	// ComputeSeasonStats aggregates the participations of a window and scope.
	ComputeSeasonStats(ctx context.Context, window seasondomain.DateRange, scope seasondomain.Scope) (seasondomain.SeasonStats, error)
	// DetermineSeasonWinners resolves the podium and special awards from candidate lists.
	DetermineSeasonWinners(
		ctx context.Context,
		candidates map[seasondomain.AwardKind][]seasondomain.Candidate,
		victory seasondomain.AwardKind,
		active []seasondomain.AwardKind,
		total int,
	) (seasondomain.SeasonWinners, error)
	// GetSeasonStats is ComputeSeasonStats plus winners for a stored season.
	GetSeasonStats(ctx context.Context, slug string) (SeasonStatsView, error)

	// PublishSeason replaces the season's grants and, for league recaps,
	// its league movements, in one transaction.
	PublishSeason(ctx context.Context, slug string) (PublishResult, error)
	GetSeasonAwards(ctx context.Context, slug string) ([]SeasonAward, error)
}

var _ Service = (*SeasonService)(nil)
