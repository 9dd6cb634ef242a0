package seasonservice

import (
	"context"
	"fmt"

	seasondomain "github.com/smk-league/smk-rating/app/modules/season/domain"
	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
)

// ComputeSeasonStats replays the participations of window and scope.
func (s *SeasonService) ComputeSeasonStats(ctx context.Context, window seasondomain.DateRange, scope seasondomain.Scope) (seasondomain.SeasonStats, error) {
	identifier := fmt.Sprintf("%s..%s/%s", window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"), scope.Kind)
	result, err := withTelemetry(s, ctx, "ComputeSeasonStats", identifier, func(ctx context.Context) (results.OperationResult[seasondomain.SeasonStats, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[seasondomain.SeasonStats, error], error) {
			cfg, err := s.store.Load(ctx, db)
			if err != nil {
				return results.OperationResult[seasondomain.SeasonStats, error]{}, fmt.Errorf("failed to load configuration: %w", err)
			}
			stats, err := s.computeStats(ctx, db, cfg, window, scope)
			if err != nil {
				return fail[seasondomain.SeasonStats](err)
			}
			return results.SuccessResult[seasondomain.SeasonStats, error](stats), nil
		})
	})
	return unwrap(result, err)
}

func (s *SeasonService) computeStats(
	ctx context.Context,
	db bun.IDB,
	cfg tunables.Configuration,
	window seasondomain.DateRange,
	scope seasondomain.Scope,
) (seasondomain.SeasonStats, error) {
	start, end := truncateDay(window.Start), truncateDay(window.End)
	if end.Before(start) {
		return seasondomain.SeasonStats{}, fmt.Errorf("%w: window ends before it starts", ErrValidation)
	}

	var leagueID *int64
	noLeague := false
	switch scope.Kind {
	case seasondomain.ScopeAll:
	case seasondomain.ScopeLeague:
		id := scope.LeagueID
		leagueID = &id
	case seasondomain.ScopeNoLeague:
		noLeague = true
	default:
		return seasondomain.SeasonStats{}, fmt.Errorf("%w: unknown scope %q", ErrValidation, scope.Kind)
	}

	rows, err := s.repo.ListMatches(ctx, db, start, end, leagueID, noLeague)
	if err != nil {
		return seasondomain.SeasonStats{}, fmt.Errorf("failed to list matches: %w", err)
	}
	matches := make([]seasondomain.Match, len(rows))
	for i, r := range rows {
		matches[i] = seasondomain.Match{
			TournamentID:      r.TournamentID,
			Date:              r.Date,
			PlayerID:          r.PlayerID,
			PlayerName:        r.PlayerName,
			Score:             r.Score,
			Position:          r.Position,
			SigmaAfter:        r.SigmaAfter,
			ConservativeAfter: r.ConservativeAfter,
		}
	}
	return seasondomain.ComputeSeasonStats(cfg, matches), nil
}

// DetermineSeasonWinners resolves the podium and special awards.
func (s *SeasonService) DetermineSeasonWinners(
	ctx context.Context,
	candidates map[seasondomain.AwardKind][]seasondomain.Candidate,
	victory seasondomain.AwardKind,
	active []seasondomain.AwardKind,
	total int,
) (seasondomain.SeasonWinners, error) {
	result, err := withTelemetry(s, ctx, "DetermineSeasonWinners", string(victory), func(ctx context.Context) (results.OperationResult[seasondomain.SeasonWinners, error], error) {
		cfg, err := s.store.Load(ctx, nil)
		if err != nil {
			return results.OperationResult[seasondomain.SeasonWinners, error]{}, fmt.Errorf("failed to load configuration: %w", err)
		}
		winners, err := seasondomain.ResolveAwards(cfg, candidates, victory, active, total)
		if err != nil {
			return results.FailureResult[seasondomain.SeasonWinners, error](fmt.Errorf("%w: %w", ErrValidation, err)), nil
		}
		return results.SuccessResult[seasondomain.SeasonWinners, error](winners), nil
	})
	return unwrap(result, err)
}

// GetSeasonStats computes a stored season's statistics and the winners a
// publish would grant.
func (s *SeasonService) GetSeasonStats(ctx context.Context, slug string) (SeasonStatsView, error) {
	result, err := withTelemetry(s, ctx, "GetSeasonStats", slug, func(ctx context.Context) (results.OperationResult[SeasonStatsView, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[SeasonStatsView, error], error) {
			season, err := s.loadSeason(ctx, db, slug)
			if err != nil {
				return fail[SeasonStatsView](err)
			}
			cfg, err := s.store.Load(ctx, db)
			if err != nil {
				return results.OperationResult[SeasonStatsView, error]{}, fmt.Errorf("failed to load configuration: %w", err)
			}
			view := toSeasonView(season)
			stats, winners, err := s.resolveSeason(ctx, db, cfg, view)
			if err != nil {
				return fail[SeasonStatsView](err)
			}
			return results.SuccessResult[SeasonStatsView, error](SeasonStatsView{Season: view, Stats: stats, Winners: winners}), nil
		})
	})
	return unwrap(result, err)
}

func (s *SeasonService) resolveSeason(
	ctx context.Context,
	db bun.IDB,
	cfg tunables.Configuration,
	season SeasonView,
) (seasondomain.SeasonStats, seasondomain.SeasonWinners, error) {
	stats, err := s.computeStats(ctx, db, cfg, season.Range(), season.Scope())
	if err != nil {
		return seasondomain.SeasonStats{}, seasondomain.SeasonWinners{}, err
	}
	winners, err := seasondomain.ResolveAwards(cfg, stats.Candidates, season.VictoryCondition, season.ActiveAwards, stats.TotalTournois)
	if err != nil {
		return seasondomain.SeasonStats{}, seasondomain.SeasonWinners{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return stats, winners, nil
}
