package seasonservice

import (
	"context"
	"fmt"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	seasondomain "github.com/smk-league/smk-rating/app/modules/season/domain"
	seasondb "github.com/smk-league/smk-rating/app/modules/season/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
)

// PublishSeason resolves a season's awards and persists them, replacing any
// earlier publish. League recaps also undo their previous movements and
// apply fresh ones. Everything commits as one unit.
func (s *SeasonService) PublishSeason(ctx context.Context, slug string) (PublishResult, error) {
	publishTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[PublishResult, error], error) {
		return s.publishSeasonLogic(ctx, db, slug)
	}

	result, err := withTelemetry(s, ctx, "PublishSeason", slug, func(ctx context.Context) (results.OperationResult[PublishResult, error], error) {
		return runWrite(s, ctx, publishTx)
	})
	out, err := unwrap(result, err)
	if err != nil {
		return PublishResult{}, err
	}

	s.publish(ctx, TopicSeasonPublished, SeasonPublishedEvent{
		SeasonID:   out.Season.ID,
		Slug:       out.Season.Slug,
		Grants:     out.Grants,
		Movements:  len(out.Movements),
		OccurredAt: s.clock.Now().UTC(),
	})
	return out, nil
}

func (s *SeasonService) publishSeasonLogic(ctx context.Context, db bun.IDB, slug string) (results.OperationResult[PublishResult, error], error) {
	season, err := s.loadSeason(ctx, db, slug)
	if err != nil {
		return fail[PublishResult](err)
	}
	cfg, err := s.store.Load(ctx, db)
	if err != nil {
		return results.OperationResult[PublishResult, error]{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	view := toSeasonView(season)
	_, winners, err := s.resolveSeason(ctx, db, cfg, view)
	if err != nil {
		return fail[PublishResult](err)
	}

	grants := buildGrants(season, winners)
	if err := s.repo.ReplaceAwardGrants(ctx, db, season.ID, grants); err != nil {
		return results.OperationResult[PublishResult, error]{}, fmt.Errorf("failed to replace award grants: %w", err)
	}

	undone, err := s.undoMovements(ctx, db, season.ID)
	if err != nil {
		return results.OperationResult[PublishResult, error]{}, err
	}

	var movements []seasondomain.Movement
	if view.IsLeagueRecap && cfg.InterLeagueMoves > 0 {
		movements, err = s.applyMovements(ctx, db, cfg, view)
		if err != nil {
			return results.OperationResult[PublishResult, error]{}, err
		}
	}

	rows := make([]*seasondb.LeagueMovement, len(movements))
	for i, m := range movements {
		rows[i] = &seasondb.LeagueMovement{
			SeasonID:     season.ID,
			PlayerID:     m.PlayerID,
			FromLeagueID: m.FromLeagueID,
			ToLeagueID:   m.ToLeagueID,
			Direction:    string(m.Direction),
		}
	}
	if err := s.repo.ReplaceLeagueMovements(ctx, db, season.ID, rows); err != nil {
		return results.OperationResult[PublishResult, error]{}, fmt.Errorf("failed to record league movements: %w", err)
	}

	now := s.clock.Now().UTC()
	if err := s.repo.MarkSeasonPublished(ctx, db, season.ID, now); err != nil {
		return results.OperationResult[PublishResult, error]{}, fmt.Errorf("failed to mark season published: %w", err)
	}
	view.IsPublished = true
	view.PublishedAt = &now

	return results.SuccessResult[PublishResult, error](PublishResult{
		Season:    view,
		Winners:   winners,
		Grants:    len(grants),
		Movements: movements,
		Undone:    undone,
	}), nil
}

func buildGrants(season *seasondb.Season, winners seasondomain.SeasonWinners) []*seasondb.AwardGrant {
	var grants []*seasondb.AwardGrant
	for i, c := range winners.Top3 {
		v := c.Value
		grants = append(grants, &seasondb.AwardGrant{
			SeasonID:  season.ID,
			PlayerID:  c.PlayerID,
			AwardCode: seasondomain.PodiumCode(i+1, season.IsYearly),
			Value:     &v,
			Rank:      i + 1,
		})
	}
	for _, award := range winners.Special {
		for _, c := range award.Winners {
			v := c.Value
			grants = append(grants, &seasondb.AwardGrant{
				SeasonID:  season.ID,
				PlayerID:  c.PlayerID,
				AwardCode: string(award.Kind),
				Value:     &v,
				Rank:      1,
			})
		}
	}
	return grants
}

// undoMovements puts every player moved by the previous publish back in the
// league they left, latest movement first.
func (s *SeasonService) undoMovements(ctx context.Context, db bun.IDB, seasonID int64) (int, error) {
	prior, err := s.repo.ListLeagueMovements(ctx, db, seasonID)
	if err != nil {
		return 0, fmt.Errorf("failed to list league movements: %w", err)
	}
	for i := len(prior) - 1; i >= 0; i-- {
		m := prior[i]
		if err := s.repo.SetPlayerLeague(ctx, db, m.PlayerID, m.FromLeagueID); err != nil {
			return 0, fmt.Errorf("failed to undo movement of player %d: %w", m.PlayerID, err)
		}
	}
	return len(prior), nil
}

// applyMovements ranks every league roster on its own league's season and
// moves players between adjacent leagues.
func (s *SeasonService) applyMovements(
	ctx context.Context,
	db bun.IDB,
	cfg tunables.Configuration,
	season SeasonView,
) ([]seasondomain.Movement, error) {
	leagues, err := s.repo.ListLeagues(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	if len(leagues) < 2 {
		return nil, nil
	}
	memberRows, err := s.repo.ListLeagueMembers(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to list league members: %w", err)
	}

	levels := make([]seasondomain.LeagueLevel, len(leagues))
	for i, l := range leagues {
		levels[i] = seasondomain.LeagueLevel{ID: l.ID, Niveau: l.Niveau}
	}
	members := make([]seasondomain.LeagueMember, len(memberRows))
	leagueOf := make(map[int64]int64, len(memberRows))
	for i, m := range memberRows {
		members[i] = seasondomain.LeagueMember{
			PlayerID:     m.PlayerID,
			LeagueID:     m.LeagueID,
			Conservative: ratingdomain.ConservativeScore(m.Mu, m.Sigma),
		}
		leagueOf[m.PlayerID] = m.LeagueID
	}

	stats := map[int64]seasondomain.PlayerSeasonStats{}
	if cfg.LeagueRanking == tunables.LeagueRankingPerformance {
		for _, l := range leagues {
			leagueStats, err := s.computeStats(ctx, db, cfg, season.Range(), seasondomain.League(l.ID))
			if err != nil {
				return nil, err
			}
			for id, row := range leagueStats.ByPlayer() {
				if leagueOf[id] == l.ID {
					stats[id] = row
				}
			}
		}
	}

	movements := seasondomain.ComputeMovements(cfg, levels, members, stats)
	for _, m := range movements {
		if err := s.repo.SetPlayerLeague(ctx, db, m.PlayerID, m.ToLeagueID); err != nil {
			return nil, fmt.Errorf("failed to move player %d: %w", m.PlayerID, err)
		}
	}
	return movements, nil
}
