package ratingservice

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
)

// ListClassement returns players by descending conservative score,
// optionally restricted to one tier.
func (s *RatingService) ListClassement(ctx context.Context, tier *ratingdomain.Tier) ([]ClassementEntry, error) {
	identifier := "all"
	if tier != nil {
		identifier = string(*tier)
	}
	result, err := withTelemetry(s, ctx, "ListClassement", identifier, func(ctx context.Context) (results.OperationResult[[]ClassementEntry, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]ClassementEntry, error], error) {
			return s.listClassementLogic(ctx, db, tier)
		})
	})
	return unwrap(result, err)
}

func (s *RatingService) listClassementLogic(ctx context.Context, db bun.IDB, tier *ratingdomain.Tier) (results.OperationResult[[]ClassementEntry, error], error) {
	if tier != nil && !tier.IsValid() {
		return results.FailureResult[[]ClassementEntry, error](fmt.Errorf("%w: unknown tier %q", ErrValidation, *tier)), nil
	}
	players, err := s.repo.ListClassement(ctx, db, tier)
	if err != nil {
		return results.OperationResult[[]ClassementEntry, error]{}, fmt.Errorf("failed to list classement: %w", err)
	}
	out := make([]ClassementEntry, len(players))
	for i, p := range players {
		out[i] = ClassementEntry{
			Rank:     i + 1,
			Name:     p.Name,
			Mu:       round(p.Mu, 2),
			Sigma:    round(p.Sigma, 2),
			Score:    round(p.Conservative(), 2),
			Tier:     p.Tier,
			IsRanked: p.IsRanked,
		}
	}
	return results.SuccessResult[[]ClassementEntry, error](out), nil
}

// DefaultProgressionLimit is the size of the progression leaderboard when
// the caller does not ask for one.
const DefaultProgressionLimit = 10

// ListProgressions returns the players who climbed furthest above the
// initial mean, best first. A non-positive limit means the default.
func (s *RatingService) ListProgressions(ctx context.Context, limit int) ([]ProgressionEntry, error) {
	if limit <= 0 {
		limit = DefaultProgressionLimit
	}
	result, err := withTelemetry(s, ctx, "ListProgressions", strconv.Itoa(limit), func(ctx context.Context) (results.OperationResult[[]ProgressionEntry, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]ProgressionEntry, error], error) {
			return s.listProgressionsLogic(ctx, db, limit)
		})
	})
	return unwrap(result, err)
}

func (s *RatingService) listProgressionsLogic(ctx context.Context, db bun.IDB, limit int) (results.OperationResult[[]ProgressionEntry, error], error) {
	cfg, err := s.store.Load(ctx, db)
	if err != nil {
		return results.OperationResult[[]ProgressionEntry, error]{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	players, err := s.repo.ListPlayers(ctx, db)
	if err != nil {
		return results.OperationResult[[]ProgressionEntry, error]{}, fmt.Errorf("failed to list players: %w", err)
	}

	out := make([]ProgressionEntry, 0, len(players))
	for _, p := range players {
		out = append(out, ProgressionEntry{
			Name:        p.Name,
			Progression: p.Conservative() - cfg.InitialMu,
			Tier:        p.Tier,
		})
	}
	slices.SortStableFunc(out, func(a, b ProgressionEntry) int {
		if c := cmp.Compare(b.Progression, a.Progression); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Progression = round(out[i].Progression, 2)
	}
	return results.SuccessResult[[]ProgressionEntry, error](out), nil
}

// ListPlayerNames returns every player name in alphabetical order.
func (s *RatingService) ListPlayerNames(ctx context.Context) ([]string, error) {
	result, err := withTelemetry(s, ctx, "ListPlayerNames", "all", func(ctx context.Context) (results.OperationResult[[]string, error], error) {
		players, err := s.repo.ListPlayers(ctx, nil)
		if err != nil {
			return results.OperationResult[[]string, error]{}, fmt.Errorf("failed to list players: %w", err)
		}
		names := make([]string, len(players))
		for i, p := range players {
			names[i] = p.Name
		}
		slices.SortFunc(names, func(a, b string) int {
			return strings.Compare(strings.ToLower(a), strings.ToLower(b))
		})
		return results.SuccessResult[[]string, error](names), nil
	})
	return unwrap(result, err)
}

// GetPlayerStats returns a player's current standing and history.
func (s *RatingService) GetPlayerStats(ctx context.Context, name string) (PlayerStats, error) {
	result, err := withTelemetry(s, ctx, "GetPlayerStats", name, func(ctx context.Context) (results.OperationResult[PlayerStats, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[PlayerStats, error], error) {
			return s.getPlayerStatsLogic(ctx, db, name)
		})
	})
	return unwrap(result, err)
}

func (s *RatingService) getPlayerStatsLogic(ctx context.Context, db bun.IDB, name string) (results.OperationResult[PlayerStats, error], error) {
	player, err := s.repo.GetPlayerByName(ctx, db, name)
	if err != nil {
		if errors.Is(err, ratingdb.ErrNotFound) {
			return results.FailureResult[PlayerStats, error](fmt.Errorf("%w: player %q", ErrNotFound, name)), nil
		}
		return results.OperationResult[PlayerStats, error]{}, fmt.Errorf("failed to get player: %w", err)
	}
	history, err := s.repo.GetPlayerHistory(ctx, db, player.ID)
	if err != nil {
		return results.OperationResult[PlayerStats, error]{}, fmt.Errorf("failed to get history: %w", err)
	}
	everyone, err := s.repo.ListPlayers(ctx, db)
	if err != nil {
		return results.OperationResult[PlayerStats, error]{}, fmt.Errorf("failed to list players: %w", err)
	}

	out := PlayerStats{
		Name:              player.Name,
		Mu:                round(player.Mu, 2),
		Sigma:             round(player.Sigma, 2),
		Score:             round(player.Conservative(), 2),
		Tier:              player.Tier,
		IsRanked:          player.IsRanked,
		ConsecutiveMissed: player.ConsecutiveMissed,
		TournamentCount:   len(history),
		History:           make([]HistoryPoint, len(history)),
	}

	positions := 0
	for i, h := range history {
		positions += h.Position
		out.History[i] = HistoryPoint{
			TournamentID: h.TournamentID,
			Date:         truncateDay(h.Date),
			Position:     h.Position,
			Score:        h.Score,
			Conservative: round(h.ConservativeAfter, 2),
		}
	}
	if len(history) > 0 {
		out.AveragePosition = round(float64(positions)/float64(len(history)), 2)
	}

	own := player.Conservative()
	below := 0
	for _, p := range everyone {
		if p.Conservative() <= own {
			below++
		}
	}
	if len(everyone) > 0 {
		out.Percentile = round(100*float64(below)/float64(len(everyone)), 1)
	}
	return results.SuccessResult[PlayerStats, error](out), nil
}

// AddPlayer registers a player with the initial belief ahead of their first
// tournament.
func (s *RatingService) AddPlayer(ctx context.Context, name string, leagueID *int64) (PlayerView, error) {
	name = strings.TrimSpace(name)
	addTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[PlayerView, error], error) {
		return s.addPlayerLogic(ctx, db, name, leagueID)
	}
	result, err := withTelemetry(s, ctx, "AddPlayer", name, func(ctx context.Context) (results.OperationResult[PlayerView, error], error) {
		return runWrite(s, ctx, addTx)
	})
	return unwrap(result, err)
}

func (s *RatingService) addPlayerLogic(ctx context.Context, db bun.IDB, name string, leagueID *int64) (results.OperationResult[PlayerView, error], error) {
	if name == "" {
		return results.FailureResult[PlayerView, error](fmt.Errorf("%w: empty player name", ErrValidation)), nil
	}
	cfg, err := s.store.Load(ctx, db)
	if err != nil {
		return results.OperationResult[PlayerView, error]{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	now := s.clock.Now().UTC()
	player := &ratingdb.Player{
		Name:      name,
		Mu:        cfg.InitialMu,
		Sigma:     cfg.InitialSigma,
		Tier:      ratingdomain.TierU,
		IsRanked:  true,
		LeagueID:  leagueID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreatePlayer(ctx, db, player); err != nil {
		if errors.Is(err, ratingdb.ErrDuplicateName) {
			return results.FailureResult[PlayerView, error](fmt.Errorf("%w: player %q already exists", ErrValidation, name)), nil
		}
		return results.OperationResult[PlayerView, error]{}, fmt.Errorf("failed to create player: %w", err)
	}
	return results.SuccessResult[PlayerView, error](playerView(player)), nil
}

func playerView(p *ratingdb.Player) PlayerView {
	return PlayerView{
		ID:       p.ID,
		Name:     p.Name,
		Mu:       p.Mu,
		Sigma:    p.Sigma,
		Tier:     p.Tier,
		IsRanked: p.IsRanked,
		LeagueID: p.LeagueID,
	}
}

// ListTournaments returns every tournament, newest first.
func (s *RatingService) ListTournaments(ctx context.Context) ([]TournamentSummary, error) {
	result, err := withTelemetry(s, ctx, "ListTournaments", "all", func(ctx context.Context) (results.OperationResult[[]TournamentSummary, error], error) {
		rows, err := s.repo.ListTournaments(ctx, nil)
		if err != nil {
			return results.OperationResult[[]TournamentSummary, error]{}, fmt.Errorf("failed to list tournaments: %w", err)
		}
		out := make([]TournamentSummary, len(rows))
		for i, r := range rows {
			out[i] = TournamentSummary{
				ID:          r.ID,
				Date:        truncateDay(r.Date),
				LeagueID:    r.LeagueID,
				PlayerCount: r.PlayerCount,
				Winner:      r.Winner,
			}
		}
		return results.SuccessResult[[]TournamentSummary, error](out), nil
	})
	return unwrap(result, err)
}

// GetTournamentDetails returns a tournament with its ordered results.
func (s *RatingService) GetTournamentDetails(ctx context.Context, id int64) (TournamentDetails, error) {
	result, err := withTelemetry(s, ctx, "GetTournamentDetails", strconv.FormatInt(id, 10), func(ctx context.Context) (results.OperationResult[TournamentDetails, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[TournamentDetails, error], error) {
			t, err := s.repo.GetTournament(ctx, db, id)
			if err != nil {
				if errors.Is(err, ratingdb.ErrNotFound) {
					return results.FailureResult[TournamentDetails, error](fmt.Errorf("%w: tournament %d", ErrNotFound, id)), nil
				}
				return results.OperationResult[TournamentDetails, error]{}, fmt.Errorf("failed to get tournament: %w", err)
			}
			return s.tournamentDetails(ctx, db, t)
		})
	})
	return unwrap(result, err)
}

// GetLatestTournament returns the details of the most recent tournament.
func (s *RatingService) GetLatestTournament(ctx context.Context) (TournamentDetails, error) {
	result, err := withTelemetry(s, ctx, "GetLatestTournament", "latest", func(ctx context.Context) (results.OperationResult[TournamentDetails, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[TournamentDetails, error], error) {
			t, err := s.repo.GetLatestTournament(ctx, db)
			if err != nil {
				if errors.Is(err, ratingdb.ErrNotFound) {
					return results.FailureResult[TournamentDetails, error](fmt.Errorf("%w: no tournament yet", ErrNotFound)), nil
				}
				return results.OperationResult[TournamentDetails, error]{}, fmt.Errorf("failed to get latest tournament: %w", err)
			}
			return s.tournamentDetails(ctx, db, t)
		})
	})
	return unwrap(result, err)
}

func (s *RatingService) tournamentDetails(ctx context.Context, db bun.IDB, t *ratingdb.Tournament) (results.OperationResult[TournamentDetails, error], error) {
	rows, err := s.repo.GetParticipations(ctx, db, t.ID)
	if err != nil {
		return results.OperationResult[TournamentDetails, error]{}, fmt.Errorf("failed to get participations: %w", err)
	}
	out := TournamentDetails{
		ID:       t.ID,
		Date:     truncateDay(t.Date),
		LeagueID: t.LeagueID,
		Results:  make([]TournamentResultLine, len(rows)),
	}
	for i, row := range rows {
		name := ""
		if row.Player != nil {
			name = row.Player.Name
		}
		out.Results[i] = TournamentResultLine{
			Position:           row.Position,
			Name:               name,
			Score:              row.Score,
			MuAfter:            round(row.MuAfter, 2),
			SigmaAfter:         round(row.SigmaAfter, 2),
			ConservativeAfter:  round(row.ConservativeAfter, 2),
			TierAfter:          row.TierAfter,
			ExcludedFromRating: row.ExcludedFromRating,
		}
	}
	return results.SuccessResult[TournamentDetails, error](out), nil
}

// GetConfiguration returns the stored tunables on top of the defaults.
func (s *RatingService) GetConfiguration(ctx context.Context) (tunables.Configuration, error) {
	result, err := withTelemetry(s, ctx, "GetConfiguration", "all", func(ctx context.Context) (results.OperationResult[tunables.Configuration, error], error) {
		cfg, err := s.store.Load(ctx, nil)
		if err != nil {
			return results.OperationResult[tunables.Configuration, error]{}, err
		}
		return results.SuccessResult[tunables.Configuration, error](cfg), nil
	})
	return unwrap(result, err)
}

// SetConfiguration stores one tunable and recomputes tiers, which depend on
// sigma_threshold.
func (s *RatingService) SetConfiguration(ctx context.Context, key, value string) (tunables.Configuration, error) {
	setTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[tunables.Configuration, error], error) {
		return s.setConfigurationLogic(ctx, db, key, value)
	}
	result, err := withTelemetry(s, ctx, "SetConfiguration", key, func(ctx context.Context) (results.OperationResult[tunables.Configuration, error], error) {
		return runWrite(s, ctx, setTx)
	})
	return unwrap(result, err)
}

func (s *RatingService) setConfigurationLogic(ctx context.Context, db bun.IDB, key, value string) (results.OperationResult[tunables.Configuration, error], error) {
	if err := tunables.Validate(key, value); err != nil {
		return results.FailureResult[tunables.Configuration, error](fmt.Errorf("%w: %w", ErrValidation, err)), nil
	}
	if err := s.store.Set(ctx, db, key, value); err != nil {
		return results.OperationResult[tunables.Configuration, error]{}, fmt.Errorf("failed to store %s: %w", key, err)
	}
	cfg, err := s.store.Load(ctx, db)
	if err != nil {
		return results.OperationResult[tunables.Configuration, error]{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	players, err := s.repo.ListPlayers(ctx, db)
	if err != nil {
		return results.OperationResult[tunables.Configuration, error]{}, fmt.Errorf("failed to list players: %w", err)
	}
	recomputeTiers(cfg, players)
	if err := s.repo.UpdatePlayers(ctx, db, players); err != nil {
		return results.OperationResult[tunables.Configuration, error]{}, fmt.Errorf("failed to update players: %w", err)
	}
	return results.SuccessResult[tunables.Configuration, error](cfg), nil
}
