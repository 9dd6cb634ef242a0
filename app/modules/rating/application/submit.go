package ratingservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/uptrace/bun"
)

// SubmitTournament validates, ranks and rates one tournament, penalizes the
// absentees and recomputes every tier, all in one transaction.
func (s *RatingService) SubmitTournament(ctx context.Context, req SubmitTournamentRequest) (SubmitTournamentResult, error) {
	submitTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[SubmitTournamentResult, error], error) {
		return s.submitTournamentLogic(ctx, db, req)
	}

	result, err := withTelemetry(s, ctx, "SubmitTournament", req.Date.Format(time.DateOnly), func(ctx context.Context) (results.OperationResult[SubmitTournamentResult, error], error) {
		return runWrite(s, ctx, submitTx)
	})
	out, err := unwrap(result, err)
	if err != nil {
		return SubmitTournamentResult{}, err
	}

	s.recordTiers(ctx, out.Tiers)
	s.metrics.RecordGhostPenalties(ctx, len(out.Ghosts))
	s.publish(ctx, TopicTournamentSubmitted, TournamentEvent{
		TournamentID: out.TournamentID,
		Date:         out.Date,
		LeagueID:     req.LeagueID,
		Players:      len(out.Participants),
		Ghosts:       len(out.Ghosts),
		OccurredAt:   s.clock.Now().UTC(),
	})
	return out, nil
}

// validateScores checks the entry list itself; dates are checked against
// stored state by the caller.
func validateScores(scores []ScoreLine) ([]ratingdomain.ScoreEntry, error) {
	if len(scores) < 2 {
		return nil, fmt.Errorf("%w: a tournament needs at least 2 entrants, got %d", ErrValidation, len(scores))
	}
	seen := make(map[string]struct{}, len(scores))
	entries := make([]ratingdomain.ScoreEntry, 0, len(scores))
	for _, line := range scores {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty player name", ErrValidation)
		}
		if line.Score < 0 {
			return nil, fmt.Errorf("%w: negative score %d for %s", ErrValidation, line.Score, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate player %s", ErrValidation, name)
		}
		seen[name] = struct{}{}
		entries = append(entries, ratingdomain.ScoreEntry{Name: name, Score: line.Score, ExcludedFromRating: line.ExcludedFromRating})
	}
	return entries, nil
}

// checkSubmissionDate enforces the tournament ordering: never in the future,
// never before the latest tournament, never on or after an unreverted global
// reset.
func (s *RatingService) checkSubmissionDate(ctx context.Context, db bun.IDB, date time.Time) error {
	if date.After(s.today()) {
		return fmt.Errorf("%w: date %s is in the future", ErrValidation, date.Format(time.DateOnly))
	}

	latest, err := s.repo.GetLatestTournament(ctx, db)
	switch {
	case errors.Is(err, ratingdb.ErrNotFound):
	case err != nil:
		return err
	case date.Before(truncateDay(latest.Date)):
		return fmt.Errorf("%w: date %s is before the latest tournament (%s)",
			ErrValidation, date.Format(time.DateOnly), latest.Date.Format(time.DateOnly))
	}

	resets, err := s.repo.ListActiveGlobalResets(ctx, db)
	if err != nil {
		return err
	}
	for _, reset := range resets {
		if !date.Before(truncateDay(reset.EffectiveDate)) {
			return fmt.Errorf("%w: date %s is on or after unreverted global reset %d (%s)",
				ErrConsistency, date.Format(time.DateOnly), reset.ID, reset.EffectiveDate.Format(time.DateOnly))
		}
	}
	return nil
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConsistency) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrTooOldToRevert)
}

func (s *RatingService) submitTournamentLogic(ctx context.Context, db bun.IDB, req SubmitTournamentRequest) (results.OperationResult[SubmitTournamentResult, error], error) {
	fail := func(err error) (results.OperationResult[SubmitTournamentResult, error], error) {
		if isDomainError(err) {
			return results.FailureResult[SubmitTournamentResult, error](err), nil
		}
		return results.OperationResult[SubmitTournamentResult, error]{}, err
	}

	entries, err := validateScores(req.Scores)
	if err != nil {
		return fail(err)
	}
	date := truncateDay(req.Date)
	if err := s.checkSubmissionDate(ctx, db, date); err != nil {
		return fail(err)
	}

	cfg, err := s.store.Load(ctx, db)
	if err != nil {
		return fail(fmt.Errorf("failed to load configuration: %w", err))
	}
	players, err := s.repo.ListPlayers(ctx, db)
	if err != nil {
		return fail(fmt.Errorf("failed to list players: %w", err))
	}
	byName := make(map[string]*ratingdb.Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}

	now := s.clock.Now().UTC()
	ranked := ratingdomain.AssignRanks(entries)

	newPlayers := make(map[string]bool)
	for _, e := range ranked {
		if _, ok := byName[e.Name]; ok {
			continue
		}
		p := &ratingdb.Player{
			Name:      e.Name,
			Mu:        cfg.InitialMu,
			Sigma:     cfg.InitialSigma,
			Tier:      ratingdomain.TierU,
			IsRanked:  true,
			LeagueID:  req.LeagueID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.CreatePlayer(ctx, db, p); err != nil {
			return fail(fmt.Errorf("failed to create player %s: %w", e.Name, err))
		}
		players = append(players, p)
		byName[p.Name] = p
		newPlayers[p.Name] = true
	}

	tournament := &ratingdb.Tournament{Date: date, LeagueID: req.LeagueID, CreatedAt: now}
	if err := s.repo.CreateTournament(ctx, db, tournament); err != nil {
		return fail(fmt.Errorf("failed to create tournament: %w", err))
	}

	// Guests keep their rank but stay out of the belief update.
	var rated []ratingdomain.RatedParticipant
	var ratedIdx []int
	for i, e := range ranked {
		if e.ExcludedFromRating {
			continue
		}
		rated = append(rated, ratingdomain.RatedParticipant{Position: e.Position, Rating: byName[e.Name].Rating()})
		ratedIdx = append(ratedIdx, i)
	}
	updated := make(map[int]ratingdomain.Rating, len(rated))
	if len(rated) >= 2 {
		ratings, err := ratingdomain.UpdateRatings(cfg, rated)
		if err != nil {
			return fail(fmt.Errorf("failed to update ratings: %w", err))
		}
		for k, i := range ratedIdx {
			updated[i] = ratings[k]
		}
	}

	present := make(map[int64]bool, len(ranked))
	rows := make([]*ratingdb.Participation, len(ranked))
	for i, e := range ranked {
		p := byName[e.Name]
		muBefore, sigmaBefore := p.Mu, p.Sigma
		missedBefore, rankedBefore := p.ConsecutiveMissed, p.IsRanked

		if r, ok := updated[i]; ok {
			p.Mu, p.Sigma = r.Mu, r.Sigma
		}
		applyAbsenceState(p, ratingdomain.Reappear(absenceState(p)))
		present[p.ID] = true

		rows[i] = &ratingdb.Participation{
			TournamentID:       tournament.ID,
			PlayerID:           p.ID,
			Score:              e.Score,
			Position:           e.Position,
			MuBefore:           &muBefore,
			SigmaBefore:        &sigmaBefore,
			MissedBefore:       &missedBefore,
			RankedBefore:       &rankedBefore,
			MuAfter:            p.Mu,
			SigmaAfter:         p.Sigma,
			ConservativeAfter:  p.Conservative(),
			ExcludedFromRating: e.ExcludedFromRating,
		}
	}

	var ghostRows []*ratingdb.GhostLogEntry
	var ghosts []GhostOutcome
	for _, p := range players {
		if present[p.ID] || !isAbsentee(p, tournament) {
			continue
		}
		next, penalty := ratingdomain.ApplyAbsence(cfg, absenceState(p))
		applyAbsenceState(p, next)
		if penalty == nil {
			continue
		}
		ghostRows = append(ghostRows, &ratingdb.GhostLogEntry{
			PlayerID:     p.ID,
			TournamentID: tournament.ID,
			OldSigma:     penalty.OldSigma,
			NewSigma:     penalty.NewSigma,
			Penalty:      penalty.Amount,
			CreatedAt:    now,
		})
		ghosts = append(ghosts, GhostOutcome{PlayerID: p.ID, Name: p.Name, OldSigma: penalty.OldSigma, NewSigma: penalty.NewSigma})
	}

	dist := recomputeTiers(cfg, players)

	out := SubmitTournamentResult{
		TournamentID: tournament.ID,
		Date:         date,
		Participants: make([]ParticipantOutcome, len(rows)),
		Ghosts:       ghosts,
		Tiers:        dist,
	}
	for i, row := range rows {
		p := byName[ranked[i].Name]
		row.TierAfter = p.Tier
		out.Participants[i] = ParticipantOutcome{
			PlayerID:           p.ID,
			Name:               p.Name,
			Score:              row.Score,
			Position:           row.Position,
			MuBefore:           *row.MuBefore,
			SigmaBefore:        *row.SigmaBefore,
			MuAfter:            row.MuAfter,
			SigmaAfter:         row.SigmaAfter,
			ConservativeAfter:  row.ConservativeAfter,
			Tier:               row.TierAfter,
			ExcludedFromRating: row.ExcludedFromRating,
			NewPlayer:          newPlayers[p.Name],
		}
	}

	if err := s.repo.UpdatePlayers(ctx, db, players); err != nil {
		return fail(fmt.Errorf("failed to update players: %w", err))
	}
	if err := s.repo.InsertParticipations(ctx, db, rows); err != nil {
		return fail(fmt.Errorf("failed to insert participations: %w", err))
	}
	if err := s.repo.InsertGhostLog(ctx, db, ghostRows); err != nil {
		return fail(fmt.Errorf("failed to insert ghost log: %w", err))
	}

	return results.SuccessResult[SubmitTournamentResult, error](out), nil
}

// isAbsentee reports whether p counts as missing t: league tournaments only
// concern that league's members, and players created later never count.
func isAbsentee(p *ratingdb.Player, t *ratingdb.Tournament) bool {
	if p.CreatedAt.After(t.CreatedAt) {
		return false
	}
	if t.LeagueID == nil {
		return true
	}
	return p.LeagueID != nil && *p.LeagueID == *t.LeagueID
}

func absenceState(p *ratingdb.Player) ratingdomain.AbsenceState {
	return ratingdomain.AbsenceState{Sigma: p.Sigma, ConsecutiveMissed: p.ConsecutiveMissed, IsRanked: p.IsRanked}
}

func applyAbsenceState(p *ratingdb.Player, st ratingdomain.AbsenceState) {
	p.Sigma = st.Sigma
	p.ConsecutiveMissed = st.ConsecutiveMissed
	p.IsRanked = st.IsRanked
}
