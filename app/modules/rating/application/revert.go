package ratingservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/uptrace/bun"
)

// RevertLastTournament undoes the most recent tournament. Only the latest one
// may be reverted and every participation must carry its snapshot.
func (s *RatingService) RevertLastTournament(ctx context.Context) (UndoResult, error) {
	revertTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[UndoResult, error], error) {
		return s.revertLastTournamentLogic(ctx, db)
	}

	result, err := withTelemetry(s, ctx, "RevertLastTournament", "latest", func(ctx context.Context) (results.OperationResult[UndoResult, error], error) {
		return runWrite(s, ctx, revertTx)
	})
	out, err := unwrap(result, err)
	if err != nil {
		return UndoResult{}, err
	}

	s.recordTiers(ctx, out.Tiers)
	s.publish(ctx, TopicTournamentReverted, TournamentEvent{
		TournamentID: out.TournamentID,
		Date:         out.Date,
		Players:      out.PlayersRestored,
		Ghosts:       out.GhostsReverted,
		OccurredAt:   s.clock.Now().UTC(),
	})
	return out, nil
}

func (s *RatingService) revertLastTournamentLogic(ctx context.Context, db bun.IDB) (results.OperationResult[UndoResult, error], error) {
	latest, err := s.repo.GetLatestTournament(ctx, db)
	if err != nil {
		if errors.Is(err, ratingdb.ErrNotFound) {
			return results.FailureResult[UndoResult, error](fmt.Errorf("%w: no tournament to revert", ErrNotFound)), nil
		}
		return results.OperationResult[UndoResult, error]{}, fmt.Errorf("failed to get latest tournament: %w", err)
	}

	if err := s.checkResetBeforeRevert(ctx, db, latest); err != nil {
		if errors.Is(err, ErrConsistency) {
			return results.FailureResult[UndoResult, error](err), nil
		}
		return results.OperationResult[UndoResult, error]{}, err
	}

	rows, err := s.repo.GetParticipations(ctx, db, latest.ID)
	if err != nil {
		return results.OperationResult[UndoResult, error]{}, fmt.Errorf("failed to get participations: %w", err)
	}
	for _, row := range rows {
		if !row.HasSnapshot() {
			return results.FailureResult[UndoResult, error](fmt.Errorf("%w: tournament %d predates rating snapshots", ErrTooOldToRevert, latest.ID)), nil
		}
	}

	out, err := s.undoTournament(ctx, db, latest, rows, true)
	if err != nil {
		return results.OperationResult[UndoResult, error]{}, err
	}
	return results.SuccessResult[UndoResult, error](out), nil
}

// checkResetBeforeRevert fails with ErrConsistency when an unreverted global
// reset was applied after t was processed: restoring t's snapshots would
// silently drop it.
func (s *RatingService) checkResetBeforeRevert(ctx context.Context, db bun.IDB, t *ratingdb.Tournament) error {
	resets, err := s.repo.ListActiveGlobalResets(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to list active global resets: %w", err)
	}
	for _, reset := range resets {
		if reset.LastTournamentID >= t.ID {
			return fmt.Errorf("%w: global reset %d was applied after tournament %d", ErrConsistency, reset.ID, t.ID)
		}
	}
	return nil
}

// DeleteTournament removes any tournament. The latest tournament with full
// snapshots is reverted exactly; any other keeps participant beliefs and
// only undoes the absentee bookkeeping.
func (s *RatingService) DeleteTournament(ctx context.Context, id int64) (UndoResult, error) {
	deleteTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[UndoResult, error], error) {
		return s.deleteTournamentLogic(ctx, db, id)
	}

	result, err := withTelemetry(s, ctx, "DeleteTournament", strconv.FormatInt(id, 10), func(ctx context.Context) (results.OperationResult[UndoResult, error], error) {
		return runWrite(s, ctx, deleteTx)
	})
	out, err := unwrap(result, err)
	if err != nil {
		return UndoResult{}, err
	}

	s.recordTiers(ctx, out.Tiers)
	s.publish(ctx, TopicTournamentDeleted, TournamentEvent{
		TournamentID: out.TournamentID,
		Date:         out.Date,
		Players:      out.PlayersRestored,
		Ghosts:       out.GhostsReverted,
		OccurredAt:   s.clock.Now().UTC(),
	})
	return out, nil
}

func (s *RatingService) deleteTournamentLogic(ctx context.Context, db bun.IDB, id int64) (results.OperationResult[UndoResult, error], error) {
	tournament, err := s.repo.GetTournament(ctx, db, id)
	if err != nil {
		if errors.Is(err, ratingdb.ErrNotFound) {
			return results.FailureResult[UndoResult, error](fmt.Errorf("%w: tournament %d", ErrNotFound, id)), nil
		}
		return results.OperationResult[UndoResult, error]{}, fmt.Errorf("failed to get tournament: %w", err)
	}

	latest, err := s.repo.GetLatestTournament(ctx, db)
	if err != nil {
		return results.OperationResult[UndoResult, error]{}, fmt.Errorf("failed to get latest tournament: %w", err)
	}

	rows, err := s.repo.GetParticipations(ctx, db, tournament.ID)
	if err != nil {
		return results.OperationResult[UndoResult, error]{}, fmt.Errorf("failed to get participations: %w", err)
	}

	restore := latest.ID == tournament.ID
	for _, row := range rows {
		if !row.HasSnapshot() {
			restore = false
		}
	}
	if restore {
		if err := s.checkResetBeforeRevert(ctx, db, tournament); err != nil {
			if !errors.Is(err, ErrConsistency) {
				return results.OperationResult[UndoResult, error]{}, err
			}
			restore = false
		}
	}

	out, err := s.undoTournament(ctx, db, tournament, rows, restore)
	if err != nil {
		return results.OperationResult[UndoResult, error]{}, err
	}
	return results.SuccessResult[UndoResult, error](out), nil
}

// undoTournament removes t and its rows. When restore is set every
// participant gets its snapshot back. Ghost penalties of t are always
// reverted and absentees always get their missed count back.
func (s *RatingService) undoTournament(ctx context.Context, db bun.IDB, t *ratingdb.Tournament, rows []*ratingdb.Participation, restore bool) (UndoResult, error) {
	cfg, err := s.store.Load(ctx, db)
	if err != nil {
		return UndoResult{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	players, err := s.repo.ListPlayers(ctx, db)
	if err != nil {
		return UndoResult{}, fmt.Errorf("failed to list players: %w", err)
	}
	byID := make(map[int64]*ratingdb.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	out := UndoResult{TournamentID: t.ID, Date: truncateDay(t.Date), RestoredBeliefs: restore}

	present := make(map[int64]bool, len(rows))
	for _, row := range rows {
		present[row.PlayerID] = true
		if !restore {
			continue
		}
		p, ok := byID[row.PlayerID]
		if !ok {
			continue
		}
		p.Mu, p.Sigma = *row.MuBefore, *row.SigmaBefore
		if row.MissedBefore != nil {
			p.ConsecutiveMissed = *row.MissedBefore
		}
		if row.RankedBefore != nil {
			p.IsRanked = *row.RankedBefore
		}
		out.PlayersRestored++
	}

	ghosts, err := s.repo.GetGhostLog(ctx, db, t.ID)
	if err != nil {
		return UndoResult{}, fmt.Errorf("failed to get ghost log: %w", err)
	}
	for _, g := range ghosts {
		if p, ok := byID[g.PlayerID]; ok {
			p.Sigma = g.OldSigma
			out.GhostsReverted++
		}
	}

	for _, p := range players {
		if present[p.ID] || !isAbsentee(p, t) {
			continue
		}
		applyAbsenceState(p, ratingdomain.RevertAbsence(cfg, absenceState(p)))
		out.AbsenteesRestored++
	}

	out.Tiers = recomputeTiers(cfg, players)

	if err := s.repo.UpdatePlayers(ctx, db, players); err != nil {
		return UndoResult{}, fmt.Errorf("failed to update players: %w", err)
	}
	if err := s.repo.DeleteGhostLog(ctx, db, t.ID); err != nil {
		return UndoResult{}, fmt.Errorf("failed to delete ghost log: %w", err)
	}
	if err := s.repo.DeleteParticipations(ctx, db, t.ID); err != nil {
		return UndoResult{}, fmt.Errorf("failed to delete participations: %w", err)
	}
	if err := s.repo.DeleteTournament(ctx, db, t.ID); err != nil {
		return UndoResult{}, fmt.Errorf("failed to delete tournament: %w", err)
	}
	return out, nil
}
