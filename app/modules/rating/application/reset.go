package ratingservice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/uptrace/bun"
)

// ApplyGlobalReset inflates every player's sigma by value as of date. It is
// refused once any tournament exists on or after date.
func (s *RatingService) ApplyGlobalReset(ctx context.Context, value float64, date time.Time) (GlobalResetResult, error) {
	applyTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[GlobalResetResult, error], error) {
		return s.applyGlobalResetLogic(ctx, db, value, truncateDay(date))
	}

	result, err := withTelemetry(s, ctx, "ApplyGlobalReset", strconv.FormatFloat(value, 'f', -1, 64), func(ctx context.Context) (results.OperationResult[GlobalResetResult, error], error) {
		return runWrite(s, ctx, applyTx)
	})
	out, err := unwrap(result, err)
	if err != nil {
		return GlobalResetResult{}, err
	}

	s.recordTiers(ctx, out.Tiers)
	s.publish(ctx, TopicGlobalResetApplied, GlobalResetEvent{
		ResetID:       out.ResetID,
		Value:         out.Value,
		EffectiveDate: out.EffectiveDate,
		OccurredAt:    s.clock.Now().UTC(),
	})
	return out, nil
}

func (s *RatingService) applyGlobalResetLogic(ctx context.Context, db bun.IDB, value float64, date time.Time) (results.OperationResult[GlobalResetResult, error], error) {
	if !(value > 0) || math.IsInf(value, 0) {
		return results.FailureResult[GlobalResetResult, error](fmt.Errorf("%w: reset value must be positive, got %v", ErrValidation, value)), nil
	}

	later, err := s.repo.CountTournamentsSince(ctx, db, date)
	if err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to count tournaments: %w", err)
	}
	if later > 0 {
		return results.FailureResult[GlobalResetResult, error](fmt.Errorf("%w: %d tournament(s) on or after %s", ErrConflict, later, date.Format(time.DateOnly))), nil
	}

	lastID, err := s.latestTournamentID(ctx, db)
	if err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, err
	}

	cfg, err := s.store.Load(ctx, db)
	if err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	players, err := s.repo.ListPlayers(ctx, db)
	if err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to list players: %w", err)
	}

	log := make([]*ratingdb.GlobalResetLogEntry, 0, len(players))
	for _, p := range players {
		old := p.Sigma
		p.Sigma += value
		log = append(log, &ratingdb.GlobalResetLogEntry{PlayerID: p.ID, OldSigma: old, NewSigma: p.Sigma})
	}
	dist := recomputeTiers(cfg, players)

	if err := s.repo.UpdatePlayers(ctx, db, players); err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to update players: %w", err)
	}
	reset := &ratingdb.GlobalReset{Value: value, EffectiveDate: date, LastTournamentID: lastID, AppliedAt: s.clock.Now().UTC()}
	if err := s.repo.CreateGlobalReset(ctx, db, reset, log); err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to record global reset: %w", err)
	}

	return results.SuccessResult[GlobalResetResult, error](GlobalResetResult{
		ResetID:         reset.ID,
		Value:           value,
		EffectiveDate:   date,
		PlayersAffected: len(log),
		Tiers:           dist,
	}), nil
}

// RevertGlobalReset restores the sigmas logged by the most recently applied
// active reset, provided no tournament was processed since it was applied.
// Stacked resets therefore unwind in the reverse order of application.
func (s *RatingService) RevertGlobalReset(ctx context.Context) (GlobalResetResult, error) {
	revertTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[GlobalResetResult, error], error) {
		return s.revertGlobalResetLogic(ctx, db)
	}

	result, err := withTelemetry(s, ctx, "RevertGlobalReset", "active", func(ctx context.Context) (results.OperationResult[GlobalResetResult, error], error) {
		return runWrite(s, ctx, revertTx)
	})
	out, err := unwrap(result, err)
	if err != nil {
		return GlobalResetResult{}, err
	}

	s.recordTiers(ctx, out.Tiers)
	s.publish(ctx, TopicGlobalResetReverted, GlobalResetEvent{
		ResetID:       out.ResetID,
		Value:         out.Value,
		EffectiveDate: out.EffectiveDate,
		OccurredAt:    s.clock.Now().UTC(),
	})
	return out, nil
}

func (s *RatingService) revertGlobalResetLogic(ctx context.Context, db bun.IDB) (results.OperationResult[GlobalResetResult, error], error) {
	reset, err := s.repo.GetActiveGlobalReset(ctx, db)
	if err != nil {
		if errors.Is(err, ratingdb.ErrNotFound) {
			return results.FailureResult[GlobalResetResult, error](fmt.Errorf("%w: no active global reset", ErrConflict)), nil
		}
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to get active global reset: %w", err)
	}

	date := truncateDay(reset.EffectiveDate)
	lastID, err := s.latestTournamentID(ctx, db)
	if err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, err
	}
	if lastID > reset.LastTournamentID {
		return results.FailureResult[GlobalResetResult, error](fmt.Errorf("%w: tournament %d was processed since reset %d", ErrConflict, lastID, reset.ID)), nil
	}

	cfg, err := s.store.Load(ctx, db)
	if err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	players, err := s.repo.ListPlayers(ctx, db)
	if err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to list players: %w", err)
	}
	byID := make(map[int64]*ratingdb.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	log, err := s.repo.GetGlobalResetLog(ctx, db, reset.ID)
	if err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to get global reset log: %w", err)
	}
	restored := 0
	for _, entry := range log {
		if p, ok := byID[entry.PlayerID]; ok {
			p.Sigma = entry.OldSigma
			restored++
		}
	}
	dist := recomputeTiers(cfg, players)

	if err := s.repo.UpdatePlayers(ctx, db, players); err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to update players: %w", err)
	}
	if err := s.repo.MarkGlobalResetReverted(ctx, db, reset.ID, s.clock.Now().UTC()); err != nil {
		return results.OperationResult[GlobalResetResult, error]{}, fmt.Errorf("failed to mark global reset reverted: %w", err)
	}

	return results.SuccessResult[GlobalResetResult, error](GlobalResetResult{
		ResetID:         reset.ID,
		Value:           reset.Value,
		EffectiveDate:   date,
		PlayersAffected: restored,
		Tiers:           dist,
	}), nil
}

func (s *RatingService) latestTournamentID(ctx context.Context, db bun.IDB) (int64, error) {
	latest, err := s.repo.GetLatestTournament(ctx, db)
	switch {
	case errors.Is(err, ratingdb.ErrNotFound):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to get latest tournament: %w", err)
	}
	return latest.ID, nil
}
