package ratingdomain

import (
	"math"

	"github.com/smk-league/smk-rating/app/shared/tunables"
)

// AbsenceState is the part of a player touched by absence bookkeeping.
type AbsenceState struct {
	Sigma             float64
	ConsecutiveMissed int
	IsRanked          bool
}

// GhostPenalty records one sigma inflation so it can be undone.
type GhostPenalty struct {
	OldSigma float64
	NewSigma float64
	Amount   float64
}

// ApplyAbsence counts one more missed tournament. Once the streak reaches the
// configured minimum, and while sigma is under the cap, sigma is inflated by
// the ghost penalty (clamped to the cap). A streak at or past the unranked
// threshold drops the player from the ranked population.
func ApplyAbsence(cfg tunables.Configuration, s AbsenceState) (AbsenceState, *GhostPenalty) {
	next := s
	next.ConsecutiveMissed = s.ConsecutiveMissed + 1

	var penalty *GhostPenalty
	if cfg.GhostEnabled && cfg.GhostPenalty > 0 &&
		next.ConsecutiveMissed >= cfg.GhostMinMissed && s.Sigma < cfg.GhostSigmaCap {
		newSigma := math.Min(s.Sigma+cfg.GhostPenalty, cfg.GhostSigmaCap)
		penalty = &GhostPenalty{OldSigma: s.Sigma, NewSigma: newSigma, Amount: newSigma - s.Sigma}
		next.Sigma = newSigma
	}

	if next.ConsecutiveMissed >= cfg.UnrankedThreshold {
		next.IsRanked = false
	}
	return next, penalty
}

// RevertAbsence undoes the missed-count part of ApplyAbsence. The count never
// drops below zero. Ghost penalties are reverted separately from their log.
func RevertAbsence(cfg tunables.Configuration, s AbsenceState) AbsenceState {
	next := s
	next.ConsecutiveMissed = max(s.ConsecutiveMissed-1, 0)
	if !next.IsRanked && next.ConsecutiveMissed < cfg.UnrankedThreshold {
		next.IsRanked = true
	}
	return next
}

// Reappear resets the streak of a player who took part in a tournament.
func Reappear(s AbsenceState) AbsenceState {
	s.ConsecutiveMissed = 0
	s.IsRanked = true
	return s
}
