package ratingdomain

import (
	"math"

	"github.com/smk-league/smk-rating/app/shared/tunables"
)

// TierInput is the slice of player state the classifier reads.
type TierInput struct {
	Rating   Rating
	IsRanked bool
	Current  Tier
}

// TierBoundaries describes the distribution the tiers were cut from.
type TierBoundaries struct {
	Mean       float64
	StdDev     float64
	Eligible   int
	Degenerate bool
}

// ClassifyTiers recomputes every player's tier from scratch. Eligible players
// are ranked with sigma at or below the configured threshold. Tiers are cut
// at one population standard deviation around the mean conservative score of
// the eligible set. Fewer than two eligible players leave eligible tiers as
// they are and mark everyone else U.
func ClassifyTiers(cfg tunables.Configuration, players []TierInput) ([]Tier, TierBoundaries) {
	tiers := make([]Tier, len(players))
	eligible := make([]bool, len(players))

	var scores []float64
	for i, p := range players {
		eligible[i] = p.IsRanked && p.Rating.Sigma <= cfg.SigmaThreshold
		if eligible[i] {
			scores = append(scores, p.Rating.Conservative())
		}
	}

	if len(scores) < 2 {
		for i, p := range players {
			if eligible[i] {
				tiers[i] = p.Current
			} else {
				tiers[i] = TierU
			}
		}
		return tiers, TierBoundaries{Eligible: len(scores), Degenerate: true}
	}

	mean, std := populationStats(scores)
	for i, p := range players {
		if !eligible[i] {
			tiers[i] = TierU
			continue
		}
		tiers[i] = tierFor(p.Rating.Conservative(), mean, std)
	}
	return tiers, TierBoundaries{Mean: mean, StdDev: std, Eligible: len(scores)}
}

func tierFor(score, mean, std float64) Tier {
	switch {
	case score > mean+std:
		return TierS
	case score > mean:
		return TierA
	case score > mean-std:
		return TierB
	default:
		return TierC
	}
}

// populationStats divides by N, not N-1.
func populationStats(xs []float64) (mean, std float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

// CountTiers returns a count for every tier, including empty ones.
func CountTiers(tiers []Tier) map[Tier]int {
	out := make(map[Tier]int, len(AllTiers))
	for _, t := range AllTiers {
		out[t] = 0
	}
	for _, t := range tiers {
		out[t]++
	}
	return out
}
