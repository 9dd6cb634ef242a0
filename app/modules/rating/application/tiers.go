package ratingservice

import (
	"context"
	"fmt"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
)

// recomputeTiers reclassifies the whole population in place.
func recomputeTiers(cfg tunables.Configuration, players []*ratingdb.Player) TierDistribution {
	inputs := make([]ratingdomain.TierInput, len(players))
	for i, p := range players {
		inputs[i] = ratingdomain.TierInput{Rating: p.Rating(), IsRanked: p.IsRanked, Current: p.Tier}
	}
	tiers, bounds := ratingdomain.ClassifyTiers(cfg, inputs)
	for i, p := range players {
		p.Tier = tiers[i]
	}
	return TierDistribution{
		Counts: ratingdomain.CountTiers(tiers),
		Total:  len(players),
		Mean:   round(bounds.Mean, 2),
		StdDev: round(bounds.StdDev, 2),
	}
}

func distributionOf(players []*ratingdb.Player) TierDistribution {
	tiers := make([]ratingdomain.Tier, len(players))
	for i, p := range players {
		tiers[i] = p.Tier
	}
	return TierDistribution{Counts: ratingdomain.CountTiers(tiers), Total: len(players)}
}

func (s *RatingService) recordTiers(ctx context.Context, dist TierDistribution) {
	counts := make(map[string]int, len(dist.Counts))
	for tier, n := range dist.Counts {
		counts[string(tier)] = n
	}
	s.metrics.RecordTierDistribution(ctx, counts)
}

// GetTierDistribution counts players per stored tier.
func (s *RatingService) GetTierDistribution(ctx context.Context) (TierDistribution, error) {
	result, err := withTelemetry(s, ctx, "GetTierDistribution", "all", func(ctx context.Context) (results.OperationResult[TierDistribution, error], error) {
		return s.getTierDistributionLogic(ctx, nil)
	})
	return unwrap(result, err)
}

func (s *RatingService) getTierDistributionLogic(ctx context.Context, db bun.IDB) (results.OperationResult[TierDistribution, error], error) {
	players, err := s.repo.ListPlayers(ctx, db)
	if err != nil {
		return results.OperationResult[TierDistribution, error]{}, fmt.Errorf("failed to list players: %w", err)
	}
	return results.SuccessResult[TierDistribution, error](distributionOf(players)), nil
}
