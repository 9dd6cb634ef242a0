package seasonservice

import (
	"context"
	"fmt"

	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/uptrace/bun"
)

// GetSeasonAwards returns the grants of the season's last publish.
func (s *SeasonService) GetSeasonAwards(ctx context.Context, slug string) ([]SeasonAward, error) {
	result, err := withTelemetry(s, ctx, "GetSeasonAwards", slug, func(ctx context.Context) (results.OperationResult[[]SeasonAward, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]SeasonAward, error], error) {
			season, err := s.loadSeason(ctx, db, slug)
			if err != nil {
				return fail[[]SeasonAward](err)
			}
			rows, err := s.repo.ListSeasonAwards(ctx, db, season.ID)
			if err != nil {
				return results.OperationResult[[]SeasonAward, error]{}, fmt.Errorf("failed to list season awards: %w", err)
			}
			out := make([]SeasonAward, len(rows))
			for i, r := range rows {
				out[i] = SeasonAward{
					Code:        r.Code,
					Name:        r.Name,
					Icon:        r.Icon,
					Description: r.Description,
					Rank:        r.Rank,
					PlayerID:    r.PlayerID,
					PlayerName:  r.PlayerName,
					Value:       r.Value,
				}
			}
			return results.SuccessResult[[]SeasonAward, error](out), nil
		})
	})
	return unwrap(result, err)
}
