package seasonservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	seasondomain "github.com/smk-league/smk-rating/app/modules/season/domain"
	seasondb "github.com/smk-league/smk-rating/app/modules/season/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/uptrace/bun"
)

// maxSlugAttempts bounds the numeric suffix search on slug collisions.
const maxSlugAttempts = 100

// CreateSeason validates and stores a season under a unique slug built from
// its name.
func (s *SeasonService) CreateSeason(ctx context.Context, req CreateSeasonRequest) (SeasonView, error) {
	result, err := withTelemetry(s, ctx, "CreateSeason", req.Name, func(ctx context.Context) (results.OperationResult[SeasonView, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[SeasonView, error], error) {
			return s.createSeasonLogic(ctx, db, req)
		})
	})
	return unwrap(result, err)
}

func (s *SeasonService) createSeasonLogic(ctx context.Context, db bun.IDB, req CreateSeasonRequest) (results.OperationResult[SeasonView, error], error) {
	season, err := validateSeason(req)
	if err != nil {
		return results.FailureResult[SeasonView, error](err), nil
	}

	base := slug.Make(season.Name)
	if base == "" {
		return results.FailureResult[SeasonView, error](fmt.Errorf("%w: season name %q yields an empty slug", ErrValidation, season.Name)), nil
	}
	season.Slug, err = s.uniqueSlug(ctx, db, base)
	if err != nil {
		return results.OperationResult[SeasonView, error]{}, err
	}

	if err := s.repo.CreateSeason(ctx, db, season); err != nil {
		if errors.Is(err, seasondb.ErrDuplicateSlug) {
			return results.FailureResult[SeasonView, error](fmt.Errorf("%w: slug %q already taken", ErrConflict, season.Slug)), nil
		}
		return results.OperationResult[SeasonView, error]{}, fmt.Errorf("failed to create season: %w", err)
	}
	return results.SuccessResult[SeasonView, error](toSeasonView(season)), nil
}

func (s *SeasonService) uniqueSlug(ctx context.Context, db bun.IDB, base string) (string, error) {
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := s.repo.SlugExists(ctx, db, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", fmt.Errorf("%w: no free slug for %q", ErrConflict, base)
}

func validateSeason(req CreateSeasonRequest) (*seasondb.Season, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: season name is required", ErrValidation)
	}
	if req.DateDebut.IsZero() || req.DateFin.IsZero() {
		return nil, fmt.Errorf("%w: season dates are required", ErrValidation)
	}
	start, end := truncateDay(req.DateDebut), truncateDay(req.DateFin)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: season ends before it starts", ErrValidation)
	}
	victory, ok := seasondomain.ParseAwardKind(req.VictoryCondition)
	if !ok {
		return nil, fmt.Errorf("%w: unknown victory condition %q", ErrValidation, req.VictoryCondition)
	}
	if req.LeagueID != nil && req.IsLeagueRecap {
		return nil, fmt.Errorf("%w: a league recap cannot be scoped to one league", ErrValidation)
	}

	var active []string
	if len(req.ActiveAwards) == 0 {
		for _, k := range DefaultActiveAwards {
			active = append(active, string(k))
		}
	} else {
		seen := map[seasondomain.AwardKind]bool{}
		for _, code := range req.ActiveAwards {
			kind, ok := seasondomain.ParseAwardKind(code)
			if !ok {
				return nil, fmt.Errorf("%w: unknown award %q", ErrValidation, code)
			}
			if seen[kind] {
				continue
			}
			seen[kind] = true
			active = append(active, string(kind))
		}
	}

	return &seasondb.Season{
		Name:             name,
		DateDebut:        start,
		DateFin:          end,
		VictoryCondition: string(victory),
		ActiveAwards:     active,
		IsYearly:         req.IsYearly,
		LeagueID:         req.LeagueID,
		IsLeagueRecap:    req.IsLeagueRecap,
	}, nil
}

// ListSeasons returns every season, most recent first.
func (s *SeasonService) ListSeasons(ctx context.Context) ([]SeasonView, error) {
	result, err := withTelemetry(s, ctx, "ListSeasons", "all", func(ctx context.Context) (results.OperationResult[[]SeasonView, error], error) {
		seasons, err := s.repo.ListSeasons(ctx, nil)
		if err != nil {
			return results.OperationResult[[]SeasonView, error]{}, fmt.Errorf("failed to list seasons: %w", err)
		}
		out := make([]SeasonView, len(seasons))
		for i, season := range seasons {
			out[i] = toSeasonView(season)
		}
		return results.SuccessResult[[]SeasonView, error](out), nil
	})
	return unwrap(result, err)
}

// GetSeason returns a season by slug.
func (s *SeasonService) GetSeason(ctx context.Context, slug string) (SeasonView, error) {
	result, err := withTelemetry(s, ctx, "GetSeason", slug, func(ctx context.Context) (results.OperationResult[SeasonView, error], error) {
		season, err := s.loadSeason(ctx, nil, slug)
		if err != nil {
			return fail[SeasonView](err)
		}
		return results.SuccessResult[SeasonView, error](toSeasonView(season)), nil
	})
	return unwrap(result, err)
}

func (s *SeasonService) loadSeason(ctx context.Context, db bun.IDB, slug string) (*seasondb.Season, error) {
	season, err := s.repo.GetSeasonBySlug(ctx, db, slug)
	if err != nil {
		if errors.Is(err, seasondb.ErrNotFound) {
			return nil, fmt.Errorf("%w: season %q", ErrNotFound, slug)
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	return season, nil
}

// fail reports domain errors as a failure result and anything else as an
// infrastructure error.
func fail[S any](err error) (results.OperationResult[S, error], error) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}
