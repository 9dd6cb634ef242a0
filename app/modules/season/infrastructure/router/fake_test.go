package seasonrouter

import (
	"context"
	"time"

	seasonservice "github.com/smk-league/smk-rating/app/modules/season/application"
	seasondomain "github.com/smk-league/smk-rating/app/modules/season/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	CreateSeasonFunc       func(ctx context.Context, req seasonservice.CreateSeasonRequest) (seasonservice.SeasonView, error)
	GetSeasonFunc          func(ctx context.Context, slug string) (seasonservice.SeasonView, error)
	ComputeSeasonStatsFunc func(ctx context.Context, window seasondomain.DateRange, scope seasondomain.Scope) (seasondomain.SeasonStats, error)
	PublishSeasonFunc      func(ctx context.Context, slug string) (seasonservice.PublishResult, error)
	GetSeasonAwardsFunc    func(ctx context.Context, slug string) ([]seasonservice.SeasonAward, error)
}

func (f *FakeService) CreateSeason(ctx context.Context, req seasonservice.CreateSeasonRequest) (seasonservice.SeasonView, error) {
	if f.CreateSeasonFunc != nil {
		return f.CreateSeasonFunc(ctx, req)
	}
	return seasonservice.SeasonView{ID: 1, Name: req.Name}, nil
}

func (f *FakeService) ListSeasons(ctx context.Context) ([]seasonservice.SeasonView, error) {
	return []seasonservice.SeasonView{{ID: 1, Slug: "hiver-2025"}}, nil
}

func (f *FakeService) GetSeason(ctx context.Context, slug string) (seasonservice.SeasonView, error) {
	if f.GetSeasonFunc != nil {
		return f.GetSeasonFunc(ctx, slug)
	}
	return seasonservice.SeasonView{ID: 1, Slug: slug}, nil
}

func (f *FakeService) ComputeSeasonStats(ctx context.Context, window seasondomain.DateRange, scope seasondomain.Scope) (seasondomain.SeasonStats, error) {
	if f.ComputeSeasonStatsFunc != nil {
		return f.ComputeSeasonStatsFunc(ctx, window, scope)
	}
	return seasondomain.SeasonStats{}, nil
}

func (f *FakeService) DetermineSeasonWinners(
	ctx context.Context,
	candidates map[seasondomain.AwardKind][]seasondomain.Candidate,
	victory seasondomain.AwardKind,
	active []seasondomain.AwardKind,
	total int,
) (seasondomain.SeasonWinners, error) {
	return seasondomain.SeasonWinners{Victory: victory}, nil
}

func (f *FakeService) GetSeasonStats(ctx context.Context, slug string) (seasonservice.SeasonStatsView, error) {
	return seasonservice.SeasonStatsView{Season: seasonservice.SeasonView{Slug: slug}}, nil
}

func (f *FakeService) PublishSeason(ctx context.Context, slug string) (seasonservice.PublishResult, error) {
	if f.PublishSeasonFunc != nil {
		return f.PublishSeasonFunc(ctx, slug)
	}
	return seasonservice.PublishResult{Season: seasonservice.SeasonView{Slug: slug, IsPublished: true}}, nil
}

func (f *FakeService) GetSeasonAwards(ctx context.Context, slug string) ([]seasonservice.SeasonAward, error) {
	if f.GetSeasonAwardsFunc != nil {
		return f.GetSeasonAwardsFunc(ctx, slug)
	}
	return nil, nil
}

var _ seasonservice.Service = (*FakeService)(nil)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
