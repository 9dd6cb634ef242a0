package ratingrouter

import (
	"context"
	"time"

	ratingservice "github.com/smk-league/smk-rating/app/modules/rating/application"
	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	"github.com/smk-league/smk-rating/app/shared/tunables"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	SubmitTournamentFunc     func(ctx context.Context, req ratingservice.SubmitTournamentRequest) (ratingservice.SubmitTournamentResult, error)
	RevertLastTournamentFunc func(ctx context.Context) (ratingservice.UndoResult, error)
	DeleteTournamentFunc     func(ctx context.Context, id int64) (ratingservice.UndoResult, error)
	ApplyGlobalResetFunc     func(ctx context.Context, value float64, date time.Time) (ratingservice.GlobalResetResult, error)
	RevertGlobalResetFunc    func(ctx context.Context) (ratingservice.GlobalResetResult, error)
	ListClassementFunc       func(ctx context.Context, tier *ratingdomain.Tier) ([]ratingservice.ClassementEntry, error)
	GetPlayerStatsFunc       func(ctx context.Context, name string) (ratingservice.PlayerStats, error)
	ListProgressionsFunc     func(ctx context.Context, limit int) ([]ratingservice.ProgressionEntry, error)
	AddPlayerFunc            func(ctx context.Context, name string, leagueID *int64) (ratingservice.PlayerView, error)
	GetTournamentDetailsFunc func(ctx context.Context, id int64) (ratingservice.TournamentDetails, error)
	SetConfigurationFunc     func(ctx context.Context, key, value string) (tunables.Configuration, error)
}

func (f *FakeService) SubmitTournament(ctx context.Context, req ratingservice.SubmitTournamentRequest) (ratingservice.SubmitTournamentResult, error) {
	if f.SubmitTournamentFunc != nil {
		return f.SubmitTournamentFunc(ctx, req)
	}
	return ratingservice.SubmitTournamentResult{TournamentID: 1, Date: req.Date}, nil
}

func (f *FakeService) RevertLastTournament(ctx context.Context) (ratingservice.UndoResult, error) {
	if f.RevertLastTournamentFunc != nil {
		return f.RevertLastTournamentFunc(ctx)
	}
	return ratingservice.UndoResult{}, nil
}

func (f *FakeService) DeleteTournament(ctx context.Context, id int64) (ratingservice.UndoResult, error) {
	if f.DeleteTournamentFunc != nil {
		return f.DeleteTournamentFunc(ctx, id)
	}
	return ratingservice.UndoResult{TournamentID: id}, nil
}

func (f *FakeService) ApplyGlobalReset(ctx context.Context, value float64, date time.Time) (ratingservice.GlobalResetResult, error) {
	if f.ApplyGlobalResetFunc != nil {
		return f.ApplyGlobalResetFunc(ctx, value, date)
	}
	return ratingservice.GlobalResetResult{Value: value, EffectiveDate: date}, nil
}

func (f *FakeService) RevertGlobalReset(ctx context.Context) (ratingservice.GlobalResetResult, error) {
	if f.RevertGlobalResetFunc != nil {
		return f.RevertGlobalResetFunc(ctx)
	}
	return ratingservice.GlobalResetResult{}, nil
}

func (f *FakeService) GetTierDistribution(ctx context.Context) (ratingservice.TierDistribution, error) {
	return ratingservice.TierDistribution{Counts: map[ratingdomain.Tier]int{}}, nil
}

func (f *FakeService) ListClassement(ctx context.Context, tier *ratingdomain.Tier) ([]ratingservice.ClassementEntry, error) {
	if f.ListClassementFunc != nil {
		return f.ListClassementFunc(ctx, tier)
	}
	return nil, nil
}

func (f *FakeService) ListPlayerNames(ctx context.Context) ([]string, error) {
	return []string{"Alice", "bob"}, nil
}

func (f *FakeService) GetPlayerStats(ctx context.Context, name string) (ratingservice.PlayerStats, error) {
	if f.GetPlayerStatsFunc != nil {
		return f.GetPlayerStatsFunc(ctx, name)
	}
	return ratingservice.PlayerStats{Name: name}, nil
}

func (f *FakeService) ListProgressions(ctx context.Context, limit int) ([]ratingservice.ProgressionEntry, error) {
	if f.ListProgressionsFunc != nil {
		return f.ListProgressionsFunc(ctx, limit)
	}
	return nil, nil
}

func (f *FakeService) AddPlayer(ctx context.Context, name string, leagueID *int64) (ratingservice.PlayerView, error) {
	if f.AddPlayerFunc != nil {
		return f.AddPlayerFunc(ctx, name, leagueID)
	}
	return ratingservice.PlayerView{ID: 1, Name: name, LeagueID: leagueID}, nil
}

func (f *FakeService) ListTournaments(ctx context.Context) ([]ratingservice.TournamentSummary, error) {
	return nil, nil
}

func (f *FakeService) GetTournamentDetails(ctx context.Context, id int64) (ratingservice.TournamentDetails, error) {
	if f.GetTournamentDetailsFunc != nil {
		return f.GetTournamentDetailsFunc(ctx, id)
	}
	return ratingservice.TournamentDetails{ID: id}, nil
}

func (f *FakeService) GetLatestTournament(ctx context.Context) (ratingservice.TournamentDetails, error) {
	return ratingservice.TournamentDetails{}, nil
}

func (f *FakeService) GetConfiguration(ctx context.Context) (tunables.Configuration, error) {
	return tunables.Defaults(), nil
}

func (f *FakeService) SetConfiguration(ctx context.Context, key, value string) (tunables.Configuration, error) {
	if f.SetConfigurationFunc != nil {
		return f.SetConfigurationFunc(ctx, key, value)
	}
	return tunables.Defaults(), nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
