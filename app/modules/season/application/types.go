package seasonservice

import (
	"time"

	seasondomain "github.com/smk-league/smk-rating/app/modules/season/domain"
	seasondb "github.com/smk-league/smk-rating/app/modules/season/infrastructure/repositories"
)

// DefaultActiveAwards is used when a season is created without an award list.
var DefaultActiveAwards = []seasondomain.AwardKind{
	seasondomain.AwardEz,
	seasondomain.AwardPasLoin,
	seasondomain.AwardStonks,
	seasondomain.AwardNotStonks,
	seasondomain.AwardChillguy,
}

// CreateSeasonRequest describes a new season. LeagueID and IsLeagueRecap are
// mutually exclusive; with neither set the season covers tournaments played
// outside any league.
type CreateSeasonRequest struct {
	Name             string    `json:"name"`
	DateDebut        time.Time `json:"date_debut"`
	DateFin          time.Time `json:"date_fin"`
	VictoryCondition string    `json:"victory_condition"`
	ActiveAwards     []string  `json:"active_awards"`
	IsYearly         bool      `json:"is_yearly"`
	LeagueID         *int64    `json:"league_id,omitempty"`
	IsLeagueRecap    bool      `json:"is_league_recap"`
}

// SeasonView is the public shape of a season.
type SeasonView struct {
	ID               int64                    `json:"id"`
	Slug             string                   `json:"slug"`
	Name             string                   `json:"name"`
	DateDebut        time.Time                `json:"date_debut"`
	DateFin          time.Time                `json:"date_fin"`
	VictoryCondition seasondomain.AwardKind   `json:"victory_condition"`
	ActiveAwards     []seasondomain.AwardKind `json:"active_awards"`
	IsYearly         bool                     `json:"is_yearly"`
	LeagueID         *int64                   `json:"league_id,omitempty"`
	IsLeagueRecap    bool                     `json:"is_league_recap"`
	IsPublished      bool                     `json:"is_published"`
	PublishedAt      *time.Time               `json:"published_at,omitempty"`
}

// Range is the season's date window.
func (v SeasonView) Range() seasondomain.DateRange {
	return seasondomain.DateRange{Start: v.DateDebut, End: v.DateFin}
}

// Scope is the set of tournaments the season aggregates.
func (v SeasonView) Scope() seasondomain.Scope {
	switch {
	case v.LeagueID != nil:
		return seasondomain.League(*v.LeagueID)
	case v.IsLeagueRecap:
		return seasondomain.AllLeagues()
	default:
		return seasondomain.NoLeague()
	}
}

// SeasonStatsView is a season with its live statistics and the winners they
// would produce if published now.
type SeasonStatsView struct {
	Season  SeasonView                 `json:"season"`
	Stats   seasondomain.SeasonStats   `json:"stats"`
	Winners seasondomain.SeasonWinners `json:"winners"`
}

// PublishResult describes a publish.
type PublishResult struct {
	Season    SeasonView                 `json:"season"`
	Winners   seasondomain.SeasonWinners `json:"winners"`
	Grants    int                        `json:"grants"`
	Movements []seasondomain.Movement    `json:"movements"`
	Undone    int                        `json:"undone_movements"`
}

// SeasonAward is a published grant with its catalogue metadata.
type SeasonAward struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Rank        int      `json:"rank"`
	PlayerID    int64    `json:"player_id"`
	PlayerName  string   `json:"player_name"`
	Value       *float64 `json:"value,omitempty"`
}

func toSeasonView(s *seasondb.Season) SeasonView {
	active := make([]seasondomain.AwardKind, 0, len(s.ActiveAwards))
	for _, code := range s.ActiveAwards {
		active = append(active, seasondomain.AwardKind(code))
	}
	return SeasonView{
		ID:               s.ID,
		Slug:             s.Slug,
		Name:             s.Name,
		DateDebut:        s.DateDebut,
		DateFin:          s.DateFin,
		VictoryCondition: seasondomain.AwardKind(s.VictoryCondition),
		ActiveAwards:     active,
		IsYearly:         s.IsYearly,
		LeagueID:         s.LeagueID,
		IsLeagueRecap:    s.IsLeagueRecap,
		IsPublished:      s.IsPublished,
		PublishedAt:      s.PublishedAt,
	}
}
