package seasondb

import (
	"time"

	"github.com/uptrace/bun"
)

// League is a skill division. Niveau 0 is the lowest.
type League struct {
	bun.BaseModel `bun:"table:leagues,alias:l"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Name   string `bun:"name,notnull,unique"`
	Niveau int    `bun:"niveau,notnull,unique"`
	Color  string `bun:"color"`
}

// Season is a dated window over which awards are computed.
type Season struct {
	bun.BaseModel `bun:"table:seasons,alias:s"`

	ID               int64      `bun:"id,pk,autoincrement"`
	Name             string     `bun:"name,notnull"`
	Slug             string     `bun:"slug,notnull,unique"`
	DateDebut        time.Time  `bun:"date_debut,type:date,notnull"`
	DateFin          time.Time  `bun:"date_fin,type:date,notnull"`
	VictoryCondition string     `bun:"victory_condition,notnull"`
	ActiveAwards     []string   `bun:"active_awards,array"`
	IsYearly         bool       `bun:"is_yearly,notnull"`
	LeagueID         *int64     `bun:"league_id"`
	IsLeagueRecap    bool       `bun:"is_league_recap,notnull"`
	IsPublished      bool       `bun:"is_published,notnull"`
	PublishedAt      *time.Time `bun:"published_at"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// AwardType is a catalogue entry.
type AwardType struct {
	bun.BaseModel `bun:"table:award_types,alias:at"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Code        string `bun:"code,notnull,unique"`
	Name        string `bun:"name,notnull"`
	Icon        string `bun:"icon"`
	Description string `bun:"description"`
}

// AwardGrant is one published award.
type AwardGrant struct {
	bun.BaseModel `bun:"table:award_grants,alias:ag"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SeasonID  int64     `bun:"season_id,notnull"`
	PlayerID  int64     `bun:"player_id,notnull"`
	AwardCode string    `bun:"award_code,notnull"`
	Value     *float64  `bun:"value"`
	Rank      int       `bun:"rank,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// LeagueMovement is the audit row of a publish-time move.
type LeagueMovement struct {
	bun.BaseModel `bun:"table:league_movements,alias:lm"`

	ID           int64     `bun:"id,pk,autoincrement"`
	SeasonID     int64     `bun:"season_id,notnull"`
	PlayerID     int64     `bun:"player_id,notnull"`
	FromLeagueID int64     `bun:"from_league_id,notnull"`
	ToLeagueID   int64     `bun:"to_league_id,notnull"`
	Direction    string    `bun:"direction,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// MatchRow is one participation inside a season window.
type MatchRow struct {
	TournamentID      int64     `bun:"tournament_id"`
	Date              time.Time `bun:"date"`
	PlayerID          int64     `bun:"player_id"`
	PlayerName        string    `bun:"player_name"`
	Score             int       `bun:"score"`
	Position          int       `bun:"position"`
	SigmaAfter        float64   `bun:"sigma_after"`
	ConservativeAfter float64   `bun:"conservative_score_after"`
}

// MemberRow is a league member with their current belief.
type MemberRow struct {
	PlayerID int64   `bun:"player_id"`
	LeagueID int64   `bun:"league_id"`
	Mu       float64 `bun:"mu"`
	Sigma    float64 `bun:"sigma"`
}

// SeasonAwardRow is a published grant joined with its catalogue entry.
type SeasonAwardRow struct {
	Code        string   `bun:"code"`
	Name        string   `bun:"name"`
	Icon        string   `bun:"icon"`
	Description string   `bun:"description"`
	Rank        int      `bun:"rank"`
	PlayerID    int64    `bun:"player_id"`
	PlayerName  string   `bun:"player_name"`
	Value       *float64 `bun:"value"`
}
