package ratingdb

import (
	"time"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	"github.com/uptrace/bun"
)

// Player is a rated competitor.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID                int64             `bun:"id,pk,autoincrement"`
	Name              string            `bun:"name,notnull,unique"`
	Mu                float64           `bun:"mu,notnull"`
	Sigma             float64           `bun:"sigma,notnull"`
	Tier              ratingdomain.Tier `bun:"tier,notnull"`
	IsRanked          bool              `bun:"is_ranked,notnull"`
	ConsecutiveMissed int               `bun:"consecutive_missed,notnull"`
	LeagueID          *int64            `bun:"league_id"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Rating returns the player's current belief.
func (p *Player) Rating() ratingdomain.Rating {
	return ratingdomain.Rating{Mu: p.Mu, Sigma: p.Sigma}
}

// Conservative returns mu - 3 sigma.
func (p *Player) Conservative() float64 {
	return ratingdomain.ConservativeScore(p.Mu, p.Sigma)
}

// Tournament is one played event. Dates never decrease in insertion order.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Date      time.Time `bun:"date,type:date,notnull"`
	LeagueID  *int64    `bun:"league_id"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Participation is one player's line in a tournament. The *_before columns
// snapshot the player immediately before the tournament was processed and
// are what a revert restores; rows imported from older data may lack them.
type Participation struct {
	bun.BaseModel `bun:"table:participations,alias:pa"`

	ID                 int64             `bun:"id,pk,autoincrement"`
	TournamentID       int64             `bun:"tournament_id,notnull"`
	PlayerID           int64             `bun:"player_id,notnull"`
	Score              int               `bun:"score,notnull"`
	Position           int               `bun:"position,notnull"`
	MuBefore           *float64          `bun:"mu_before"`
	SigmaBefore        *float64          `bun:"sigma_before"`
	MissedBefore       *int              `bun:"missed_before"`
	RankedBefore       *bool             `bun:"ranked_before"`
	MuAfter            float64           `bun:"mu_after,notnull"`
	SigmaAfter         float64           `bun:"sigma_after,notnull"`
	ConservativeAfter  float64           `bun:"conservative_score_after,notnull"`
	TierAfter          ratingdomain.Tier `bun:"tier_after,notnull"`
	ExcludedFromRating bool              `bun:"excluded_from_rating,notnull"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id"`
}

// HasSnapshot reports whether the row carries everything a revert needs.
func (pa *Participation) HasSnapshot() bool {
	return pa.MuBefore != nil && pa.SigmaBefore != nil
}

// GhostLogEntry records one absence penalty so it can be reverted.
type GhostLogEntry struct {
	bun.BaseModel `bun:"table:ghost_log,alias:gl"`

	ID           int64     `bun:"id,pk,autoincrement"`
	PlayerID     int64     `bun:"player_id,notnull"`
	TournamentID int64     `bun:"tournament_id,notnull"`
	OldSigma     float64   `bun:"old_sigma,notnull"`
	NewSigma     float64   `bun:"new_sigma,notnull"`
	Penalty      float64   `bun:"penalty,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// GlobalReset is an admin-issued sigma inflation effective from a date.
// LastTournamentID is the newest tournament processed before it was applied.
type GlobalReset struct {
	bun.BaseModel `bun:"table:global_resets,alias:gr"`

	ID               int64      `bun:"id,pk,autoincrement"`
	Value            float64    `bun:"value,notnull"`
	EffectiveDate    time.Time  `bun:"effective_date,type:date,notnull"`
	LastTournamentID int64      `bun:"last_tournament_id,notnull,default:0"`
	AppliedAt        time.Time  `bun:"applied_at,nullzero,notnull,default:current_timestamp"`
	RevertedAt       *time.Time `bun:"reverted_at"`
}

// GlobalResetLogEntry is one player's sigma before and after a reset.
type GlobalResetLogEntry struct {
	bun.BaseModel `bun:"table:global_reset_log,alias:grl"`

	ID       int64   `bun:"id,pk,autoincrement"`
	ResetID  int64   `bun:"reset_id,notnull"`
	PlayerID int64   `bun:"player_id,notnull"`
	OldSigma float64 `bun:"old_sigma,notnull"`
	NewSigma float64 `bun:"new_sigma,notnull"`
}

// TournamentSummary is a tournament list row.
type TournamentSummary struct {
	ID          int64     `bun:"id"`
	Date        time.Time `bun:"date"`
	LeagueID    *int64    `bun:"league_id"`
	PlayerCount int       `bun:"player_count"`
	Winner      string    `bun:"winner"`
}

// PlayerHistoryEntry is one tournament in a player's history.
type PlayerHistoryEntry struct {
	TournamentID      int64     `bun:"tournament_id"`
	Date              time.Time `bun:"date"`
	Score             int       `bun:"score"`
	Position          int       `bun:"position"`
	MuAfter           float64   `bun:"mu_after"`
	SigmaAfter        float64   `bun:"sigma_after"`
	ConservativeAfter float64   `bun:"conservative_score_after"`
}
