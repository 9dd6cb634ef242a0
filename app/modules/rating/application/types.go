package ratingservice

import (
	"math"
	"time"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
)

// ScoreLine is one raw result line of a submitted tournament.
type ScoreLine struct {
	Name               string `json:"name"`
	Score              int    `json:"score"`
	ExcludedFromRating bool   `json:"excluded_from_rating,omitempty"`
}

// SubmitTournamentRequest carries a tournament to process. Date is truncated
// to the calendar day.
type SubmitTournamentRequest struct {
	Date     time.Time
	LeagueID *int64
	Scores   []ScoreLine
}

// ParticipantOutcome is one participant's line after processing.
type ParticipantOutcome struct {
	PlayerID           int64             `json:"player_id"`
	Name               string            `json:"name"`
	Score              int               `json:"score"`
	Position           int               `json:"position"`
	MuBefore           float64           `json:"mu_before"`
	SigmaBefore        float64           `json:"sigma_before"`
	MuAfter            float64           `json:"mu_after"`
	SigmaAfter         float64           `json:"sigma_after"`
	ConservativeAfter  float64           `json:"conservative_score_after"`
	Tier               ratingdomain.Tier `json:"tier"`
	ExcludedFromRating bool              `json:"excluded_from_rating"`
	NewPlayer          bool              `json:"new_player"`
}

// GhostOutcome is one absence penalty applied or reverted.
type GhostOutcome struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	OldSigma float64 `json:"old_sigma"`
	NewSigma float64 `json:"new_sigma"`
}

// TierDistribution counts players per tier.
type TierDistribution struct {
	Counts map[ratingdomain.Tier]int `json:"counts"`
	Total  int                       `json:"total"`
	Mean   float64                   `json:"mean"`
	StdDev float64                   `json:"std_dev"`
}

// SubmitTournamentResult describes a processed tournament.
type SubmitTournamentResult struct {
	TournamentID int64                `json:"tournament_id"`
	Date         time.Time            `json:"date"`
	Participants []ParticipantOutcome `json:"participants"`
	Ghosts       []GhostOutcome       `json:"ghosts"`
	Tiers        TierDistribution     `json:"tiers"`
}

// UndoResult describes a reverted or deleted tournament. RestoredBeliefs is
// false when participants kept their current belief.
type UndoResult struct {
	TournamentID      int64            `json:"tournament_id"`
	Date              time.Time        `json:"date"`
	RestoredBeliefs   bool             `json:"restored_beliefs"`
	PlayersRestored   int              `json:"players_restored"`
	GhostsReverted    int              `json:"ghosts_reverted"`
	AbsenteesRestored int              `json:"absentees_restored"`
	Tiers             TierDistribution `json:"tiers"`
}

// GlobalResetResult describes an applied or reverted reset.
type GlobalResetResult struct {
	ResetID         int64            `json:"reset_id"`
	Value           float64          `json:"value"`
	EffectiveDate   time.Time        `json:"effective_date"`
	PlayersAffected int              `json:"players_affected"`
	Tiers           TierDistribution `json:"tiers"`
}

// ClassementEntry is one row of the global classement.
type ClassementEntry struct {
	Rank     int               `json:"rank"`
	Name     string            `json:"name"`
	Mu       float64           `json:"mu"`
	Sigma    float64           `json:"sigma"`
	Score    float64           `json:"score"`
	Tier     ratingdomain.Tier `json:"tier"`
	IsRanked bool              `json:"is_ranked"`
}

// ProgressionEntry is a player's conservative score relative to the initial
// mean.
type ProgressionEntry struct {
	Name        string            `json:"name"`
	Progression float64           `json:"progression"`
	Tier        ratingdomain.Tier `json:"tier"`
}

// HistoryPoint is one tournament in a player's history.
type HistoryPoint struct {
	TournamentID int64     `json:"tournament_id"`
	Date         time.Time `json:"date"`
	Position     int       `json:"position"`
	Score        int       `json:"score"`
	Conservative float64   `json:"conservative_score"`
}

// PlayerStats is the profile of one player.
type PlayerStats struct {
	Name              string            `json:"name"`
	Mu                float64           `json:"mu"`
	Sigma             float64           `json:"sigma"`
	Score             float64           `json:"score"`
	Tier              ratingdomain.Tier `json:"tier"`
	IsRanked          bool              `json:"is_ranked"`
	ConsecutiveMissed int               `json:"consecutive_missed"`
	TournamentCount   int               `json:"tournament_count"`
	AveragePosition   float64           `json:"average_position"`
	Percentile        float64           `json:"percentile"`
	History           []HistoryPoint    `json:"history"`
}

// PlayerView is a player as returned by admin operations.
type PlayerView struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Mu       float64           `json:"mu"`
	Sigma    float64           `json:"sigma"`
	Tier     ratingdomain.Tier `json:"tier"`
	IsRanked bool              `json:"is_ranked"`
	LeagueID *int64            `json:"league_id,omitempty"`
}

// TournamentSummary is one row of the tournament list.
type TournamentSummary struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	LeagueID    *int64    `json:"league_id,omitempty"`
	PlayerCount int       `json:"player_count"`
	Winner      string    `json:"winner"`
}

// TournamentResultLine is one ordered result of a tournament.
type TournamentResultLine struct {
	Position           int               `json:"position"`
	Name               string            `json:"name"`
	Score              int               `json:"score"`
	MuAfter            float64           `json:"mu_after"`
	SigmaAfter         float64           `json:"sigma_after"`
	ConservativeAfter  float64           `json:"conservative_score_after"`
	TierAfter          ratingdomain.Tier `json:"tier_after"`
	ExcludedFromRating bool              `json:"excluded_from_rating"`
}

// TournamentDetails is a tournament with its ordered results.
type TournamentDetails struct {
	ID       int64                  `json:"id"`
	Date     time.Time              `json:"date"`
	LeagueID *int64                 `json:"league_id,omitempty"`
	Results  []TournamentResultLine `json:"results"`
}

func round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
