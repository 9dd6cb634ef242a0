package seasondomain

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/smk-league/smk-rating/app/shared/tunables"
)

// ScopeKind selects which tournaments a season covers.
type ScopeKind string

const (
	ScopeAll      ScopeKind = "all"
	ScopeLeague   ScopeKind = "league"
	ScopeNoLeague ScopeKind = "no_league"
)

// Scope filters tournaments by league. LeagueID is set only for ScopeLeague.
type Scope struct {
	Kind     ScopeKind
	LeagueID int64
}

// AllLeagues covers every tournament.
func AllLeagues() Scope { return Scope{Kind: ScopeAll} }

// League covers tournaments played in one league.
func League(id int64) Scope { return Scope{Kind: ScopeLeague, LeagueID: id} }

// NoLeague covers tournaments played outside any league.
func NoLeague() Scope { return Scope{Kind: ScopeNoLeague} }

// DateRange is an inclusive window of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the window.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Match is one participation row inside the season window.
type Match struct {
	TournamentID      int64
	Date              time.Time
	PlayerID          int64
	PlayerName        string
	Score             int
	Position          int
	SigmaAfter        float64
	ConservativeAfter float64
}

// PlayerSeasonStats is one row of the season tables. ScoreGM is nil for
// players below the participation threshold; StonksDelta is nil when no
// match reached the stability threshold.
type PlayerSeasonStats struct {
	PlayerID          int64    `json:"player_id"`
	Name              string   `json:"name"`
	Matches           int      `json:"matches"`
	Wins              int      `json:"wins"`
	RunnerUps         int      `json:"runner_ups"`
	WeightedPoints    float64  `json:"-"`
	Points            int      `json:"points"`
	FinalConservative float64  `json:"final_conservative"`
	FinalSigma        float64  `json:"final_sigma"`
	PerformanceIndex  float64  `json:"performance_index"`
	Eligible          bool     `json:"eligible"`
	ScoreGM           *float64 `json:"score_gm"`
	StonksDelta       *float64 `json:"stonks_delta,omitempty"`
}

// Candidate is one entry of an award candidate list. Value is the metric the
// award orders by.
type Candidate struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Matches  int     `json:"matches"`
	Sigma    float64 `json:"sigma"`
	Eligible bool    `json:"eligible"`
}

// SeasonStats is the full aggregation of a season window.
type SeasonStats struct {
	ClassementPoints  []PlayerSeasonStats       `json:"classement_points"`
	ClassementMoyenne []PlayerSeasonStats       `json:"classement_moyenne"`
	Candidates        map[AwardKind][]Candidate `json:"candidates"`
	TotalTournois     int                       `json:"total_tournois"`
}

// ByPlayer indexes the season rows by player id.
func (s SeasonStats) ByPlayer() map[int64]PlayerSeasonStats {
	out := make(map[int64]PlayerSeasonStats, len(s.ClassementPoints))
	for _, p := range s.ClassementPoints {
		out[p.PlayerID] = p
	}
	return out
}

type tournamentShape struct {
	size    int
	average float64
}

type accumulator struct {
	stats        PlayerSeasonStats
	weightSum    float64
	ratioSum     float64
	lastDate     time.Time
	lastID       int64
	baseline     *float64
	seenBaseline bool
}

// ComputeSeasonStats aggregates matches already filtered to the season
// window and scope. Tournament size and average are taken over every row of
// the tournament.
func ComputeSeasonStats(cfg tunables.Configuration, matches []Match) SeasonStats {
	shapes := map[int64]*tournamentShape{}
	for _, m := range matches {
		sh, ok := shapes[m.TournamentID]
		if !ok {
			sh = &tournamentShape{}
			shapes[m.TournamentID] = sh
		}
		sh.size++
		sh.average += float64(m.Score)
	}
	for _, sh := range shapes {
		sh.average /= float64(sh.size)
	}
	total := len(shapes)

	ordered := slices.Clone(matches)
	slices.SortStableFunc(ordered, func(a, b Match) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.TournamentID, b.TournamentID)
	})

	accs := map[int64]*accumulator{}
	for _, m := range ordered {
		acc, ok := accs[m.PlayerID]
		if !ok {
			acc = &accumulator{stats: PlayerSeasonStats{PlayerID: m.PlayerID, Name: m.PlayerName}}
			accs[m.PlayerID] = acc
		}
		sh := shapes[m.TournamentID]
		st := &acc.stats

		st.Matches++
		switch m.Position {
		case 1:
			st.Wins++
		case 2:
			st.RunnerUps++
		}
		if cfg.PointsDivisor > 0 {
			st.WeightedPoints += float64(m.Score) * float64(sh.size) / cfg.PointsDivisor
		}

		w := float64(sh.size) + cfg.PIBaseWeight
		var r float64
		if sh.average > 0 {
			r = math.Min(cfg.PIRatioCap, float64(m.Score)/sh.average)
		}
		acc.ratioSum += r * w
		acc.weightSum += w

		st.FinalConservative = m.ConservativeAfter
		st.FinalSigma = m.SigmaAfter

		if !acc.seenBaseline && m.SigmaAfter < cfg.StonksSigma {
			baseline := m.ConservativeAfter
			acc.baseline = &baseline
			acc.seenBaseline = true
		}
	}

	threshold := cfg.PIEligibility * float64(total)
	rows := make([]PlayerSeasonStats, 0, len(accs))
	for _, acc := range accs {
		st := acc.stats
		st.Points = int(math.Round(st.WeightedPoints))

		if acc.weightSum > 0 {
			st.PerformanceIndex = 100 * acc.ratioSum / acc.weightSum
		}
		st.Eligible = total > 0 && float64(st.Matches) >= threshold
		if st.Eligible {
			st.PerformanceIndex += cfg.PIBonusFactor * (float64(st.Matches) - threshold)
			gm := st.PerformanceIndex
			st.ScoreGM = &gm
		}
		if acc.baseline != nil {
			delta := st.FinalConservative - *acc.baseline
			st.StonksDelta = &delta
		}
		rows = append(rows, st)
	}

	return SeasonStats{
		ClassementPoints:  sortByPoints(rows),
		ClassementMoyenne: sortByPerformance(rows),
		Candidates:        buildCandidates(rows),
		TotalTournois:     total,
	}
}

func byName(a, b PlayerSeasonStats) int {
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

func sortByPoints(rows []PlayerSeasonStats) []PlayerSeasonStats {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b PlayerSeasonStats) int {
		if c := cmp.Compare(b.WeightedPoints, a.WeightedPoints); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return byName(a, b)
	})
	return out
}

func sortByPerformance(rows []PlayerSeasonStats) []PlayerSeasonStats {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b PlayerSeasonStats) int {
		if a.Eligible != b.Eligible {
			if a.Eligible {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.PerformanceIndex, a.PerformanceIndex); c != 0 {
			return c
		}
		return byName(a, b)
	})
	return out
}

func buildCandidates(rows []PlayerSeasonStats) map[AwardKind][]Candidate {
	out := make(map[AwardKind][]Candidate, len(AllAwardKinds))
	for _, st := range rows {
		base := Candidate{
			PlayerID: st.PlayerID,
			Name:     st.Name,
			Matches:  st.Matches,
			Sigma:    st.FinalSigma,
			Eligible: st.Eligible,
		}
		add := func(kind AwardKind, v float64) {
			c := base
			c.Value = v
			out[kind] = append(out[kind], c)
		}

		add(AwardEz, float64(st.Wins))
		add(AwardPasLoin, float64(st.RunnerUps))
		add(AwardStakhanov, st.WeightedPoints)
		add(AwardGrandMaster, st.PerformanceIndex)
		if st.StonksDelta != nil {
			add(AwardStonks, *st.StonksDelta)
			add(AwardNotStonks, *st.StonksDelta)
			add(AwardChillguy, math.Abs(*st.StonksDelta))
		}
	}
	return out
}
