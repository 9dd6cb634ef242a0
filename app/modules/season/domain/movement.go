package seasondomain

import (
	"cmp"
	"slices"

	"github.com/smk-league/smk-rating/app/shared/tunables"
)

// Direction of a league movement.
type Direction string

const (
	Promotion  Direction = "promotion"
	Relegation Direction = "relegation"
)

// LeagueLevel is a league and its rank; niveau 0 is the lowest league.
type LeagueLevel struct {
	ID     int64
	Niveau int
}

// LeagueMember is a player's league and current skill.
type LeagueMember struct {
	PlayerID     int64
	LeagueID     int64
	Conservative float64
}

// Movement moves one player between adjacent leagues.
type Movement struct {
	PlayerID     int64     `json:"player_id"`
	FromLeagueID int64     `json:"from_league_id"`
	ToLeagueID   int64     `json:"to_league_id"`
	Direction    Direction `json:"direction"`
}

// ComputeMovements swaps the bottom n of each higher league with the top n
// of the league below it. Rosters are read from the snapshot given; a player
// is moved at most once. stats holds the season rows used by the
// performance ranking and may lack players who did not play.
func ComputeMovements(
	cfg tunables.Configuration,
	leagues []LeagueLevel,
	members []LeagueMember,
	stats map[int64]PlayerSeasonStats,
) []Movement {
	n := cfg.InterLeagueMoves
	if n <= 0 || len(leagues) < 2 {
		return nil
	}

	levels := slices.Clone(leagues)
	slices.SortStableFunc(levels, func(a, b LeagueLevel) int { return cmp.Compare(a.Niveau, b.Niveau) })

	rosters := map[int64][]LeagueMember{}
	for _, m := range members {
		rosters[m.LeagueID] = append(rosters[m.LeagueID], m)
	}
	for id, roster := range rosters {
		rosters[id] = rankMembers(cfg.LeagueRanking, roster, stats)
	}

	moved := map[int64]bool{}
	var out []Movement
	pick := func(ranked []LeagueMember, count int) []LeagueMember {
		var picked []LeagueMember
		for _, m := range ranked {
			if len(picked) == count {
				break
			}
			if !moved[m.PlayerID] {
				picked = append(picked, m)
			}
		}
		return picked
	}

	for i := len(levels) - 1; i > 0; i-- {
		upper, lower := levels[i], levels[i-1]

		upperRanked := slices.Clone(rosters[upper.ID])
		slices.Reverse(upperRanked)
		relegated := pick(upperRanked, n)
		promoted := pick(rosters[lower.ID], n)

		for _, m := range relegated {
			moved[m.PlayerID] = true
			out = append(out, Movement{PlayerID: m.PlayerID, FromLeagueID: upper.ID, ToLeagueID: lower.ID, Direction: Relegation})
		}
		for _, m := range promoted {
			moved[m.PlayerID] = true
			out = append(out, Movement{PlayerID: m.PlayerID, FromLeagueID: lower.ID, ToLeagueID: upper.ID, Direction: Promotion})
		}
	}
	return out
}

// rankMembers orders a roster best first.
func rankMembers(metric string, roster []LeagueMember, stats map[int64]PlayerSeasonStats) []LeagueMember {
	out := slices.Clone(roster)
	if metric == tunables.LeagueRankingSkill {
		slices.SortStableFunc(out, func(a, b LeagueMember) int {
			if c := cmp.Compare(b.Conservative, a.Conservative); c != 0 {
				return c
			}
			return cmp.Compare(a.PlayerID, b.PlayerID)
		})
		return out
	}

	// 0: eligible, 1: played but ineligible, 2: no season entry.
	class := func(m LeagueMember) int {
		st, ok := stats[m.PlayerID]
		switch {
		case !ok:
			return 2
		case st.Eligible:
			return 0
		default:
			return 1
		}
	}
	slices.SortStableFunc(out, func(a, b LeagueMember) int {
		if c := cmp.Compare(class(a), class(b)); c != 0 {
			return c
		}
		if c := cmp.Compare(stats[b.PlayerID].PerformanceIndex, stats[a.PlayerID].PerformanceIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}
