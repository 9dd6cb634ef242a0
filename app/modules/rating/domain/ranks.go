package ratingdomain

import (
	"cmp"
	"slices"
)

// ScoreEntry is one raw result line of a tournament.
type ScoreEntry struct {
	Name               string
	Score              int
	ExcludedFromRating bool
}

// RankedEntry is a ScoreEntry with its competition rank.
type RankedEntry struct {
	ScoreEntry
	Position int
}

// AssignRanks sorts entries by descending score and assigns competition
// ranks: equal scores share the rank of their first occurrence and the next
// lower score takes its 1-based position. Input order breaks ties.
func AssignRanks(entries []ScoreEntry) []RankedEntry {
	ranked := make([]RankedEntry, len(entries))
	for i, e := range entries {
		ranked[i] = RankedEntry{ScoreEntry: e}
	}
	slices.SortStableFunc(ranked, func(a, b RankedEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})

	for i := range ranked {
		if i == 0 || ranked[i].Score < ranked[i-1].Score {
			ranked[i].Position = i + 1
		} else {
			ranked[i].Position = ranked[i-1].Position
		}
	}
	return ranked
}
