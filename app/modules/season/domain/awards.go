package seasondomain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/smk-league/smk-rating/app/shared/tunables"
)

// AwardKind is a season award category.
type AwardKind string

const (
	AwardEz          AwardKind = "ez"
	AwardPasLoin     AwardKind = "pas_loin"
	AwardStakhanov   AwardKind = "stakhanov"
	AwardStonks      AwardKind = "stonks"
	AwardNotStonks   AwardKind = "not_stonks"
	AwardChillguy    AwardKind = "chillguy"
	AwardGrandMaster AwardKind = "grand_master"
)

// AllAwardKinds lists every kind in resolution order. pas_loin must come
// after ez.
var AllAwardKinds = []AwardKind{
	AwardEz, AwardPasLoin, AwardStakhanov, AwardStonks, AwardNotStonks, AwardChillguy, AwardGrandMaster,
}

// ParseAwardKind accepts a known award code.
func ParseAwardKind(code string) (AwardKind, bool) {
	k := AwardKind(strings.TrimSpace(code))
	_, ok := awardRules[k]
	return k, ok
}

// PodiumPlaces is the number of podium awards per season.
const PodiumPlaces = 3

// PodiumCode returns the award code of a podium place (1-based).
func PodiumCode(place int, yearly bool) string {
	if yearly {
		return fmt.Sprintf("super_moai_%d", place)
	}
	return fmt.Sprintf("moai_%d", place)
}

type ruleContext struct {
	cfg   tunables.Configuration
	total int
}

func (rc ruleContext) stable(c Candidate) bool {
	return c.Sigma < rc.cfg.StonksSigma
}

type awardRule struct {
	// podium restricts the candidates when the kind is the victory condition.
	podium func(rc ruleContext, c Candidate) bool
	// filter restricts the candidates of the special award.
	filter func(rc ruleContext, c Candidate) bool
	// ahead reports whether a ranks strictly ahead of b.
	ahead func(a, b Candidate) bool
	// wins is the winner predicate on the best candidate.
	wins func(rc ruleContext, c Candidate) bool
	// ties keeps every candidate tied with the best one.
	ties bool
	// excludes names kinds whose winners cannot win this one.
	excludes []AwardKind
}

func always(ruleContext, Candidate) bool { return true }
func highest(a, b Candidate) bool     { return a.Value > b.Value }
func lowest(a, b Candidate) bool      { return a.Value < b.Value }
func positive(_ ruleContext, c Candidate) bool {
	return c.Value > 0
}

var awardRules = map[AwardKind]awardRule{
	AwardEz: {
		podium: always, filter: always, ahead: highest, wins: positive, ties: true,
	},
	AwardPasLoin: {
		podium: always, filter: always, ahead: highest, wins: positive,
		excludes: []AwardKind{AwardEz},
	},
	AwardStakhanov: {
		podium: always, filter: always, ahead: highest, wins: positive,
	},
	AwardStonks: {
		podium: ruleContext.stable,
		filter: func(rc ruleContext, c Candidate) bool {
			return rc.stable(c) && float64(c.Matches) >= rc.cfg.StonksMinShare*float64(rc.total)
		},
		ahead: highest,
		wins:  func(rc ruleContext, c Candidate) bool { return c.Value > rc.cfg.StonksEpsilon },
	},
	AwardNotStonks: {
		podium: always,
		filter: func(rc ruleContext, c Candidate) bool {
			return rc.stable(c) && float64(c.Matches) >= rc.cfg.StonksMinShare*float64(rc.total)
		},
		ahead: lowest,
		wins:  func(rc ruleContext, c Candidate) bool { return c.Value < -rc.cfg.StonksEpsilon },
	},
	AwardChillguy: {
		podium: always,
		filter: func(rc ruleContext, c Candidate) bool {
			return rc.stable(c) && float64(c.Matches) > rc.cfg.StonksMinShare*float64(rc.total)
		},
		ahead: lowest,
		wins:  func(rc ruleContext, c Candidate) bool { return c.Value < rc.cfg.ChillguyMaxDelta },
	},
	AwardGrandMaster: {
		podium: func(_ ruleContext, c Candidate) bool { return c.Eligible },
		filter: func(_ ruleContext, c Candidate) bool { return c.Eligible },
		ahead:  highest,
		wins:   always,
	},
}

// SpecialAward is the resolved outcome of one non-podium category.
type SpecialAward struct {
	Kind    AwardKind   `json:"kind"`
	Winners []Candidate `json:"winners"`
}

// SeasonWinners is the resolved podium and special awards. Categories with
// no qualifying candidate are absent from Special.
type SeasonWinners struct {
	Victory AwardKind      `json:"victory_condition"`
	Top3    []Candidate    `json:"top_3"`
	Special []SpecialAward `json:"special"`
}

// order sorts candidates by the rule, breaking ties by name then id.
func (r awardRule) order(cands []Candidate) []Candidate {
	out := slices.Clone(cands)
	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case r.ahead(a, b):
			return -1
		case r.ahead(b, a):
			return 1
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}

// ResolveAwards picks the podium by the victory condition and the winners of
// every other active award.
func ResolveAwards(
	cfg tunables.Configuration,
	candidates map[AwardKind][]Candidate,
	victory AwardKind,
	active []AwardKind,
	total int,
) (SeasonWinners, error) {
	victoryRule, ok := awardRules[victory]
	if !ok {
		return SeasonWinners{}, fmt.Errorf("unknown victory condition %q", victory)
	}
	rc := ruleContext{cfg: cfg, total: total}

	var podium []Candidate
	for _, c := range victoryRule.order(candidates[victory]) {
		if victoryRule.podium(rc, c) {
			podium = append(podium, c)
		}
		if len(podium) == PodiumPlaces {
			break
		}
	}

	activeSet := make(map[AwardKind]bool, len(active))
	for _, k := range active {
		if _, ok := awardRules[k]; !ok {
			return SeasonWinners{}, fmt.Errorf("unknown award %q", k)
		}
		activeSet[k] = true
	}

	winnersOf := map[AwardKind]map[int64]bool{}
	var special []SpecialAward
	for _, kind := range AllAwardKinds {
		if !activeSet[kind] || kind == victory {
			continue
		}
		rule := awardRules[kind]

		excluded := map[int64]bool{}
		for _, ex := range rule.excludes {
			for id := range winnersOf[ex] {
				excluded[id] = true
			}
		}

		var pool []Candidate
		for _, c := range candidates[kind] {
			if !excluded[c.PlayerID] && rule.filter(rc, c) {
				pool = append(pool, c)
			}
		}
		pool = rule.order(pool)
		if len(pool) == 0 || !rule.wins(rc, pool[0]) {
			continue
		}

		winners := []Candidate{pool[0]}
		if rule.ties {
			for _, c := range pool[1:] {
				if c.Value != pool[0].Value {
					break
				}
				winners = append(winners, c)
			}
		}

		ids := make(map[int64]bool, len(winners))
		for _, w := range winners {
			ids[w.PlayerID] = true
		}
		winnersOf[kind] = ids
		special = append(special, SpecialAward{Kind: kind, Winners: winners})
	}

	return SeasonWinners{Victory: victory, Top3: podium, Special: special}, nil
}
