// Package tunables holds the engine's tunable parameters. Values live as
// key/value rows in the configuration table and are parsed into an explicit
// Configuration struct that every domain computation receives as an argument.
package tunables

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
)

var (
	// ErrUnknownKey is returned for a key that has no tunable behind it.
	ErrUnknownKey = errors.New("unknown configuration key")

	// ErrInvalidValue is returned when a value fails to parse or is out of range.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// League ranking metrics accepted by LeagueRanking.
const (
	LeagueRankingPerformance = "grand_master"
	LeagueRankingSkill       = "skill"
)

// Configuration is the full set of tunables.
type Configuration struct {
	InitialMu         float64
	InitialSigma      float64
	Beta              float64
	Tau               float64
	DrawProbability   float64
	SigmaThreshold    float64
	UnrankedThreshold int

	GhostEnabled   bool
	GhostPenalty   float64
	GhostMinMissed int
	GhostSigmaCap  float64

	InterLeagueMoves int
	LeagueRanking    string

	// Season statistics.
	PIRatioCap       float64
	PIBaseWeight     float64
	PIEligibility    float64
	PIBonusFactor    float64
	PointsDivisor    float64
	StonksSigma      float64
	StonksMinShare   float64
	StonksEpsilon    float64
	ChillguyMaxDelta float64
}

// Defaults returns the configuration used when no row overrides a key.
func Defaults() Configuration {
	return Configuration{
		InitialMu:         50.0,
		InitialSigma:      8.333,
		Beta:              4.167,
		Tau:               0.083,
		DrawProbability:   0.1,
		SigmaThreshold:    4.0,
		UnrankedThreshold: 10,

		GhostEnabled:   true,
		GhostPenalty:   0.5,
		GhostMinMissed: 4,
		GhostSigmaCap:  8.333,

		InterLeagueMoves: 0,
		LeagueRanking:    LeagueRankingPerformance,

		PIRatioCap:       1.5,
		PIBaseWeight:     5,
		PIEligibility:    0.4,
		PIBonusFactor:    0.3,
		PointsDivisor:    12,
		StonksSigma:      2.5,
		StonksMinShare:   0.5,
		StonksEpsilon:    0.001,
		ChillguyMaxDelta: 0.3,
	}
}

type field struct {
	key string
	get func(c *Configuration) string
	set func(c *Configuration, raw string) error
}

func floatField(key string, ptr func(*Configuration) *float64, check func(float64) bool) field {
	return field{
		key: key,
		get: func(c *Configuration) string { return strconv.FormatFloat(*ptr(c), 'g', -1, 64) },
		set: func(c *Configuration, raw string) error {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || !finite(v) || !check(v) {
				return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, raw)
			}
			*ptr(c) = v
			return nil
		},
	}
}

func intField(key string, ptr func(*Configuration) *int, check func(int) bool) field {
	return field{
		key: key,
		get: func(c *Configuration) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Configuration, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil || !check(v) {
				return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, raw)
			}
			*ptr(c) = v
			return nil
		},
	}
}

func finite(v float64) bool      { return !math.IsNaN(v) && !math.IsInf(v, 0) }
func positive(v float64) bool    { return v > 0 }
func nonNegative(v float64) bool { return v >= 0 }
func fraction(v float64) bool    { return v >= 0 && v <= 1 }

var fields = []field{
	floatField("initial_mu", func(c *Configuration) *float64 { return &c.InitialMu }, finite),
	floatField("initial_sigma", func(c *Configuration) *float64 { return &c.InitialSigma }, positive),
	floatField("beta", func(c *Configuration) *float64 { return &c.Beta }, positive),
	floatField("tau", func(c *Configuration) *float64 { return &c.Tau }, nonNegative),
	floatField("draw_probability", func(c *Configuration) *float64 { return &c.DrawProbability }, func(v float64) bool { return v >= 0 && v < 1 }),
	floatField("sigma_threshold", func(c *Configuration) *float64 { return &c.SigmaThreshold }, positive),
	intField("unranked_threshold", func(c *Configuration) *int { return &c.UnrankedThreshold }, func(v int) bool { return v >= 1 }),
	{
		key: "ghost_enabled",
		get: func(c *Configuration) string { return strconv.FormatBool(c.GhostEnabled) },
		set: func(c *Configuration, raw string) error {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%w: ghost_enabled=%q", ErrInvalidValue, raw)
			}
			c.GhostEnabled = v
			return nil
		},
	},
	floatField("ghost_penalty", func(c *Configuration) *float64 { return &c.GhostPenalty }, nonNegative),
	intField("ghost_min_missed", func(c *Configuration) *int { return &c.GhostMinMissed }, func(v int) bool { return v >= 1 }),
	floatField("ghost_sigma_cap", func(c *Configuration) *float64 { return &c.GhostSigmaCap }, positive),
	intField("inter_league_moves", func(c *Configuration) *int { return &c.InterLeagueMoves }, func(v int) bool { return v >= 0 }),
	{
		key: "league_ranking",
		get: func(c *Configuration) string { return c.LeagueRanking },
		set: func(c *Configuration, raw string) error {
			if raw != LeagueRankingPerformance && raw != LeagueRankingSkill {
				return fmt.Errorf("%w: league_ranking=%q", ErrInvalidValue, raw)
			}
			c.LeagueRanking = raw
			return nil
		},
	},
	floatField("pi_ratio_cap", func(c *Configuration) *float64 { return &c.PIRatioCap }, positive),
	floatField("pi_base_weight", func(c *Configuration) *float64 { return &c.PIBaseWeight }, nonNegative),
	floatField("pi_eligibility", func(c *Configuration) *float64 { return &c.PIEligibility }, fraction),
	floatField("pi_bonus_factor", func(c *Configuration) *float64 { return &c.PIBonusFactor }, nonNegative),
	floatField("points_divisor", func(c *Configuration) *float64 { return &c.PointsDivisor }, positive),
	floatField("stonks_sigma", func(c *Configuration) *float64 { return &c.StonksSigma }, positive),
	floatField("stonks_min_share", func(c *Configuration) *float64 { return &c.StonksMinShare }, fraction),
	floatField("stonks_epsilon", func(c *Configuration) *float64 { return &c.StonksEpsilon }, nonNegative),
	floatField("chillguy_max_delta", func(c *Configuration) *float64 { return &c.ChillguyMaxDelta }, positive),
}

func lookup(key string) (field, bool) {
	i := slices.IndexFunc(fields, func(f field) bool { return f.key == key })
	if i < 0 {
		return field{}, false
	}
	return fields[i], true
}

// Keys lists every known configuration key.
func Keys() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.key
	}
	return out
}

// FromEntries overlays stored rows on the defaults. Rows with unknown keys
// are skipped; a malformed value for a known key is an error.
func FromEntries(entries map[string]string) (Configuration, error) {
	cfg := Defaults()
	for _, f := range fields {
		raw, ok := entries[f.key]
		if !ok {
			continue
		}
		if err := f.set(&cfg, raw); err != nil {
			return Configuration{}, err
		}
	}
	return cfg, nil
}

// Entries renders the configuration back to key/value rows.
func (c Configuration) Entries() map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.key] = f.get(&c)
	}
	return out
}

// Validate checks a single key/value pair without applying it.
func Validate(key, value string) error {
	f, ok := lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	cfg := Defaults()
	return f.set(&cfg, value)
}
