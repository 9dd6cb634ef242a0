package ratingdomain

import (
	"errors"
	"math"
	"testing"

	"github.com/smk-league/smk-rating/app/shared/tunables"
)

// classicConfig is the reference environment mu=25, sigma=25/3.
func classicConfig() tunables.Configuration {
	cfg := tunables.Defaults()
	cfg.InitialMu = 25
	cfg.InitialSigma = 25.0 / 3
	cfg.Beta = 25.0 / 6
	cfg.Tau = 25.0 / 300
	cfg.DrawProbability = 0.1
	return cfg
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestUpdateRatingsHeadToHead(t *testing.T) {
	cfg := classicConfig()
	fresh := Rating{Mu: 25, Sigma: 25.0 / 3}

	t.Run("win", func(t *testing.T) {
		got, err := UpdateRatings(cfg, []RatedParticipant{
			{Position: 1, Rating: fresh},
			{Position: 2, Rating: fresh},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !near(got[0].Mu, 29.396, 0.005) || !near(got[0].Sigma, 7.171, 0.005) {
			t.Fatalf("unexpected winner rating: %+v", got[0])
		}
		if !near(got[1].Mu, 20.604, 0.005) || !near(got[1].Sigma, 7.171, 0.005) {
			t.Fatalf("unexpected loser rating: %+v", got[1])
		}
	})

	t.Run("draw", func(t *testing.T) {
		got, err := UpdateRatings(cfg, []RatedParticipant{
			{Position: 1, Rating: fresh},
			{Position: 1, Rating: fresh},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, r := range got {
			if !near(r.Mu, 25, 0.005) || !near(r.Sigma, 6.458, 0.005) {
				t.Fatalf("unexpected draw rating: %+v", r)
			}
		}
	})

	t.Run("input order does not matter", func(t *testing.T) {
		got, err := UpdateRatings(cfg, []RatedParticipant{
			{Position: 2, Rating: fresh},
			{Position: 1, Rating: fresh},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !(got[1].Mu > got[0].Mu) {
			t.Fatalf("winner should be second element: %+v", got)
		}
	})
}

func TestUpdateRatingsFreeForAll(t *testing.T) {
	cfg := tunables.Defaults()
	fresh := Rating{Mu: cfg.InitialMu, Sigma: cfg.InitialSigma}

	got, err := UpdateRatings(cfg, []RatedParticipant{
		{Position: 1, Rating: fresh},
		{Position: 2, Rating: fresh},
		{Position: 3, Rating: fresh},
		{Position: 4, Rating: fresh},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(got); i++ {
		if !(got[i-1].Mu > got[i].Mu) {
			t.Fatalf("means should follow finishing order: %+v", got)
		}
	}
	for _, r := range got {
		if !(r.Sigma < fresh.Sigma) || r.Sigma <= 0 {
			t.Fatalf("sigma should shrink but stay positive: %+v", r)
		}
	}

	// Symmetric field: the winner gains what the last player loses.
	gain := got[0].Mu - fresh.Mu
	loss := fresh.Mu - got[3].Mu
	if !near(gain, loss, 0.05) {
		t.Fatalf("expected symmetric update, gain %.4f loss %.4f", gain, loss)
	}
}

func TestUpdateRatingsUpsetMovesMore(t *testing.T) {
	cfg := tunables.Defaults()
	strong := Rating{Mu: 60, Sigma: 2}
	weak := Rating{Mu: 40, Sigma: 2}

	expected, err := UpdateRatings(cfg, []RatedParticipant{{Position: 1, Rating: strong}, {Position: 2, Rating: weak}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upset, err := UpdateRatings(cfg, []RatedParticipant{{Position: 2, Rating: strong}, {Position: 1, Rating: weak}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(upset[1].Mu-weak.Mu) <= math.Abs(expected[1].Mu-weak.Mu) {
		t.Fatalf("upset should move the underdog more: expected %+v upset %+v", expected, upset)
	}
	for _, r := range append(expected, upset...) {
		if math.IsNaN(r.Mu) || math.IsNaN(r.Sigma) || r.Sigma <= 0 {
			t.Fatalf("invalid rating after update: %+v", r)
		}
	}
}

func TestUpdateRatingsIsPure(t *testing.T) {
	cfg := tunables.Defaults()
	in := []RatedParticipant{
		{Position: 1, Rating: Rating{Mu: 52, Sigma: 3}},
		{Position: 2, Rating: Rating{Mu: 48, Sigma: 5}},
		{Position: 2, Rating: Rating{Mu: 50, Sigma: 8.333}},
	}
	a, err := UpdateRatings(cfg, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := UpdateRatings(cfg, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("update not deterministic: %+v vs %+v", a, b)
		}
	}
}

func TestUpdateRatingsEdgeCases(t *testing.T) {
	cfg := tunables.Defaults()

	single := []RatedParticipant{{Position: 1, Rating: Rating{Mu: 50, Sigma: 8.333}}}
	got, err := UpdateRatings(cfg, single)
	if err != nil || got[0] != single[0].Rating {
		t.Fatalf("single participant should be unchanged, got %+v err %v", got, err)
	}

	_, err = UpdateRatings(cfg, []RatedParticipant{
		{Position: 1, Rating: Rating{Mu: 50, Sigma: 0}},
		{Position: 2, Rating: Rating{Mu: 50, Sigma: 8}},
	})
	if !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}
