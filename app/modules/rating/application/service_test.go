package ratingservice

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	testNow   = time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	seasonAgo = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(repo *FakeRatingRepo) (*RatingService, *FakePublisher) {
	pub := &FakePublisher{}
	svc := NewRatingService(
		repo,
		NewFakeStore(),
		pub,
		fixedClock{now: testNow},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
	return svc, pub
}

func seed(repo *FakeRatingRepo, name string, mu, sigma float64, missed int, ranked bool) *ratingdb.Player {
	return repo.seedPlayer(ratingdb.Player{
		Name:              name,
		Mu:                mu,
		Sigma:             sigma,
		ConsecutiveMissed: missed,
		IsRanked:          ranked,
		CreatedAt:         seasonAgo,
	})
}

func scores(pairs ...any) []ScoreLine {
	var out []ScoreLine
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, ScoreLine{Name: pairs[i].(string), Score: pairs[i+1].(int)})
	}
	return out
}

// beliefState is what a revert must restore exactly.
type beliefState struct {
	Mu, Sigma float64
	Missed    int
	Ranked    bool
}

func snapshot(repo *FakeRatingRepo) map[string]beliefState {
	out := map[string]beliefState{}
	for _, p := range repo.players {
		out[p.Name] = beliefState{Mu: p.Mu, Sigma: p.Sigma, Missed: p.ConsecutiveMissed, Ranked: p.IsRanked}
	}
	return out
}

func TestSubmitTournament_Validation(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*FakeRatingRepo, *RatingService)
		req     SubmitTournamentRequest
		wantErr error
	}{
		{
			name:    "fewer than two entrants",
			req:     SubmitTournamentRequest{Date: day(10, 1), Scores: scores("A", 10)},
			wantErr: ErrValidation,
		},
		{
			name:    "duplicate names",
			req:     SubmitTournamentRequest{Date: day(10, 1), Scores: scores("A", 10, "A", 20)},
			wantErr: ErrValidation,
		},
		{
			name:    "negative score",
			req:     SubmitTournamentRequest{Date: day(10, 1), Scores: scores("A", 10, "B", -1)},
			wantErr: ErrValidation,
		},
		{
			name:    "date in the future",
			req:     SubmitTournamentRequest{Date: day(10, 21), Scores: scores("A", 10, "B", 5)},
			wantErr: ErrValidation,
		},
		{
			name: "date before latest tournament",
			setup: func(repo *FakeRatingRepo, svc *RatingService) {
				_, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{Date: day(10, 10), Scores: scores("A", 10, "B", 5)})
				require.NoError(t, err)
			},
			req:     SubmitTournamentRequest{Date: day(10, 9), Scores: scores("A", 10, "B", 5)},
			wantErr: ErrValidation,
		},
		{
			name: "date on an unreverted global reset",
			setup: func(repo *FakeRatingRepo, svc *RatingService) {
				_, err := svc.ApplyGlobalReset(context.Background(), 1, day(10, 15))
				require.NoError(t, err)
			},
			req:     SubmitTournamentRequest{Date: day(10, 15), Scores: scores("A", 10, "B", 5)},
			wantErr: ErrConsistency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRatingRepo()
			seed(repo, "A", 50, 8.333, 0, true)
			seed(repo, "B", 50, 8.333, 0, true)
			svc, _ := newTestService(repo)
			if tt.setup != nil {
				tt.setup(repo, svc)
			}
			before := snapshot(repo)
			tournaments := len(repo.tournaments)

			_, err := svc.SubmitTournament(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, repo.tournaments, tournaments, "no tournament should be stored")
			assert.Empty(t, cmp.Diff(before, snapshot(repo)), "players should be untouched")
		})
	}
}

func TestSubmitTournament_RatesAndRecords(t *testing.T) {
	repo := NewFakeRatingRepo()
	seed(repo, "Alice", 50, 8.333, 0, true)
	svc, pub := newTestService(repo)

	res, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{
		Date: day(10, 1),
		Scores: []ScoreLine{
			{Name: "Bob", Score: 150},
			{Name: "Alice", Score: 180},
			{Name: "Carol", Score: 150},
			{Name: "Guest", Score: 200, ExcludedFromRating: true},
		},
	})
	require.NoError(t, err)

	require.Len(t, res.Participants, 4)
	assert.Equal(t, "Guest", res.Participants[0].Name)
	assert.Equal(t, 1, res.Participants[0].Position)
	assert.Equal(t, 2, res.Participants[1].Position)
	assert.Equal(t, 3, res.Participants[2].Position)
	assert.Equal(t, 3, res.Participants[3].Position)

	guest := res.Participants[0]
	assert.True(t, guest.ExcludedFromRating)
	assert.True(t, guest.NewPlayer)
	assert.Equal(t, guest.MuBefore, guest.MuAfter, "guest belief must not move")
	assert.Equal(t, guest.SigmaBefore, guest.SigmaAfter)

	alice := res.Participants[1]
	assert.Equal(t, "Alice", alice.Name)
	assert.False(t, alice.NewPlayer)
	assert.Greater(t, alice.MuAfter, alice.MuBefore)
	assert.Less(t, alice.SigmaAfter, alice.SigmaBefore)
	assert.InDelta(t, alice.MuAfter-3*alice.SigmaAfter, alice.ConservativeAfter, 1e-9)

	rows, err := repo.GetParticipations(context.Background(), nil, res.TournamentID)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.True(t, row.HasSnapshot())
		require.NotNil(t, row.MissedBefore)
		require.NotNil(t, row.RankedBefore)
	}

	assert.Equal(t, 4, res.Tiers.Total)
	assert.Contains(t, repo.Trace(), "AcquireWriteLock")
	assert.Equal(t, []string{TopicTournamentSubmitted}, pub.Topics())
}

func TestSubmitTournament_SingleRatedParticipantKeepsBelief(t *testing.T) {
	repo := NewFakeRatingRepo()
	svc, _ := newTestService(repo)

	res, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{
		Date: day(10, 1),
		Scores: []ScoreLine{
			{Name: "Solo", Score: 10},
			{Name: "Guest", Score: 20, ExcludedFromRating: true},
		},
	})
	require.NoError(t, err)
	for _, p := range res.Participants {
		assert.Equal(t, p.MuBefore, p.MuAfter)
		assert.Equal(t, p.SigmaBefore, p.SigmaAfter)
	}
}

func TestSubmitTournament_Absentees(t *testing.T) {
	repo := NewFakeRatingRepo()
	seed(repo, "A", 55, 3, 0, true)
	seed(repo, "B", 50, 3, 0, true)
	ghost := seed(repo, "Ghost", 45, 2, 3, true)
	fading := seed(repo, "Fading", 40, 5, 9, true)
	capped := seed(repo, "Capped", 40, 8.333, 5, true)
	late := repo.seedPlayer(ratingdb.Player{Name: "Late", Mu: 50, Sigma: 8.333, IsRanked: true, CreatedAt: testNow.Add(time.Hour)})
	svc, _ := newTestService(repo)

	res, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{Date: day(10, 1), Scores: scores("A", 100, "B", 90)})
	require.NoError(t, err)

	require.Len(t, res.Ghosts, 2, "Ghost and Fading are penalized")
	assert.Equal(t, ghost.ID, res.Ghosts[0].PlayerID)
	assert.InDelta(t, 2.0, res.Ghosts[0].OldSigma, 1e-12)
	assert.InDelta(t, 2.5, res.Ghosts[0].NewSigma, 1e-12)

	g := repo.player("Ghost")
	assert.Equal(t, 4, g.ConsecutiveMissed)
	assert.InDelta(t, 2.5, g.Sigma, 1e-12)

	f := repo.player("Fading")
	assert.Equal(t, 10, f.ConsecutiveMissed)
	assert.False(t, f.IsRanked)
	assert.Equal(t, ratingdomain.TierU, f.Tier)
	assert.InDelta(t, fading.Sigma+0.5, f.Sigma, 1e-12)

	c := repo.player("Capped")
	assert.Equal(t, capped.Sigma, c.Sigma, "sigma at the cap is not inflated")
	assert.Equal(t, 6, c.ConsecutiveMissed)

	l := repo.player("Late")
	assert.Equal(t, late.ConsecutiveMissed, l.ConsecutiveMissed, "players created later are not absentees")
	assert.Len(t, repo.ghosts, 2)
}

func TestSubmitTournament_LeagueScopesAbsentees(t *testing.T) {
	league := int64(7)
	repo := NewFakeRatingRepo()
	repo.seedPlayer(ratingdb.Player{Name: "In1", Mu: 50, Sigma: 5, IsRanked: true, LeagueID: &league, CreatedAt: seasonAgo})
	repo.seedPlayer(ratingdb.Player{Name: "In2", Mu: 50, Sigma: 5, IsRanked: true, LeagueID: &league, CreatedAt: seasonAgo})
	repo.seedPlayer(ratingdb.Player{Name: "InAbsent", Mu: 50, Sigma: 5, IsRanked: true, LeagueID: &league, CreatedAt: seasonAgo})
	seed(repo, "Outsider", 50, 5, 0, true)
	svc, _ := newTestService(repo)

	_, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{Date: day(10, 1), LeagueID: &league, Scores: scores("In1", 10, "In2", 5)})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.player("InAbsent").ConsecutiveMissed)
	assert.Equal(t, 0, repo.player("Outsider").ConsecutiveMissed)
}

func TestSubmitRevert_RoundTrip(t *testing.T) {
	repo := NewFakeRatingRepo()
	seed(repo, "A", 60, 3, 0, true)
	seed(repo, "B", 50, 3.5, 0, true)
	seed(repo, "C", 45, 2, 3, true)
	seed(repo, "D", 40, 5, 9, true)
	seed(repo, "E", 52, 3, 2, true)
	seed(repo, "F", 47, 4.5, 12, false)
	seed(repo, "G", 58, 1.2, 0, true)
	svc, pub := newTestService(repo)

	_, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{Date: day(9, 1), Scores: scores("A", 150, "G", 140, "B", 120)})
	require.NoError(t, err)

	before := snapshot(repo)

	res, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{
		Date:   day(10, 1),
		Scores: scores("A", 180, "B", 150, "E", 150, "F", 100, "Newbie", 120),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, cmp.Diff(before, snapshot(repo)), "submission should change state")

	undo, err := svc.RevertLastTournament(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.TournamentID, undo.TournamentID)
	assert.True(t, undo.RestoredBeliefs)
	assert.Equal(t, 5, undo.PlayersRestored)

	after := snapshot(repo)
	newbie, ok := after["Newbie"]
	require.True(t, ok, "players are never deleted implicitly")
	assert.Equal(t, beliefState{Mu: 50, Sigma: 8.333, Missed: 0, Ranked: true}, newbie)
	delete(after, "Newbie")

	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("revert did not restore state (-before +after):\n%s", diff)
	}
	assert.Empty(t, repo.ghostsFor(res.TournamentID))
	_, err = repo.GetTournament(context.Background(), nil, res.TournamentID)
	assert.ErrorIs(t, err, ratingdb.ErrNotFound)
	assert.Equal(t, []string{TopicTournamentSubmitted, TopicTournamentSubmitted, TopicTournamentReverted}, pub.Topics())
}

func TestRevertLastTournament_Errors(t *testing.T) {
	t.Run("nothing to revert", func(t *testing.T) {
		svc, _ := newTestService(NewFakeRatingRepo())
		_, err := svc.RevertLastTournament(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		repo := NewFakeRatingRepo()
		a := seed(repo, "A", 50, 5, 0, true)
		b := seed(repo, "B", 50, 5, 0, true)
		tour := &ratingdb.Tournament{Date: day(9, 1), CreatedAt: seasonAgo}
		require.NoError(t, repo.CreateTournament(context.Background(), nil, tour))
		require.NoError(t, repo.InsertParticipations(context.Background(), nil, []*ratingdb.Participation{
			{TournamentID: tour.ID, PlayerID: a.ID, Score: 10, Position: 1, MuAfter: 52, SigmaAfter: 4.8},
			{TournamentID: tour.ID, PlayerID: b.ID, Score: 5, Position: 2, MuAfter: 48, SigmaAfter: 4.8},
		}))
		svc, _ := newTestService(repo)

		_, err := svc.RevertLastTournament(context.Background())
		assert.ErrorIs(t, err, ErrTooOldToRevert)
		assert.Len(t, repo.tournaments, 1)
	})

	t.Run("global reset after the tournament", func(t *testing.T) {
		repo := NewFakeRatingRepo()
		seed(repo, "A", 50, 5, 0, true)
		seed(repo, "B", 50, 5, 0, true)
		svc, _ := newTestService(repo)
		_, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{Date: day(10, 1), Scores: scores("A", 10, "B", 5)})
		require.NoError(t, err)
		_, err = svc.ApplyGlobalReset(context.Background(), 1, day(10, 5))
		require.NoError(t, err)

		_, err = svc.RevertLastTournament(context.Background())
		assert.ErrorIs(t, err, ErrConsistency)
	})
}

func TestRevert_MissedCountFloor(t *testing.T) {
	repo := NewFakeRatingRepo()
	seed(repo, "A", 50, 5, 0, true)
	seed(repo, "B", 50, 5, 0, true)
	absent := seed(repo, "C", 50, 5, 0, true)
	svc, _ := newTestService(repo)

	_, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{Date: day(10, 1), Scores: scores("A", 10, "B", 5)})
	require.NoError(t, err)
	require.Equal(t, 1, repo.player("C").ConsecutiveMissed)

	// Simulate an externally reset streak.
	repo.players[absent.ID].ConsecutiveMissed = 0

	_, err = svc.RevertLastTournament(context.Background())
	require.NoError(t, err)
	for _, p := range repo.players {
		assert.GreaterOrEqual(t, p.ConsecutiveMissed, 0, p.Name)
		assert.GreaterOrEqual(t, p.Sigma, 0.0, p.Name)
	}
	assert.Equal(t, 0, repo.player("C").ConsecutiveMissed)
}

func TestDeleteTournament(t *testing.T) {
	t.Run("older tournament keeps beliefs", func(t *testing.T) {
		repo := NewFakeRatingRepo()
		seed(repo, "A", 55, 3, 0, true)
		seed(repo, "B", 50, 3, 0, true)
		seed(repo, "C", 45, 2, 3, true)
		svc, pub := newTestService(repo)

		first, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{Date: day(10, 1), Scores: scores("A", 10, "B", 5)})
		require.NoError(t, err)
		_, err = svc.SubmitTournament(context.Background(), SubmitTournamentRequest{Date: day(10, 2), Scores: scores("A", 10, "B", 5)})
		require.NoError(t, err)
		require.Equal(t, 5, repo.player("C").ConsecutiveMissed)

		beforeA := repo.player("A")
		undo, err := svc.DeleteTournament(context.Background(), first.TournamentID)
		require.NoError(t, err)

		assert.False(t, undo.RestoredBeliefs)
		assert.Equal(t, 1, undo.GhostsReverted)
		a := repo.player("A")
		assert.Equal(t, beforeA.Mu, a.Mu)
		assert.Equal(t, beforeA.Sigma, a.Sigma)

		c := repo.player("C")
		assert.Equal(t, 4, c.ConsecutiveMissed)
		assert.InDelta(t, 2.0, c.Sigma, 1e-12, "old_sigma of the deleted tournament's ghost entry is restored")
		assert.Empty(t, repo.ghostsFor(first.TournamentID))
		assert.Len(t, repo.tournaments, 1)
		assert.Contains(t, pub.Topics(), TopicTournamentDeleted)
	})

	t.Run("latest tournament behaves like revert", func(t *testing.T) {
		repo := NewFakeRatingRepo()
		seed(repo, "A", 55, 3, 0, true)
		seed(repo, "B", 50, 3, 0, true)
		svc, _ := newTestService(repo)
		before := snapshot(repo)

		res, err := svc.SubmitTournament(context.Background(), SubmitTournamentRequest{Date: day(10, 1), Scores: scores("A", 10, "B", 5)})
		require.NoError(t, err)
		undo, err := svc.DeleteTournament(context.Background(), res.TournamentID)
		require.NoError(t, err)

		assert.True(t, undo.RestoredBeliefs)
		assert.Empty(t, cmp.Diff(before, snapshot(repo)))
	})

	t.Run("unknown tournament", func(t *testing.T) {
		svc, _ := newTestService(NewFakeRatingRepo())
		_, err := svc.DeleteTournament(context.Background(), 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGlobalReset(t *testing.T) {
	t.Run("invalid value", func(t *testing.T) {
		svc, _ := newTestService(NewFakeRatingRepo())
		for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			_, err := svc.ApplyGlobalReset(context.Background(), v, day(10, 1))
			assert.ErrorIs(t, err, ErrValidation)
		}
	})

	t.Run("apply then revert restores sigma", func(t *testing.T) {
		repo := NewFakeRatingRepo()
		seed(repo, "A", 55, 3, 0, true)
		seed(repo, "B", 50, 3.9, 0, true)
		seed(repo, "C", 48, 2.2, 0, true)
		svc, pub := newTestService(repo)
		before := snapshot(repo)

		applied, err := svc.ApplyGlobalReset(context.Background(), 1.5, day(10, 15))
		require.NoError(t, err)
		assert.Equal(t, 3, applied.PlayersAffected)
		assert.InDelta(t, 4.5, repo.player("A").Sigma, 1e-12)
		assert.Equal(t, ratingdomain.TierU, repo.player("B").Tier, "sigma above the threshold is unclassified")

		reverted, err := svc.RevertGlobalReset(context.Background())
		require.NoError(t, err)
		assert.Equal(t, applied.ResetID, reverted.ResetID)
		assert.Empty(t, cmp.Diff(before, snapshot(repo)))

		_, err = svc.RevertGlobalReset(context.Background())
		assert.ErrorIs(t, err, ErrConflict, "no active reset left")
		assert.Equal(t, []string{TopicGlobalResetApplied, TopicGlobalResetReverted}, pub.Topics())
	})
}

func TestGlobalReset_StackedRevertInApplicationOrder(t *testing.T) {
	repo := NewFakeRatingRepo()
	seed(repo, "A", 55, 3, 0, true)
	seed(repo, "B", 50, 2, 0, true)
	svc, _ := newTestService(repo)
	ctx := context.Background()
	before := snapshot(repo)

	first, err := svc.ApplyGlobalReset(ctx, 1, day(10, 20))
	require.NoError(t, err)
	second, err := svc.ApplyGlobalReset(ctx, 2, day(10, 15))
	require.NoError(t, err)
	assert.InDelta(t, 6, repo.player("A").Sigma, 1e-12)

	_, err = svc.SubmitTournament(ctx, SubmitTournamentRequest{Date: day(10, 17), Scores: scores("A", 10, "B", 5)})
	assert.ErrorIs(t, err, ErrConsistency, "dated after the earlier-dated reset")

	reverted, err := svc.RevertGlobalReset(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ResetID, reverted.ResetID)
	assert.InDelta(t, 4, repo.player("A").Sigma, 1e-12)

	reverted, err = svc.RevertGlobalReset(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ResetID, reverted.ResetID)
	assert.Empty(t, cmp.Diff(before, snapshot(repo)))

	_, err = svc.RevertGlobalReset(ctx)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOrderingGuards(t *testing.T) {
	repo := NewFakeRatingRepo()
	seed(repo, "A", 55, 3, 0, true)
	seed(repo, "B", 50, 3, 0, true)
	svc, _ := newTestService(repo)
	ctx := context.Background()
	game := func(d time.Time) SubmitTournamentRequest {
		return SubmitTournamentRequest{Date: d, Scores: scores("A", 10, "B", 5)}
	}

	_, err := svc.SubmitTournament(ctx, game(day(10, 10)))
	require.NoError(t, err)

	_, err = svc.SubmitTournament(ctx, game(day(10, 9)))
	assert.ErrorIs(t, err, ErrValidation)

	for _, d := range []time.Time{day(10, 5), day(10, 10)} {
		_, err = svc.ApplyGlobalReset(ctx, 1, d)
		assert.ErrorIs(t, err, ErrConflict, d.String())
	}
	_, err = svc.ApplyGlobalReset(ctx, 1, day(10, 12))
	require.NoError(t, err)

	_, err = svc.RevertLastTournament(ctx)
	assert.ErrorIs(t, err, ErrConsistency, "the reset was applied after the tournament")

	for _, d := range []time.Time{day(10, 12), day(10, 13)} {
		_, err = svc.SubmitTournament(ctx, game(d))
		assert.ErrorIs(t, err, ErrConsistency, d.String())
	}

	_, err = svc.SubmitTournament(ctx, game(day(10, 11)))
	require.NoError(t, err)

	_, err = svc.RevertGlobalReset(ctx)
	assert.ErrorIs(t, err, ErrConflict, "a tournament was processed since the reset")

	_, err = svc.RevertLastTournament(ctx)
	require.NoError(t, err)
	_, err = svc.RevertGlobalReset(ctx)
	require.NoError(t, err)

	_, err = svc.SubmitTournament(ctx, game(day(10, 12)))
	require.NoError(t, err, "the reset no longer blocks its date")

	_, err = svc.RevertLastTournament(ctx)
	require.NoError(t, err)
	_, err = svc.RevertLastTournament(ctx)
	require.NoError(t, err)
	assert.Empty(t, repo.tournaments)
}

func TestGetTierDistribution(t *testing.T) {
	repo := NewFakeRatingRepo()
	for name, tier := range map[string]ratingdomain.Tier{"a": ratingdomain.TierS, "b": ratingdomain.TierA, "c": ratingdomain.TierA, "d": ratingdomain.TierU} {
		repo.seedPlayer(ratingdb.Player{Name: name, Mu: 50, Sigma: 3, Tier: tier, IsRanked: true})
	}
	svc, _ := newTestService(repo)

	dist, err := svc.GetTierDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[ratingdomain.Tier]int{
		ratingdomain.TierS: 1, ratingdomain.TierA: 2, ratingdomain.TierB: 0, ratingdomain.TierC: 0, ratingdomain.TierU: 1,
	}, dist.Counts)
	assert.Equal(t, 4, dist.Total)
}

func (f *FakeRatingRepo) ghostsFor(tournamentID int64) []*ratingdb.GhostLogEntry {
	entries, _ := f.GetGhostLog(context.Background(), nil, tournamentID)
	return entries
}
