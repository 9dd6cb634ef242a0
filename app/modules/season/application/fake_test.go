package seasonservice

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	seasondb "github.com/smk-league/smk-rating/app/modules/season/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Season Repo
// ------------------------

type fakeMatch struct {
	row      seasondb.MatchRow
	leagueID *int64
}

type fakeMember struct {
	leagueID  *int64
	mu, sigma float64
}

// FakeSeasonRepo keeps every table in memory. The XxxFunc hooks override a
// method, typically to inject an error.
type FakeSeasonRepo struct {
	seasons   map[int64]*seasondb.Season
	matches   []fakeMatch
	leagues   []*seasondb.League
	members   map[int64]*fakeMember
	grants    map[int64][]*seasondb.AwardGrant
	movements map[int64][]*seasondb.LeagueMovement
	names     map[int64]string
	nextID    int64

	ReplaceAwardGrantsFunc func(ctx context.Context, db bun.IDB, seasonID int64, grants []*seasondb.AwardGrant) error
}

func NewFakeSeasonRepo() *FakeSeasonRepo {
	return &FakeSeasonRepo{
		seasons:   map[int64]*seasondb.Season{},
		members:   map[int64]*fakeMember{},
		grants:    map[int64][]*seasondb.AwardGrant{},
		movements: map[int64][]*seasondb.LeagueMovement{},
		names:     map[int64]string{},
	}
}

func (f *FakeSeasonRepo) id() int64 {
	f.nextID++
	return f.nextID
}

// addMatch stores one participation of a tournament played on date.
func (f *FakeSeasonRepo) addMatch(tournamentID int64, date time.Time, leagueID *int64, playerID int64, name string, score, position int, sigma float64) {
	f.names[playerID] = name
	f.matches = append(f.matches, fakeMatch{
		row: seasondb.MatchRow{
			TournamentID:      tournamentID,
			Date:              date,
			PlayerID:          playerID,
			PlayerName:        name,
			Score:             score,
			Position:          position,
			SigmaAfter:        sigma,
			ConservativeAfter: 50 - 3*sigma,
		},
		leagueID: leagueID,
	})
}

func (f *FakeSeasonRepo) addLeague(id int64, niveau int) {
	f.leagues = append(f.leagues, &seasondb.League{ID: id, Name: "League " + string(rune('A'+niveau)), Niveau: niveau})
}

func (f *FakeSeasonRepo) addMember(playerID, leagueID int64, mu, sigma float64) {
	l := leagueID
	f.members[playerID] = &fakeMember{leagueID: &l, mu: mu, sigma: sigma}
}

func (f *FakeSeasonRepo) leagueOf(playerID int64) int64 {
	m, ok := f.members[playerID]
	if !ok || m.leagueID == nil {
		return 0
	}
	return *m.leagueID
}

func (f *FakeSeasonRepo) AcquireWriteLock(ctx context.Context, db bun.IDB) error { return nil }

func (f *FakeSeasonRepo) CreateSeason(ctx context.Context, db bun.IDB, season *seasondb.Season) error {
	for _, s := range f.seasons {
		if s.Slug == season.Slug {
			return seasondb.ErrDuplicateSlug
		}
	}
	season.ID = f.id()
	c := *season
	f.seasons[season.ID] = &c
	return nil
}

func (f *FakeSeasonRepo) GetSeasonBySlug(ctx context.Context, db bun.IDB, slug string) (*seasondb.Season, error) {
	for _, s := range f.seasons {
		if s.Slug == slug {
			c := *s
			return &c, nil
		}
	}
	return nil, seasondb.ErrNotFound
}

func (f *FakeSeasonRepo) ListSeasons(ctx context.Context, db bun.IDB) ([]*seasondb.Season, error) {
	var out []*seasondb.Season
	for _, s := range f.seasons {
		c := *s
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *seasondb.Season) int {
		if c := b.DateDebut.Compare(a.DateDebut); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (f *FakeSeasonRepo) SlugExists(ctx context.Context, db bun.IDB, slug string) (bool, error) {
	_, err := f.GetSeasonBySlug(ctx, db, slug)
	return err == nil, nil
}

func (f *FakeSeasonRepo) MarkSeasonPublished(ctx context.Context, db bun.IDB, seasonID int64, at time.Time) error {
	s, ok := f.seasons[seasonID]
	if !ok {
		return seasondb.ErrNotFound
	}
	s.IsPublished = true
	s.PublishedAt = &at
	return nil
}

func (f *FakeSeasonRepo) ListMatches(ctx context.Context, db bun.IDB, start, end time.Time, leagueID *int64, noLeague bool) ([]seasondb.MatchRow, error) {
	var out []seasondb.MatchRow
	for _, m := range f.matches {
		if m.row.Date.Before(start) || m.row.Date.After(end) {
			continue
		}
		switch {
		case leagueID != nil && (m.leagueID == nil || *m.leagueID != *leagueID):
			continue
		case noLeague && m.leagueID != nil:
			continue
		}
		out = append(out, m.row)
	}
	return out, nil
}

func (f *FakeSeasonRepo) ListLeagues(ctx context.Context, db bun.IDB) ([]*seasondb.League, error) {
	out := slices.Clone(f.leagues)
	slices.SortFunc(out, func(a, b *seasondb.League) int { return cmp.Compare(a.Niveau, b.Niveau) })
	return out, nil
}

func (f *FakeSeasonRepo) ListLeagueMembers(ctx context.Context, db bun.IDB) ([]seasondb.MemberRow, error) {
	var out []seasondb.MemberRow
	for id, m := range f.members {
		if m.leagueID == nil {
			continue
		}
		out = append(out, seasondb.MemberRow{PlayerID: id, LeagueID: *m.leagueID, Mu: m.mu, Sigma: m.sigma})
	}
	slices.SortFunc(out, func(a, b seasondb.MemberRow) int { return cmp.Compare(a.PlayerID, b.PlayerID) })
	return out, nil
}

func (f *FakeSeasonRepo) SetPlayerLeague(ctx context.Context, db bun.IDB, playerID, leagueID int64) error {
	m, ok := f.members[playerID]
	if !ok {
		return seasondb.ErrNotFound
	}
	l := leagueID
	m.leagueID = &l
	return nil
}

func (f *FakeSeasonRepo) ListAwardTypes(ctx context.Context, db bun.IDB) ([]*seasondb.AwardType, error) {
	return nil, nil
}

func (f *FakeSeasonRepo) ReplaceAwardGrants(ctx context.Context, db bun.IDB, seasonID int64, grants []*seasondb.AwardGrant) error {
	if f.ReplaceAwardGrantsFunc != nil {
		return f.ReplaceAwardGrantsFunc(ctx, db, seasonID, grants)
	}
	f.grants[seasonID] = slices.Clone(grants)
	return nil
}

func (f *FakeSeasonRepo) ListSeasonAwards(ctx context.Context, db bun.IDB, seasonID int64) ([]seasondb.SeasonAwardRow, error) {
	var out []seasondb.SeasonAwardRow
	for _, g := range f.grants[seasonID] {
		out = append(out, seasondb.SeasonAwardRow{
			Code:       g.AwardCode,
			Name:       g.AwardCode,
			Rank:       g.Rank,
			PlayerID:   g.PlayerID,
			PlayerName: f.names[g.PlayerID],
			Value:      g.Value,
		})
	}
	return out, nil
}

func (f *FakeSeasonRepo) ListLeagueMovements(ctx context.Context, db bun.IDB, seasonID int64) ([]*seasondb.LeagueMovement, error) {
	return slices.Clone(f.movements[seasonID]), nil
}

func (f *FakeSeasonRepo) ReplaceLeagueMovements(ctx context.Context, db bun.IDB, seasonID int64, movements []*seasondb.LeagueMovement) error {
	f.movements[seasonID] = slices.Clone(movements)
	return nil
}

var _ seasondb.Repository = (*FakeSeasonRepo)(nil)

// ------------------------
// Fake Store, Clock and Publisher
// ------------------------

type FakeStore struct {
	entries map[string]string
}

func NewFakeStore() *FakeStore {
	return &FakeStore{entries: map[string]string{}}
}

func (f *FakeStore) Load(ctx context.Context, db bun.IDB) (tunables.Configuration, error) {
	return tunables.FromEntries(f.entries)
}

func (f *FakeStore) Set(ctx context.Context, db bun.IDB, key, value string) error {
	if err := tunables.Validate(key, value); err != nil {
		return err
	}
	f.entries[key] = value
	return nil
}

var _ tunables.Store = (*FakeStore)(nil)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type FakePublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

func (p *FakePublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.topics)
}
