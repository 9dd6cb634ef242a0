package ratingservice

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Rating Repo
// ------------------------

// FakeRatingRepo keeps every table in memory. Reads hand out copies so that
// only explicit writes change stored state. The XxxFunc hooks override a
// method, typically to inject an error.
type FakeRatingRepo struct {
	trace []string

	players        map[int64]*ratingdb.Player
	tournaments    map[int64]*ratingdb.Tournament
	participations []*ratingdb.Participation
	ghosts         []*ratingdb.GhostLogEntry
	resets         []*ratingdb.GlobalReset
	resetLog       []*ratingdb.GlobalResetLogEntry
	nextID         int64

	UpdatePlayersFunc       func(ctx context.Context, db bun.IDB, players []*ratingdb.Player) error
	GetLatestTournamentFunc func(ctx context.Context, db bun.IDB) (*ratingdb.Tournament, error)
}

func NewFakeRatingRepo() *FakeRatingRepo {
	return &FakeRatingRepo{
		players:     map[int64]*ratingdb.Player{},
		tournaments: map[int64]*ratingdb.Tournament{},
	}
}

func (f *FakeRatingRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRatingRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func clonePlayer(p *ratingdb.Player) *ratingdb.Player {
	c := *p
	return &c
}

// seedPlayer stores a player directly, bypassing the service.
func (f *FakeRatingRepo) seedPlayer(p ratingdb.Player) *ratingdb.Player {
	if p.ID == 0 {
		p.ID = f.id()
	}
	if p.Tier == "" {
		p.Tier = ratingdomain.TierU
	}
	f.players[p.ID] = &p
	return clonePlayer(&p)
}

func (f *FakeRatingRepo) player(name string) *ratingdb.Player {
	for _, p := range f.players {
		if p.Name == name {
			return clonePlayer(p)
		}
	}
	return nil
}

// --- Repository Interface Implementation ---

func (f *FakeRatingRepo) AcquireWriteLock(ctx context.Context, db bun.IDB) error {
	f.record("AcquireWriteLock")
	return nil
}

func (f *FakeRatingRepo) GetPlayerByName(ctx context.Context, db bun.IDB, name string) (*ratingdb.Player, error) {
	f.record("GetPlayerByName")
	if p := f.player(name); p != nil {
		return p, nil
	}
	return nil, ratingdb.ErrNotFound
}

func (f *FakeRatingRepo) ListPlayers(ctx context.Context, db bun.IDB) ([]*ratingdb.Player, error) {
	f.record("ListPlayers")
	out := make([]*ratingdb.Player, 0, len(f.players))
	for _, p := range f.players {
		out = append(out, clonePlayer(p))
	}
	slices.SortFunc(out, func(a, b *ratingdb.Player) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *FakeRatingRepo) ListClassement(ctx context.Context, db bun.IDB, tier *ratingdomain.Tier) ([]*ratingdb.Player, error) {
	f.record("ListClassement")
	all, _ := f.ListPlayers(ctx, db)
	out := all[:0]
	for _, p := range all {
		if tier == nil || p.Tier == *tier {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *ratingdb.Player) int { return cmp.Compare(b.Conservative(), a.Conservative()) })
	return out, nil
}

func (f *FakeRatingRepo) CreatePlayer(ctx context.Context, db bun.IDB, player *ratingdb.Player) error {
	f.record("CreatePlayer")
	if f.player(player.Name) != nil {
		return ratingdb.ErrDuplicateName
	}
	player.ID = f.id()
	f.players[player.ID] = clonePlayer(player)
	return nil
}

func (f *FakeRatingRepo) UpdatePlayers(ctx context.Context, db bun.IDB, players []*ratingdb.Player) error {
	f.record("UpdatePlayers")
	if f.UpdatePlayersFunc != nil {
		return f.UpdatePlayersFunc(ctx, db, players)
	}
	for _, p := range players {
		f.players[p.ID] = clonePlayer(p)
	}
	return nil
}

func (f *FakeRatingRepo) CreateTournament(ctx context.Context, db bun.IDB, tournament *ratingdb.Tournament) error {
	f.record("CreateTournament")
	tournament.ID = f.id()
	c := *tournament
	f.tournaments[c.ID] = &c
	return nil
}

func (f *FakeRatingRepo) GetTournament(ctx context.Context, db bun.IDB, id int64) (*ratingdb.Tournament, error) {
	f.record("GetTournament")
	t, ok := f.tournaments[id]
	if !ok {
		return nil, ratingdb.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (f *FakeRatingRepo) GetLatestTournament(ctx context.Context, db bun.IDB) (*ratingdb.Tournament, error) {
	f.record("GetLatestTournament")
	if f.GetLatestTournamentFunc != nil {
		return f.GetLatestTournamentFunc(ctx, db)
	}
	var latest *ratingdb.Tournament
	for _, t := range f.tournaments {
		if latest == nil || t.Date.After(latest.Date) || (t.Date.Equal(latest.Date) && t.ID > latest.ID) {
			latest = t
		}
	}
	if latest == nil {
		return nil, ratingdb.ErrNotFound
	}
	c := *latest
	return &c, nil
}

func (f *FakeRatingRepo) ListTournaments(ctx context.Context, db bun.IDB) ([]ratingdb.TournamentSummary, error) {
	f.record("ListTournaments")
	var out []ratingdb.TournamentSummary
	for _, t := range f.tournaments {
		sum := ratingdb.TournamentSummary{ID: t.ID, Date: t.Date, LeagueID: t.LeagueID}
		for _, pa := range f.participations {
			if pa.TournamentID != t.ID {
				continue
			}
			sum.PlayerCount++
			if pa.Position == 1 && sum.Winner == "" {
				sum.Winner = f.players[pa.PlayerID].Name
			}
		}
		out = append(out, sum)
	}
	slices.SortFunc(out, func(a, b ratingdb.TournamentSummary) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (f *FakeRatingRepo) CountTournamentsSince(ctx context.Context, db bun.IDB, date time.Time) (int, error) {
	f.record("CountTournamentsSince")
	n := 0
	for _, t := range f.tournaments {
		if !t.Date.Before(date) {
			n++
		}
	}
	return n, nil
}

func (f *FakeRatingRepo) DeleteTournament(ctx context.Context, db bun.IDB, id int64) error {
	f.record("DeleteTournament")
	if _, ok := f.tournaments[id]; !ok {
		return ratingdb.ErrNotFound
	}
	delete(f.tournaments, id)
	return nil
}

func (f *FakeRatingRepo) InsertParticipations(ctx context.Context, db bun.IDB, rows []*ratingdb.Participation) error {
	f.record("InsertParticipations")
	for _, r := range rows {
		r.ID = f.id()
		c := *r
		f.participations = append(f.participations, &c)
	}
	return nil
}

func (f *FakeRatingRepo) GetParticipations(ctx context.Context, db bun.IDB, tournamentID int64) ([]*ratingdb.Participation, error) {
	f.record("GetParticipations")
	var out []*ratingdb.Participation
	for _, pa := range f.participations {
		if pa.TournamentID == tournamentID {
			c := *pa
			c.Player = clonePlayer(f.players[pa.PlayerID])
			out = append(out, &c)
		}
	}
	slices.SortStableFunc(out, func(a, b *ratingdb.Participation) int { return cmp.Compare(a.Position, b.Position) })
	return out, nil
}

func (f *FakeRatingRepo) DeleteParticipations(ctx context.Context, db bun.IDB, tournamentID int64) error {
	f.record("DeleteParticipations")
	f.participations = slices.DeleteFunc(f.participations, func(pa *ratingdb.Participation) bool {
		return pa.TournamentID == tournamentID
	})
	return nil
}

func (f *FakeRatingRepo) GetPlayerHistory(ctx context.Context, db bun.IDB, playerID int64) ([]ratingdb.PlayerHistoryEntry, error) {
	f.record("GetPlayerHistory")
	var out []ratingdb.PlayerHistoryEntry
	for _, pa := range f.participations {
		if pa.PlayerID != playerID {
			continue
		}
		t := f.tournaments[pa.TournamentID]
		out = append(out, ratingdb.PlayerHistoryEntry{
			TournamentID:      t.ID,
			Date:              t.Date,
			Score:             pa.Score,
			Position:          pa.Position,
			MuAfter:           pa.MuAfter,
			SigmaAfter:        pa.SigmaAfter,
			ConservativeAfter: pa.ConservativeAfter,
		})
	}
	slices.SortFunc(out, func(a, b ratingdb.PlayerHistoryEntry) int { return cmp.Compare(b.TournamentID, a.TournamentID) })
	return out, nil
}

func (f *FakeRatingRepo) InsertGhostLog(ctx context.Context, db bun.IDB, entries []*ratingdb.GhostLogEntry) error {
	f.record("InsertGhostLog")
	for _, e := range entries {
		e.ID = f.id()
		c := *e
		f.ghosts = append(f.ghosts, &c)
	}
	return nil
}

func (f *FakeRatingRepo) GetGhostLog(ctx context.Context, db bun.IDB, tournamentID int64) ([]*ratingdb.GhostLogEntry, error) {
	f.record("GetGhostLog")
	var out []*ratingdb.GhostLogEntry
	for _, g := range f.ghosts {
		if g.TournamentID == tournamentID {
			c := *g
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *FakeRatingRepo) DeleteGhostLog(ctx context.Context, db bun.IDB, tournamentID int64) error {
	f.record("DeleteGhostLog")
	f.ghosts = slices.DeleteFunc(f.ghosts, func(g *ratingdb.GhostLogEntry) bool { return g.TournamentID == tournamentID })
	return nil
}

func (f *FakeRatingRepo) GetActiveGlobalReset(ctx context.Context, db bun.IDB) (*ratingdb.GlobalReset, error) {
	f.record("GetActiveGlobalReset")
	active := f.activeResets()
	if len(active) == 0 {
		return nil, ratingdb.ErrNotFound
	}
	return active[0], nil
}

func (f *FakeRatingRepo) ListActiveGlobalResets(ctx context.Context, db bun.IDB) ([]*ratingdb.GlobalReset, error) {
	f.record("ListActiveGlobalResets")
	return f.activeResets(), nil
}

// activeResets copies the unreverted resets by descending id, the order of
// application.
func (f *FakeRatingRepo) activeResets() []*ratingdb.GlobalReset {
	var out []*ratingdb.GlobalReset
	for _, r := range f.resets {
		if r.RevertedAt == nil {
			c := *r
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *ratingdb.GlobalReset) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

func (f *FakeRatingRepo) CreateGlobalReset(ctx context.Context, db bun.IDB, reset *ratingdb.GlobalReset, entries []*ratingdb.GlobalResetLogEntry) error {
	f.record("CreateGlobalReset")
	reset.ID = f.id()
	c := *reset
	f.resets = append(f.resets, &c)
	for _, e := range entries {
		e.ID = f.id()
		e.ResetID = reset.ID
		ec := *e
		f.resetLog = append(f.resetLog, &ec)
	}
	return nil
}

func (f *FakeRatingRepo) GetGlobalResetLog(ctx context.Context, db bun.IDB, resetID int64) ([]*ratingdb.GlobalResetLogEntry, error) {
	f.record("GetGlobalResetLog")
	var out []*ratingdb.GlobalResetLogEntry
	for _, e := range f.resetLog {
		if e.ResetID == resetID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *FakeRatingRepo) MarkGlobalResetReverted(ctx context.Context, db bun.IDB, resetID int64, at time.Time) error {
	f.record("MarkGlobalResetReverted")
	for _, r := range f.resets {
		if r.ID == resetID && r.RevertedAt == nil {
			r.RevertedAt = &at
			return nil
		}
	}
	return ratingdb.ErrNotFound
}

// --- Accessors for assertions ---

func (f *FakeRatingRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ ratingdb.Repository = (*FakeRatingRepo)(nil)

// ------------------------
// Fake Configuration Store
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

// ------------------------
// Fake Clock and Publisher
// ------------------------

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
