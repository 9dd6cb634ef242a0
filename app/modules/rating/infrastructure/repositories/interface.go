package ratingdb

import (
	"context"
	"time"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for rating persistence. Every method takes
// the bun.IDB to run on so the service owns the transaction.
type Repository interface {
	// AcquireWriteLock serializes rating mutations. Must be called within a transaction.
	AcquireWriteLock(ctx context.Context, db bun.IDB) error

	// GetPlayerByName retrieves a player by exact name.
	GetPlayerByName(ctx context.Context, db bun.IDB, name string) (*Player, error)

	// ListPlayers returns every player ordered by id.
	ListPlayers(ctx context.Context, db bun.IDB) ([]*Player, error)

	// ListClassement returns players by descending conservative score, optionally for one tier.
	ListClassement(ctx context.Context, db bun.IDB, tier *ratingdomain.Tier) ([]*Player, error)

	// CreatePlayer inserts a player and fills its id.
	CreatePlayer(ctx context.Context, db bun.IDB, player *Player) error

	// UpdatePlayers writes belief, tier and absence state for the given players.
	UpdatePlayers(ctx context.Context, db bun.IDB, players []*Player) error

	// CreateTournament inserts a tournament and fills its id.
	CreateTournament(ctx context.Context, db bun.IDB, tournament *Tournament) error

	// GetTournament retrieves a tournament by id.
	GetTournament(ctx context.Context, db bun.IDB, id int64) (*Tournament, error)

	// GetLatestTournament returns the most recently processed tournament.
	GetLatestTournament(ctx context.Context, db bun.IDB) (*Tournament, error)

	// ListTournaments returns every tournament with its size and winner, newest first.
	ListTournaments(ctx context.Context, db bun.IDB) ([]TournamentSummary, error)

	// CountTournamentsSince counts tournaments dated on or after date.
	CountTournamentsSince(ctx context.Context, db bun.IDB, date time.Time) (int, error)

	// DeleteTournament removes a tournament row.
	DeleteTournament(ctx context.Context, db bun.IDB, id int64) error

	// InsertParticipations bulk inserts participation rows.
	InsertParticipations(ctx context.Context, db bun.IDB, rows []*Participation) error

	// GetParticipations returns a tournament's rows with their players, by position.
	GetParticipations(ctx context.Context, db bun.IDB, tournamentID int64) ([]*Participation, error)

	// DeleteParticipations removes a tournament's rows.
	DeleteParticipations(ctx context.Context, db bun.IDB, tournamentID int64) error

	// GetPlayerHistory returns a player's tournaments, newest first.
	GetPlayerHistory(ctx context.Context, db bun.IDB, playerID int64) ([]PlayerHistoryEntry, error)

	// InsertGhostLog bulk inserts absence penalties.
	InsertGhostLog(ctx context.Context, db bun.IDB, entries []*GhostLogEntry) error

	// GetGhostLog returns the penalties triggered by a tournament.
	GetGhostLog(ctx context.Context, db bun.IDB, tournamentID int64) ([]*GhostLogEntry, error)

	// DeleteGhostLog removes the penalties triggered by a tournament.
	DeleteGhostLog(ctx context.Context, db bun.IDB, tournamentID int64) error

	// GetActiveGlobalReset returns the most recently applied reset that has not been reverted.
	GetActiveGlobalReset(ctx context.Context, db bun.IDB) (*GlobalReset, error)

	// ListActiveGlobalResets returns every unreverted reset, most recently applied first.
	ListActiveGlobalResets(ctx context.Context, db bun.IDB) ([]*GlobalReset, error)

	// CreateGlobalReset inserts a reset and its per-player log.
	CreateGlobalReset(ctx context.Context, db bun.IDB, reset *GlobalReset, entries []*GlobalResetLogEntry) error

	// GetGlobalResetLog returns the per-player log of a reset.
	GetGlobalResetLog(ctx context.Context, db bun.IDB, resetID int64) ([]*GlobalResetLogEntry, error)

	// MarkGlobalResetReverted stamps a reset as reverted.
	MarkGlobalResetReverted(ctx context.Context, db bun.IDB, resetID int64, at time.Time) error
}
