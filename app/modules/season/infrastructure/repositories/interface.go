package seasondb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for season persistence.
type Repository interface {
	// AcquireWriteLock takes the advisory lock shared with the rating engine.
	AcquireWriteLock(ctx context.Context, db bun.IDB) error

	CreateSeason(ctx context.Context, db bun.IDB, season *Season) error
	GetSeasonBySlug(ctx context.Context, db bun.IDB, slug string) (*Season, error)
	ListSeasons(ctx context.Context, db bun.IDB) ([]*Season, error)
	SlugExists(ctx context.Context, db bun.IDB, slug string) (bool, error)
	MarkSeasonPublished(ctx context.Context, db bun.IDB, seasonID int64, at time.Time) error

	// ListMatches returns participations dated within [start, end]. leagueID
	// filters tournaments of one league; noLeague keeps tournaments without one.
	ListMatches(ctx context.Context, db bun.IDB, start, end time.Time, leagueID *int64, noLeague bool) ([]MatchRow, error)

	ListLeagues(ctx context.Context, db bun.IDB) ([]*League, error)
	ListLeagueMembers(ctx context.Context, db bun.IDB) ([]MemberRow, error)
	SetPlayerLeague(ctx context.Context, db bun.IDB, playerID, leagueID int64) error

	ListAwardTypes(ctx context.Context, db bun.IDB) ([]*AwardType, error)
	ReplaceAwardGrants(ctx context.Context, db bun.IDB, seasonID int64, grants []*AwardGrant) error
	ListSeasonAwards(ctx context.Context, db bun.IDB, seasonID int64) ([]SeasonAwardRow, error)

	ListLeagueMovements(ctx context.Context, db bun.IDB, seasonID int64) ([]*LeagueMovement, error)
	ReplaceLeagueMovements(ctx context.Context, db bun.IDB, seasonID int64, movements []*LeagueMovement) error
}
