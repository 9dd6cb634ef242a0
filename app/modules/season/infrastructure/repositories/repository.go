package seasondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// writeLockKey is shared with the rating repository: publishing moves
// players between leagues and must not interleave with a submission.
const writeLockKey = "smk-rating:write"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new season repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) AcquireWriteLock(ctx context.Context, db bun.IDB) error {
	db = r.resolveDB(db)
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", writeLockKey).Exec(ctx); err != nil {
		return fmt.Errorf("seasondb.AcquireWriteLock: %w", err)
	}
	return nil
}

func (r *Impl) CreateSeason(ctx context.Context, db bun.IDB, season *Season) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(season).Returning("id, created_at").Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("seasondb.CreateSeason: %w", err)
	}
	return nil
}

func (r *Impl) GetSeasonBySlug(ctx context.Context, db bun.IDB, slug string) (*Season, error) {
	db = r.resolveDB(db)
	season := new(Season)
	if err := db.NewSelect().Model(season).Where("s.slug = ?", slug).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("seasondb.GetSeasonBySlug: %w", err)
	}
	return season, nil
}

func (r *Impl) ListSeasons(ctx context.Context, db bun.IDB) ([]*Season, error) {
	db = r.resolveDB(db)
	var seasons []*Season
	if err := db.NewSelect().Model(&seasons).OrderExpr("s.date_debut DESC, s.id DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("seasondb.ListSeasons: %w", err)
	}
	return seasons, nil
}

func (r *Impl) SlugExists(ctx context.Context, db bun.IDB, slug string) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().Model((*Season)(nil)).Where("s.slug = ?", slug).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("seasondb.SlugExists: %w", err)
	}
	return exists, nil
}

func (r *Impl) MarkSeasonPublished(ctx context.Context, db bun.IDB, seasonID int64, at time.Time) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*Season)(nil)).
		Set("published_at = ?", at).
		Set("is_published = ?", true).
		Where("id = ?", seasonID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seasondb.MarkSeasonPublished: %w", err)
	}
	return nil
}

func (r *Impl) ListMatches(ctx context.Context, db bun.IDB, start, end time.Time, leagueID *int64, noLeague bool) ([]MatchRow, error) {
	db = r.resolveDB(db)
	q := db.NewSelect().
		TableExpr("participations AS pa").
		ColumnExpr("pa.tournament_id, t.date, pa.player_id, p.name AS player_name").
		ColumnExpr("pa.score, pa.position, pa.sigma_after, pa.conservative_score_after").
		Join("JOIN tournaments AS t ON t.id = pa.tournament_id").
		Join("JOIN players AS p ON p.id = pa.player_id").
		Where("t.date BETWEEN ? AND ?", start, end)

	switch {
	case leagueID != nil:
		q = q.Where("t.league_id = ?", *leagueID)
	case noLeague:
		q = q.Where("t.league_id IS NULL")
	}

	var rows []MatchRow
	if err := q.OrderExpr("t.date ASC, t.id ASC, pa.position ASC").Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("seasondb.ListMatches: %w", err)
	}
	return rows, nil
}

func (r *Impl) ListLeagues(ctx context.Context, db bun.IDB) ([]*League, error) {
	db = r.resolveDB(db)
	var leagues []*League
	if err := db.NewSelect().Model(&leagues).Order("niveau").Scan(ctx); err != nil {
		return nil, fmt.Errorf("seasondb.ListLeagues: %w", err)
	}
	return leagues, nil
}

func (r *Impl) ListLeagueMembers(ctx context.Context, db bun.IDB) ([]MemberRow, error) {
	db = r.resolveDB(db)
	var rows []MemberRow
	err := db.NewSelect().
		TableExpr("players AS p").
		ColumnExpr("p.id AS player_id, p.league_id, p.mu, p.sigma").
		Where("p.league_id IS NOT NULL").
		OrderExpr("p.id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("seasondb.ListLeagueMembers: %w", err)
	}
	return rows, nil
}

func (r *Impl) SetPlayerLeague(ctx context.Context, db bun.IDB, playerID, leagueID int64) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Table("players").
		Set("league_id = ?", leagueID).
		Set("updated_at = current_timestamp").
		Where("id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seasondb.SetPlayerLeague: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) ListAwardTypes(ctx context.Context, db bun.IDB) ([]*AwardType, error) {
	db = r.resolveDB(db)
	var types []*AwardType
	if err := db.NewSelect().Model(&types).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("seasondb.ListAwardTypes: %w", err)
	}
	return types, nil
}

func (r *Impl) ReplaceAwardGrants(ctx context.Context, db bun.IDB, seasonID int64, grants []*AwardGrant) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().Model((*AwardGrant)(nil)).Where("season_id = ?", seasonID).Exec(ctx); err != nil {
		return fmt.Errorf("seasondb.ReplaceAwardGrants: delete: %w", err)
	}
	if len(grants) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&grants).Exec(ctx); err != nil {
		return fmt.Errorf("seasondb.ReplaceAwardGrants: insert: %w", err)
	}
	return nil
}

func (r *Impl) ListSeasonAwards(ctx context.Context, db bun.IDB, seasonID int64) ([]SeasonAwardRow, error) {
	db = r.resolveDB(db)
	var rows []SeasonAwardRow
	err := db.NewSelect().
		TableExpr("award_grants AS ag").
		ColumnExpr("at.code, at.name, at.icon, at.description, ag.rank").
		ColumnExpr("ag.player_id, p.name AS player_name, ag.value").
		Join("JOIN award_types AS at ON at.code = ag.award_code").
		Join("JOIN players AS p ON p.id = ag.player_id").
		Where("ag.season_id = ?", seasonID).
		OrderExpr("at.id ASC, ag.rank ASC, p.name ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("seasondb.ListSeasonAwards: %w", err)
	}
	return rows, nil
}

func (r *Impl) ListLeagueMovements(ctx context.Context, db bun.IDB, seasonID int64) ([]*LeagueMovement, error) {
	db = r.resolveDB(db)
	var movements []*LeagueMovement
	err := db.NewSelect().Model(&movements).Where("lm.season_id = ?", seasonID).OrderExpr("lm.id").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("seasondb.ListLeagueMovements: %w", err)
	}
	return movements, nil
}

func (r *Impl) ReplaceLeagueMovements(ctx context.Context, db bun.IDB, seasonID int64, movements []*LeagueMovement) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().Model((*LeagueMovement)(nil)).Where("season_id = ?", seasonID).Exec(ctx); err != nil {
		return fmt.Errorf("seasondb.ReplaceLeagueMovements: delete: %w", err)
	}
	if len(movements) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&movements).Exec(ctx); err != nil {
		return fmt.Errorf("seasondb.ReplaceLeagueMovements: insert: %w", err)
	}
	return nil
}
