package ratingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

func (r *Impl) CreateTournament(ctx context.Context, db bun.IDB, tournament *Tournament) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(tournament).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("ratingdb.CreateTournament: %w", err)
	}
	return nil
}

func (r *Impl) GetTournament(ctx context.Context, db bun.IDB, id int64) (*Tournament, error) {
	db = r.resolveDB(db)
	tournament := new(Tournament)
	err := db.NewSelect().Model(tournament).Where("t.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ratingdb.GetTournament: %w", err)
	}
	return tournament, nil
}

func (r *Impl) GetLatestTournament(ctx context.Context, db bun.IDB) (*Tournament, error) {
	db = r.resolveDB(db)
	tournament := new(Tournament)
	err := db.NewSelect().
		Model(tournament).
		OrderExpr("t.date DESC, t.id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ratingdb.GetLatestTournament: %w", err)
	}
	return tournament, nil
}

func (r *Impl) ListTournaments(ctx context.Context, db bun.IDB) ([]TournamentSummary, error) {
	db = r.resolveDB(db)
	var out []TournamentSummary
	err := db.NewSelect().
		TableExpr("tournaments AS t").
		ColumnExpr("t.id, t.date, t.league_id").
		ColumnExpr("COUNT(pa.id) AS player_count").
		ColumnExpr(`(SELECT w.name FROM participations AS wp
			JOIN players AS w ON w.id = wp.player_id
			WHERE wp.tournament_id = t.id
			ORDER BY wp.position ASC, w.name ASC LIMIT 1) AS winner`).
		Join("LEFT JOIN participations AS pa ON pa.tournament_id = t.id").
		GroupExpr("t.id").
		OrderExpr("t.date DESC, t.id DESC").
		Scan(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("ratingdb.ListTournaments: %w", err)
	}
	return out, nil
}

func (r *Impl) CountTournamentsSince(ctx context.Context, db bun.IDB, date time.Time) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().
		Model((*Tournament)(nil)).
		Where("t.date >= ?", date).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("ratingdb.CountTournamentsSince: %w", err)
	}
	return n, nil
}

func (r *Impl) DeleteTournament(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Tournament)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("ratingdb.DeleteTournament: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ratingdb.DeleteTournament: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) InsertParticipations(ctx context.Context, db bun.IDB, rows []*Participation) error {
	if len(rows) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("ratingdb.InsertParticipations: %w", err)
	}
	return nil
}

func (r *Impl) GetParticipations(ctx context.Context, db bun.IDB, tournamentID int64) ([]*Participation, error) {
	db = r.resolveDB(db)
	var rows []*Participation
	err := db.NewSelect().
		Model(&rows).
		Relation("Player").
		Where("pa.tournament_id = ?", tournamentID).
		OrderExpr("pa.position ASC, pa.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ratingdb.GetParticipations: %w", err)
	}
	return rows, nil
}

func (r *Impl) DeleteParticipations(ctx context.Context, db bun.IDB, tournamentID int64) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().Model((*Participation)(nil)).Where("tournament_id = ?", tournamentID).Exec(ctx); err != nil {
		return fmt.Errorf("ratingdb.DeleteParticipations: %w", err)
	}
	return nil
}

func (r *Impl) GetPlayerHistory(ctx context.Context, db bun.IDB, playerID int64) ([]PlayerHistoryEntry, error) {
	db = r.resolveDB(db)
	var out []PlayerHistoryEntry
	err := db.NewSelect().
		TableExpr("participations AS pa").
		Join("JOIN tournaments AS t ON t.id = pa.tournament_id").
		ColumnExpr("pa.tournament_id, t.date, pa.score, pa.position").
		ColumnExpr("pa.mu_after, pa.sigma_after, pa.conservative_score_after").
		Where("pa.player_id = ?", playerID).
		OrderExpr("t.date DESC, t.id DESC").
		Scan(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("ratingdb.GetPlayerHistory: %w", err)
	}
	return out, nil
}
