package ratingdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func (r *Impl) InsertGhostLog(ctx context.Context, db bun.IDB, entries []*GhostLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&entries).Exec(ctx); err != nil {
		return fmt.Errorf("ratingdb.InsertGhostLog: %w", err)
	}
	return nil
}

func (r *Impl) GetGhostLog(ctx context.Context, db bun.IDB, tournamentID int64) ([]*GhostLogEntry, error) {
	db = r.resolveDB(db)
	var entries []*GhostLogEntry
	err := db.NewSelect().
		Model(&entries).
		Where("gl.tournament_id = ?", tournamentID).
		Order("gl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ratingdb.GetGhostLog: %w", err)
	}
	return entries, nil
}

func (r *Impl) DeleteGhostLog(ctx context.Context, db bun.IDB, tournamentID int64) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().Model((*GhostLogEntry)(nil)).Where("tournament_id = ?", tournamentID).Exec(ctx); err != nil {
		return fmt.Errorf("ratingdb.DeleteGhostLog: %w", err)
	}
	return nil
}
