package ratingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

func (r *Impl) GetActiveGlobalReset(ctx context.Context, db bun.IDB) (*GlobalReset, error) {
	db = r.resolveDB(db)
	reset := new(GlobalReset)
	err := db.NewSelect().
		Model(reset).
		Where("gr.reverted_at IS NULL").
		OrderExpr("gr.id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ratingdb.GetActiveGlobalReset: %w", err)
	}
	return reset, nil
}

func (r *Impl) ListActiveGlobalResets(ctx context.Context, db bun.IDB) ([]*GlobalReset, error) {
	db = r.resolveDB(db)
	var resets []*GlobalReset
	err := db.NewSelect().
		Model(&resets).
		Where("gr.reverted_at IS NULL").
		OrderExpr("gr.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ratingdb.ListActiveGlobalResets: %w", err)
	}
	return resets, nil
}

func (r *Impl) CreateGlobalReset(ctx context.Context, db bun.IDB, reset *GlobalReset, entries []*GlobalResetLogEntry) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(reset).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("ratingdb.CreateGlobalReset: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		e.ResetID = reset.ID
	}
	if _, err := db.NewInsert().Model(&entries).Exec(ctx); err != nil {
		return fmt.Errorf("ratingdb.CreateGlobalReset: log: %w", err)
	}
	return nil
}

func (r *Impl) GetGlobalResetLog(ctx context.Context, db bun.IDB, resetID int64) ([]*GlobalResetLogEntry, error) {
	db = r.resolveDB(db)
	var entries []*GlobalResetLogEntry
	err := db.NewSelect().
		Model(&entries).
		Where("grl.reset_id = ?", resetID).
		Order("grl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ratingdb.GetGlobalResetLog: %w", err)
	}
	return entries, nil
}

func (r *Impl) MarkGlobalResetReverted(ctx context.Context, db bun.IDB, resetID int64, at time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*GlobalReset)(nil)).
		Set("reverted_at = ?", at).
		Where("id = ?", resetID).
		Where("reverted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ratingdb.MarkGlobalResetReverted: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ratingdb.MarkGlobalResetReverted: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
