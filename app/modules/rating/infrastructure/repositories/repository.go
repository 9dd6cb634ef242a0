package ratingdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// writeLockKey names the advisory lock shared by every rating mutation.
const writeLockKey = "smk-rating:write"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new rating repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) AcquireWriteLock(ctx context.Context, db bun.IDB) error {
	db = r.resolveDB(db)
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", writeLockKey).Exec(ctx); err != nil {
		return fmt.Errorf("ratingdb.AcquireWriteLock: %w", err)
	}
	return nil
}
