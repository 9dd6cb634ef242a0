package tunables

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Entry is one stored configuration row.
type Entry struct {
	bun.BaseModel `bun:"table:configuration,alias:cfg"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Store reads and writes the configuration table.
type Store interface {
	// Load parses every stored row on top of the defaults.
	Load(ctx context.Context, db bun.IDB) (Configuration, error)

	// Set validates and upserts a single key.
	Set(ctx context.Context, db bun.IDB, key, value string) error
}

// Impl implements Store using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewStore creates a configuration store.
func NewStore(db bun.IDB) Store {
	return &Impl{db: db}
}

func (s *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return s.db
	}
	return db
}

func (s *Impl) Load(ctx context.Context, db bun.IDB) (Configuration, error) {
	db = s.resolveDB(db)
	var rows []Entry
	if err := db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return Configuration{}, fmt.Errorf("tunables.Load: %w", err)
	}
	entries := make(map[string]string, len(rows))
	for _, r := range rows {
		entries[r.Key] = r.Value
	}
	cfg, err := FromEntries(entries)
	if err != nil {
		return Configuration{}, fmt.Errorf("tunables.Load: %w", err)
	}
	return cfg, nil
}

func (s *Impl) Set(ctx context.Context, db bun.IDB, key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}
	db = s.resolveDB(db)
	entry := &Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := db.NewInsert().
		Model(entry).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tunables.Set: %w", err)
	}
	return nil
}
