package ratingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

func (r *Impl) GetPlayerByName(ctx context.Context, db bun.IDB, name string) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("p.name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ratingdb.GetPlayerByName: %w", err)
	}
	return player, nil
}

func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB) ([]*Player, error) {
	db = r.resolveDB(db)
	var players []*Player
	if err := db.NewSelect().Model(&players).Order("p.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("ratingdb.ListPlayers: %w", err)
	}
	return players, nil
}

func (r *Impl) ListClassement(ctx context.Context, db bun.IDB, tier *ratingdomain.Tier) ([]*Player, error) {
	db = r.resolveDB(db)
	var players []*Player
	q := db.NewSelect().
		Model(&players).
		OrderExpr("(p.mu - 3 * p.sigma) DESC, p.name ASC")
	if tier != nil {
		q = q.Where("p.tier = ?", *tier)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("ratingdb.ListClassement: %w", err)
	}
	return players, nil
}

func (r *Impl) CreatePlayer(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(player).Returning("id").Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrDuplicateName
		}
		return fmt.Errorf("ratingdb.CreatePlayer: %w", err)
	}
	return nil
}

func (r *Impl) UpdatePlayers(ctx context.Context, db bun.IDB, players []*Player) error {
	if len(players) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for _, p := range players {
		p.UpdatedAt = now
	}

	_, err := db.NewInsert().
		Model(&players).
		On("CONFLICT (id) DO UPDATE").
		Set("mu = EXCLUDED.mu").
		Set("sigma = EXCLUDED.sigma").
		Set("tier = EXCLUDED.tier").
		Set("is_ranked = EXCLUDED.is_ranked").
		Set("consecutive_missed = EXCLUDED.consecutive_missed").
		Set("league_id = EXCLUDED.league_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ratingdb.UpdatePlayers: %w", err)
	}
	return nil
}
