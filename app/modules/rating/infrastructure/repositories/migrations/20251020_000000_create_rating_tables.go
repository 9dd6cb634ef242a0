package ratingmigrations

import (
	"context"
	"fmt"

	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rating tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := []any{
				(*ratingdb.Player)(nil),
				(*ratingdb.Tournament)(nil),
				(*ratingdb.Participation)(nil),
				(*ratingdb.GhostLogEntry)(nil),
				(*ratingdb.GlobalReset)(nil),
				(*ratingdb.GlobalResetLogEntry)(nil),
				(*tunables.Entry)(nil),
			}
			for _, m := range models {
				if _, err := tx.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", m, err)
				}
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_tournaments_date ON tournaments (date DESC, id DESC)",
				"CREATE UNIQUE INDEX IF NOT EXISTS idx_participations_tournament_player ON participations (tournament_id, player_id)",
				"CREATE INDEX IF NOT EXISTS idx_participations_player ON participations (player_id)",
				"CREATE INDEX IF NOT EXISTS idx_ghost_log_tournament ON ghost_log (tournament_id)",
				"CREATE INDEX IF NOT EXISTS idx_global_reset_log_reset ON global_reset_log (reset_id)",
				"CREATE INDEX IF NOT EXISTS idx_players_conservative ON players ((mu - 3 * sigma) DESC)",
			}
			for _, stmt := range indexes {
				if _, err := tx.NewRaw(stmt).Exec(ctx); err != nil {
					return fmt.Errorf("failed to create index: %w", err)
				}
			}

			defaults := tunables.Defaults().Entries()
			rows := make([]tunables.Entry, 0, len(defaults))
			for _, key := range tunables.Keys() {
				rows = append(rows, tunables.Entry{Key: key, Value: defaults[key]})
			}
			if _, err := tx.NewInsert().Model(&rows).On("CONFLICT (key) DO NOTHING").Exec(ctx); err != nil {
				return fmt.Errorf("failed to seed configuration: %w", err)
			}

			fmt.Println("Rating tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping rating tables...")

		models := []any{
			(*tunables.Entry)(nil),
			(*ratingdb.GlobalResetLogEntry)(nil),
			(*ratingdb.GlobalReset)(nil),
			(*ratingdb.GhostLogEntry)(nil),
			(*ratingdb.Participation)(nil),
			(*ratingdb.Tournament)(nil),
			(*ratingdb.Player)(nil),
		}
		for _, m := range models {
			if _, err := db.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Rating tables dropped successfully!")
		return nil
	})
}
