package seasonmigrations

import (
	"context"
	"fmt"

	seasondb "github.com/smk-league/smk-rating/app/modules/season/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// awardCatalogue is the static set of award types. Podium codes come in a
// seasonal (moai) and a yearly (super_moai) flavour.
var awardCatalogue = []seasondb.AwardType{
	{Code: "ez", Name: "EZ", Icon: "🏆", Description: "Most tournament wins"},
	{Code: "pas_loin", Name: "Pas loin", Icon: "🥈", Description: "Most second places"},
	{Code: "stakhanov", Name: "Stakhanov", Icon: "⛏️", Description: "Highest size-weighted points"},
	{Code: "stonks", Name: "Stonks", Icon: "📈", Description: "Largest rise in conservative score"},
	{Code: "not_stonks", Name: "Not stonks", Icon: "📉", Description: "Largest fall in conservative score"},
	{Code: "chillguy", Name: "Chill guy", Icon: "😎", Description: "Steadiest conservative score"},
	{Code: "grand_master", Name: "Grand master", Icon: "🧠", Description: "Best performance index"},
	{Code: "moai_1", Name: "Moai d'or", Icon: "🗿", Description: "Season winner"},
	{Code: "moai_2", Name: "Moai d'argent", Icon: "🗿", Description: "Season runner-up"},
	{Code: "moai_3", Name: "Moai de bronze", Icon: "🗿", Description: "Season third place"},
	{Code: "super_moai_1", Name: "Super Moai d'or", Icon: "👑", Description: "Year winner"},
	{Code: "super_moai_2", Name: "Super Moai d'argent", Icon: "👑", Description: "Year runner-up"},
	{Code: "super_moai_3", Name: "Super Moai de bronze", Icon: "👑", Description: "Year third place"},
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating season tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := []any{
				(*seasondb.League)(nil),
				(*seasondb.Season)(nil),
				(*seasondb.AwardType)(nil),
				(*seasondb.AwardGrant)(nil),
				(*seasondb.LeagueMovement)(nil),
			}
			for _, m := range models {
				if _, err := tx.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", m, err)
				}
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_seasons_dates ON seasons (date_debut DESC, id DESC)",
				"CREATE INDEX IF NOT EXISTS idx_award_grants_season ON award_grants (season_id)",
				"CREATE INDEX IF NOT EXISTS idx_league_movements_season ON league_movements (season_id)",
				"CREATE INDEX IF NOT EXISTS idx_players_league ON players (league_id)",
				"CREATE INDEX IF NOT EXISTS idx_tournaments_league ON tournaments (league_id, date)",
			}
			for _, stmt := range indexes {
				if _, err := tx.NewRaw(stmt).Exec(ctx); err != nil {
					return fmt.Errorf("failed to create index: %w", err)
				}
			}

			rows := make([]seasondb.AwardType, len(awardCatalogue))
			copy(rows, awardCatalogue)
			if _, err := tx.NewInsert().Model(&rows).On("CONFLICT (code) DO NOTHING").Exec(ctx); err != nil {
				return fmt.Errorf("failed to seed award types: %w", err)
			}

			fmt.Println("Season tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping season tables...")

		models := []any{
			(*seasondb.LeagueMovement)(nil),
			(*seasondb.AwardGrant)(nil),
			(*seasondb.AwardType)(nil),
			(*seasondb.Season)(nil),
			(*seasondb.League)(nil),
		}
		for _, m := range models {
			if _, err := db.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Season tables dropped successfully!")
		return nil
	})
}
