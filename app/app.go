package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/itbasis/go-clock"
	"github.com/smk-league/smk-rating/app/eventbus"
	"github.com/smk-league/smk-rating/app/modules/auth"
	"github.com/smk-league/smk-rating/app/modules/rating"
	"github.com/smk-league/smk-rating/app/modules/season"
	"github.com/smk-league/smk-rating/app/observability"
	"github.com/smk-league/smk-rating/config"
	"github.com/smk-league/smk-rating/db/bundb"
	"github.com/uptrace/bun"
)

// App holds the process-wide dependencies and the mounted modules.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	Publisher     message.Publisher
	Router        chi.Router

	Auth   *auth.Module
	Rating *rating.Module
	Season *season.Module

	server *http.Server
}

// NewApp connects to the database and event transport and wires every module.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.Init(config.ToObsConfig(cfg))
	logger := obs.Logger

	db, err := bundb.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	publisher, err := eventbus.NewPublisher(config.ToEventOptions(cfg), logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		Publisher:     publisher,
	}
	app.initModules(ctx, clock.New())

	logger.InfoContext(ctx, "Application initialized",
		"http_addr", cfg.HTTP.Addr,
		"events_driver", cfg.Events.Driver,
	)
	return app, nil
}

// initModules builds the router and mounts the rating and season modules on it.
func (app *App) initModules(ctx context.Context, clk clock.Clock) {
	app.Auth = auth.NewModule(app.Config, app.Observability.Logger)
	app.Router = newRouter(app.Auth, app.Observability)

	admin := app.Auth.RequireAdmin()
	app.Rating = rating.NewRatingModule(ctx, app.Observability, app.DB, app.Publisher, clk, app.Router, admin)
	app.Season = season.NewSeasonModule(ctx, app.Observability, app.DB, app.Rating.Store, app.Publisher, clk, app.Router, admin)
}
