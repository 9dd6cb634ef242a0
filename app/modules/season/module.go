package season

import (
	"context"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	seasonservice "github.com/smk-league/smk-rating/app/modules/season/application"
	seasonhandlers "github.com/smk-league/smk-rating/app/modules/season/infrastructure/handlers"
	seasondb "github.com/smk-league/smk-rating/app/modules/season/infrastructure/repositories"
	seasonrouter "github.com/smk-league/smk-rating/app/modules/season/infrastructure/router"
	"github.com/smk-league/smk-rating/app/observability"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
)

// Module represents the season module.
type Module struct {
	SeasonService seasonservice.Service
	Repository    seasondb.Repository
}

// NewSeasonModule wires the season service on db and, when httpRouter is not
// nil, mounts its routes.
func NewSeasonModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	store tunables.Store,
	publisher message.Publisher,
	clock seasonservice.Clock,
	httpRouter chi.Router,
	admin func(http.Handler) http.Handler,
) *Module {
	logger := obs.Logger
	logger.InfoContext(ctx, "season.NewSeasonModule called")

	var metrics observability.OperationMetrics = observability.NewNoop()
	if obs.Registry != nil {
		metrics = observability.NewOperationMetrics(obs.Registry, "season")
	}

	repo := seasondb.NewRepository(db)
	service := seasonservice.NewSeasonService(repo, store, publisher, clock, logger, metrics, obs.Tracer, db)

	if httpRouter != nil {
		seasonrouter.Mount(httpRouter, seasonhandlers.NewSeasonHandlers(service, clock, logger), admin)
	}

	return &Module{
		SeasonService: service,
		Repository:    repo,
	}
}
