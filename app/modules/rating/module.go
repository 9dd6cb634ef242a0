package rating

import (
	"context"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	ratingservice "github.com/smk-league/smk-rating/app/modules/rating/application"
	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	ratinghandlers "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/handlers"
	ratingrouter "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/router"
	"github.com/smk-league/smk-rating/app/observability"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
)

// Module represents the rating module.
type Module struct {
	RatingService ratingservice.Service
	Repository    ratingdb.Repository
	Store         tunables.Store
}

// NewRatingModule wires the rating service on db. When httpRouter is not nil
// its routes are mounted behind the given admin guard.
func NewRatingModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	publisher message.Publisher,
	clock ratingservice.Clock,
	httpRouter chi.Router,
	admin func(http.Handler) http.Handler,
) *Module {
	logger := obs.Logger
	logger.InfoContext(ctx, "rating.NewRatingModule called")

	var metrics observability.RatingMetrics = observability.NewNoop()
	if obs.Registry != nil {
		metrics = observability.NewRatingMetrics(obs.Registry)
	}

	repo := ratingdb.NewRepository(db)
	store := tunables.NewStore(db)
	service := ratingservice.NewRatingService(repo, store, publisher, clock, logger, metrics, obs.Tracer, db)

	if httpRouter != nil {
		ratingrouter.Mount(httpRouter, ratinghandlers.NewRatingHandlers(service, clock, logger), admin)
	}

	return &Module{
		RatingService: service,
		Repository:    repo,
		Store:         store,
	}
}
