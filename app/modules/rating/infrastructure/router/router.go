package ratingrouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	ratinghandlers "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/handlers"
)

// Mount registers the rating routes under /api/rating. Mutations go through
// the admin middleware.
func Mount(r chi.Router, h *ratinghandlers.RatingHandlers, admin func(http.Handler) http.Handler) {
	r.Route("/api/rating", func(r chi.Router) {
		r.Get("/classement", h.GetClassement)
		r.Get("/players", h.GetPlayerNames)
		r.Get("/players/{name}", h.GetPlayerStats)
		r.Get("/players/{name}/chart.png", h.GetPlayerChart)
		r.Get("/progressions", h.GetProgressions)
		r.Get("/tiers", h.GetTierDistribution)
		r.Get("/tournaments", h.GetTournaments)
		r.Get("/tournaments/latest", h.GetLatestTournament)
		r.Get("/tournaments/{id}", h.GetTournament)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/tournaments", h.SubmitTournament)
			r.Post("/tournaments/revert", h.RevertLastTournament)
			r.Delete("/tournaments/{id}", h.DeleteTournament)
			r.Post("/players", h.AddPlayer)
			r.Post("/global-reset", h.ApplyGlobalReset)
			r.Delete("/global-reset", h.RevertGlobalReset)
			r.Get("/configuration", h.GetConfiguration)
			r.Put("/configuration/{key}", h.SetConfiguration)
		})
	})
}
