package seasonrouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	seasonhandlers "github.com/smk-league/smk-rating/app/modules/season/infrastructure/handlers"
)

// Mount registers the season routes under /api/seasons.
func Mount(r chi.Router, h *seasonhandlers.SeasonHandlers, admin func(http.Handler) http.Handler) {
	r.Route("/api/seasons", func(r chi.Router) {
		r.Get("/", h.ListSeasons)
		r.Get("/window", h.GetWindowStats)
		r.Get("/{slug}", h.GetSeason)
		r.Get("/{slug}/stats", h.GetSeasonStats)
		r.Get("/{slug}/awards", h.GetSeasonAwards)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.CreateSeason)
			r.Post("/{slug}/publish", h.PublishSeason)
		})
	})
}
