package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smk-league/smk-rating/app/modules/auth"
	"github.com/smk-league/smk-rating/app/observability"
)

// newRouter returns the root router with the shared middleware chain and the
// operational endpoints. Modules mount their own routes on it.
func newRouter(authModule *auth.Module, obs observability.Observability) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	for _, mw := range authModule.Public() {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if obs.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	}
	return r
}
