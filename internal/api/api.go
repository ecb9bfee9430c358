// Package api exposes processing runs and audit history over HTTP.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/calebwren/redline/internal/config"
	"github.com/calebwren/redline/pkg/middleware"
)

// NewRouter builds the service router: health probe at the root, run and
// audit endpoints under the configured base path.
func NewRouter(cfg *config.Config, rt *Runtime) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger(rt.Logger))
	r.Use(middleware.CORS(&cfg.API.CORS))

	r.Get("/healthz", rt.handleHealth)

	r.Route(cfg.API.BasePath, func(r chi.Router) {
		r.Post("/runs", rt.handleCreateRun)
		r.Get("/runs", rt.handleListRuns)
		r.Get("/runs/{id}/changes", rt.handleRunChanges)
		r.Get("/runs/{id}/report", rt.handleRunReport)
	})

	return r
}
