package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hanzideck/hanzideck-api/internal/api"
	"github.com/hanzideck/hanzideck-api/internal/api/middleware"
)

// newRouter assembles the HTTP surface. Every /study route requires the
// caller's identity; health stays open for probes.
func newRouter(studyHandler *api.StudyHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/study", func(r chi.Router) {
		r.Use(middleware.IdentityMiddleware)

		r.Get("/due", studyHandler.GetDueCards)
		r.Get("/new", studyHandler.GetNewCards)
		r.Get("/session", studyHandler.GetSession)
		r.Get("/stats", studyHandler.GetStats)
		r.Get("/heatmap", studyHandler.GetHeatmap)
		r.Post("/review", studyHandler.SubmitReview)
	})

	return r
}
