package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP surface for the API.
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/series/{seriesID}/stats", h.GetSeriesStats)
		r.Delete("/series/{seriesID}/cache", h.InvalidateSeriesCache)

		r.Post("/simulate", h.Simulate)

		r.Get("/series/recent", h.ListRecentSeries)
		r.Post("/series/recent", h.SaveRecentSeries)
		r.Delete("/series/recent/{seriesID}", h.DeleteRecentSeries)

		r.Get("/series/live", h.ListLiveSeries)
	})

	return r
}
