package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/reports/upload", h.UploadReports)
		r.Post("/reset", h.Reset)

		r.Get("/dashboard", h.GetDashboard)
		r.Get("/campaigns", h.GetCampaigns)
		r.Get("/campaigns/{name}", h.GetCampaign)
		r.Get("/tags", h.GetTags)
		r.Get("/tags/{name}", h.GetTag)
		r.Get("/advertisers", h.GetAdvertisers)
		r.Get("/search", h.Search)
		r.Get("/filters", h.GetFilters)

		r.Get("/targets", h.GetTargetTotal)
		r.Get("/targets/{tag}", h.GetTarget)

		r.Get("/export", h.ExportCSV)
	})

	return r
}
