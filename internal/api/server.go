// Package api wires the Chi router, middleware stack, and handlers.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/courtrank/league-data/internal/api/handler"
	"github.com/courtrank/league-data/internal/cache"
	"github.com/courtrank/league-data/internal/config"
	"github.com/courtrank/league-data/internal/maintenance"
	"github.com/courtrank/league-data/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(st *store.Store, appCache *cache.Cache, cfg *config.Config, inv *maintenance.Invalidator) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag", "Content-Disposition"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(st, appCache, cfg, inv)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Rankings
		r.Get("/rankings/lifetime", h.GetLifetimeRankings)
		r.Get("/rankings/season/{id}", h.GetSeasonRankings)
		r.Get("/rankings/date/{date}", h.GetDateRankings)

		// Players
		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Post("/", h.CreatePlayer)
			r.Get("/{id}", h.GetPlayer)
			r.Delete("/{id}", h.DeletePlayer)
		})

		// Seasons
		r.Route("/seasons", func(r chi.Router) {
			r.Get("/", h.ListSeasons)
			r.Post("/", h.CreateSeason)
			r.Get("/{id}", h.GetSeason)
			r.Delete("/{id}", h.DeleteSeason)
			r.Post("/{id}/end", h.EndSeason)
			r.Post("/{id}/reactivate", h.ReactivateSeason)
			r.Get("/{id}/roster", h.GetSeasonRoster)
			r.Put("/{id}/roster", h.SetSeasonRoster)
		})

		// Matches
		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.ListMatches)
			r.Post("/", h.CreateMatch)
			r.Get("/{id}", h.GetMatch)
			r.Put("/{id}", h.UpdateMatch)
			r.Delete("/{id}", h.DeleteMatch)
		})

		// Backup
		r.Get("/export/xlsx", h.ExportXLSX)
	})

	return r
}
