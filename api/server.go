/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/projects/*   Project, phase, estimate and budget operations
  /api/phases/*     Phase updates addressed by phase ID
  /api/holidays/*   Holiday management with conflict suggestions
  /api/events/*     Calendar events
  /api/groups/*     Row layout per timeline group
  /api/drag/*       Interactive drag sessions
  /api/settings/*   Weekly work-hours calendar

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Put("/{id}", h.UpdateProject)
			r.Delete("/{id}", h.DeleteProject)
			r.Get("/{id}/phases", h.ListPhases)
			r.Post("/{id}/phases", h.CreatePhase)
			r.Get("/{id}/estimates", h.GetEstimates)
			r.Get("/{id}/budget", h.GetBudget)
			r.Post("/{id}/budget/simulate", h.SimulateBudget)
		})

		// Phase routes addressed by phase ID
		r.Route("/phases", func(r chi.Router) {
			r.Put("/{id}", h.UpdatePhase)
			r.Delete("/{id}", h.DeletePhase)
			r.Get("/{id}/occurrences", h.ListOccurrences)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Put("/{id}", h.UpdateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Event routes
		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.CreateEvent)
			r.Delete("/{id}", h.DeleteEvent)
		})

		// Layout routes
		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.ListGroups)
			r.Get("/{group}/layout", h.GetGroupLayout)
		})

		// Drag session routes
		r.Route("/drag", func(r chi.Router) {
			r.Post("/begin", h.BeginDrag)
			r.Post("/update", h.UpdateDrag)
			r.Post("/end", h.EndDrag)
			r.Post("/cancel", h.CancelDrag)
			r.Post("/overrides", h.SetOverride)
		})

		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/week", h.GetWeek)
			r.Put("/week", h.SaveWeek)
		})
	})

	return r
}
