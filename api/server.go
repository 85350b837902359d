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
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*      Employees plus their day/week/balance views
  /api/time-entries/*   Work interval CRUD and approval
  /api/absences/*       Absence requests and lifecycle
  /api/holiday-types/*  Absence type catalog
  /api/holidays/*       Public-holiday calendar
  /api/scenarios/*      Demo scenario loaders (dev only)
  /api/reset            Database reset (dev only)

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
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes and per-employee reporting views
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/days", h.GetDays)
			r.Get("/{id}/weeks/{year}/{week}", h.GetWeek)
			r.Get("/{id}/months/{year}/{month}", h.GetMonth)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/vacation", h.GetVacation)
			r.Get("/{id}/absences", h.ListEmployeeAbsences)
		})

		// Time entry routes
		r.Route("/time-entries", func(r chi.Router) {
			r.Get("/", h.ListTimeEntries)
			r.Post("/", h.CreateTimeEntry)
			r.Post("/approve-range", h.ApproveTimeEntryRange)
			r.Get("/{id}", h.GetTimeEntry)
			r.Put("/{id}", h.UpdateTimeEntry)
			r.Delete("/{id}", h.DeleteTimeEntry)
			r.Post("/{id}/approve", h.ApproveTimeEntry)
		})

		// Absence routes
		r.Route("/absences", func(r chi.Router) {
			r.Post("/", h.CreateAbsence)
			r.Post("/override", h.OverrideAbsence)
			r.Get("/{id}", h.GetAbsence)
			r.Post("/{id}/approve", h.ApproveAbsence)
			r.Post("/{id}/reject", h.RejectAbsence)
			r.Post("/{id}/cancel", h.CancelAbsence)
		})

		// Absence type catalog
		r.Route("/holiday-types", func(r chi.Router) {
			r.Get("/", h.ListHolidayTypes)
			r.Post("/", h.CreateHolidayType)
			r.Put("/{id}", h.UpdateHolidayType)
			r.Post("/{id}/deactivate", h.DeactivateHolidayType)
			r.Post("/{id}/activate", h.ActivateHolidayType)
		})

		// Public-holiday calendar
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/generate", h.GenerateHolidays)
			r.Put("/{id}", h.UpdateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Demo scenarios (dev only)
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		// Dev reset
		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
