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
  /api/pto/*         PTO requests and policy
  /api/training/*    Training records and policy
  /api/backfills/*   Coverage assignments
  /api/absences/*    Coverage reads keyed by absence
  /api/employees/*   Per-employee reads (requests, backfills, workload)

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

	r.Route("/api", func(r chi.Router) {
		// PTO routes
		r.Route("/pto", func(r chi.Router) {
			r.Route("/requests", func(r chi.Router) {
				r.Post("/", h.SubmitPtoRequest)
				r.Get("/{id}", h.GetPtoRequest)
				r.Delete("/{id}", h.DeletePtoRequest)
				r.Post("/{id}/approve", h.ApprovePtoRequest)
				r.Post("/{id}/reject", h.RejectPtoRequest)
				r.Post("/{id}/cancel", h.CancelPtoRequest)
			})
			r.Route("/policy", func(r chi.Router) {
				r.Get("/", h.GetPtoPolicy)
				r.Get("/versions", h.ListPtoPolicyVersions)
				r.Post("/", h.CreatePtoPolicy)
				r.Put("/", h.UpdatePtoPolicy)
			})
		})

		// Training routes
		r.Route("/training", func(r chi.Router) {
			r.Route("/records", func(r chi.Router) {
				r.Post("/", h.SubmitTrainingRequest)
				r.Get("/{id}", h.GetTrainingRecord)
				r.Post("/{id}/approve", h.ApproveTraining)
				r.Post("/{id}/complete", h.CompleteTraining)
			})
			r.Route("/policy", func(r chi.Router) {
				r.Get("/", h.GetTrainingPolicy)
				r.Get("/versions", h.ListTrainingPolicyVersions)
				r.Post("/", h.CreateTrainingPolicy)
				r.Put("/", h.UpdateTrainingPolicy)
			})
		})

		// Backfill routes
		r.Route("/backfills", func(r chi.Router) {
			r.Post("/", h.AssignBackfill)
			r.Get("/{id}", h.GetBackfillAssignment)
			r.Delete("/{id}", h.DeleteBackfillAssignment)
			r.Post("/{id}/cancel", h.CancelBackfillAssignment)
		})

		// Absence-keyed coverage reads
		r.Route("/absences", func(r chi.Router) {
			r.Get("/{id}/coverage", h.GetAbsenceCoverage)
			r.Get("/{id}/backfills", h.ListAbsenceBackfills)
		})

		// Per-employee reads
		r.Route("/employees", func(r chi.Router) {
			r.Get("/{id}/pto", h.ListEmployeePtoRequests)
			r.Get("/{id}/backfills", h.ListEmployeeBackfills)
			r.Get("/{id}/workload", h.GetEmployeeWorkload)
		})
	})

	return r
}
