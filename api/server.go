/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

SECURITY NOTE:
  No authentication middleware. The service runs as an in-process
  collaborator behind the main application.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

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
		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Delete("/{id}", h.DeleteProject)
			r.Get("/{id}/compliance", h.GetProjectCompliance)
			r.Get("/{id}/costs", h.GetProjectCosts)
			r.Put("/{id}/costs", h.UpdateProjectCosts)
			r.Get("/{id}/documents", h.ListDocuments)
			r.Post("/{id}/documents", h.CreateDocument)
		})

		// Document routes
		r.Route("/documents", func(r chi.Router) {
			r.Delete("/{id}", h.DeleteDocument)
		})

		// Rule routes
		r.Route("/rules", func(r chi.Router) {
			r.Get("/", h.GetRules)
			r.Post("/", h.UpdateRules)
		})

		// Alert routes
		r.Get("/alerts", h.ListAlerts)
		r.Get("/notifications", h.ListNotifications)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/sweep", h.TriggerSweep)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Minimal index for humans poking the service directly.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Compliance Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Compliance Engine API</h1>
<ul>
<li><a href="/api/projects">/api/projects</a> - List projects</li>
<li><a href="/api/rules">/api/rules</a> - Expiration rule set</li>
<li><a href="/api/alerts">/api/alerts</a> - Urgent deadlines</li>
</ul>
</body>
</html>`))
	})

	return r
}
