package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts every endpoint. /api/project accepts any method and
// answers unsupported ones itself.
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", handlers.healthHandler.check())

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.HandleFunc("/api/project", handlers.projectHandler.handle())
	})
}
