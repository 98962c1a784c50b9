package routes

import (
	"github.com/go-chi/chi/v5"

	healthhandlers "Mediasnap/internal/api/handlers/health"
)

// RegisterHealthRoutes registers GET /api/health. It is never rate limited.
func RegisterHealthRoutes(r chi.Router, handler *healthhandlers.Handler) {
	r.Get("/api/health", handler.HandleHealth)
}
