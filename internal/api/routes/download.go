package routes

import (
	"github.com/go-chi/chi/v5"

	downloadhandlers "Mediasnap/internal/api/handlers/download"
	"Mediasnap/internal/api/middleware"
)

// RegisterDownloadRoutes registers the download endpoint on the router.
//
// Route: POST /api/download
//
// Body: {"url": "...", "platform": "auto"}. The endpoint is rate limited
// per client IP.
func RegisterDownloadRoutes(r chi.Router, handler *downloadhandlers.Handler, limiter *middleware.RateLimiter) {
	r.With(limiter.Middleware).Post("/api/download", handler.HandleDownload)
}
