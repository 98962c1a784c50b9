package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"Mediasnap/internal/api/handlers"
	downloadhandlers "Mediasnap/internal/api/handlers/download"
	healthhandlers "Mediasnap/internal/api/handlers/health"
	"Mediasnap/internal/api/middleware"
)

// RouterConfig holds everything NewRouter wires together
type RouterConfig struct {
	Download       *downloadhandlers.Handler
	Health         *healthhandlers.Handler
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	ShowDetails    bool
}

// NewRouter builds the HTTP surface with the shared middleware chain:
// request id, access log, panic recovery, security headers and CORS.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(middleware.Recoverer(cfg.ShowDetails))
	r.Use(middleware.SecurityHeaders())
	r.Use(corsMiddleware(cfg.AllowedOrigins))
	r.Use(answerOptions)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, http.StatusNotFound, handlers.ErrorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, http.StatusMethodNotAllowed, handlers.ErrorResponse{Error: "Method not allowed"})
	})

	RegisterHealthRoutes(r, cfg.Health)
	RegisterDownloadRoutes(r, cfg.Download, cfg.RateLimiter)

	return r
}

// corsMiddleware creates a CORS middleware for the public API
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"}, // requested headers are echoed back
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300, // 5 minutes
	})
}

// answerOptions replies 200 with no body to any OPTIONS request that is not
// a CORS preflight (preflights are answered by the CORS middleware).
func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
