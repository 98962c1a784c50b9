// Package health provides the liveness endpoint.
package health

import (
	"net/http"
	"time"

	"Mediasnap/internal/api/handlers"
)

// Response is the JSON body of GET /api/health
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// Handler reports service liveness
type Handler struct {
	now     func() time.Time
	version string
}

// NewHandler creates a health handler reporting version
func NewHandler(version string) *Handler {
	return &Handler{version: version, now: time.Now}
}

// HandleHealth handles GET /api/health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, Response{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   h.version,
	})
}
