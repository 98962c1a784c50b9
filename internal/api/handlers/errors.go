package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON envelope for every failed request
type ErrorResponse struct {
	Error            string `json:"error"`
	DetectedPlatform string `json:"detectedPlatform,omitempty"`
	RequestID        string `json:"requestId,omitempty"`
	Details          string `json:"details,omitempty"`
	Success          bool   `json:"success"`
}

// WriteJSON writes v as a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[HTTP] failed to encode response", "error", err)
	}
}

// WriteError writes a standardized JSON error response. The request id is
// taken from the request context when present.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, body ErrorResponse) {
	body.Success = false
	if body.RequestID == "" && r != nil {
		body.RequestID = middleware.GetReqID(r.Context())
	}
	WriteJSON(w, statusCode, body)
}
