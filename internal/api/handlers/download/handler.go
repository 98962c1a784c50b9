// Package download provides the HTTP handler for POST /api/download.
package download

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"Mediasnap/internal/api/handlers"
	"Mediasnap/internal/core/download"
	"Mediasnap/internal/core/media"
	"Mediasnap/internal/core/platform"
)

// maxRequestBodyBytes caps the JSON request body
const maxRequestBodyBytes = 64 << 10

// Request is the JSON body of POST /api/download
type Request struct {
	URL      string `json:"url"`
	Platform string `json:"platform,omitempty"`
}

// Medias groups extracted assets by kind
type Medias struct {
	Images []media.Asset `json:"images"`
	Videos []media.Asset `json:"videos"`
}

// Response is the JSON body of a successful download lookup
type Response struct {
	Duration  *float64          `json:"duration,omitempty"`
	URL       string            `json:"url"`
	Title     string            `json:"title"`
	Author    string            `json:"author"`
	Thumbnail string            `json:"thumbnail,omitempty"`
	Source    platform.Platform `json:"source"`
	RequestID string            `json:"requestId"`
	Medias    Medias            `json:"medias"`
	Success   bool              `json:"success"`
	Cached    bool              `json:"cached"`
}

// Handler handles download requests
type Handler struct {
	service     download.Service
	showDetails bool
}

// NewHandler creates a new download handler. When showDetails is set,
// error responses include the underlying error chain.
func NewHandler(service download.Service, showDetails bool) *Handler {
	return &Handler{
		service:     service,
		showDetails: showDetails,
	}
}

// HandleDownload handles POST /api/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, handlers.ErrorResponse{
			Error: "Invalid JSON body",
		})
		return
	}

	if req.URL == "" {
		handlers.WriteError(w, r, http.StatusBadRequest, handlers.ErrorResponse{
			Error: "Missing url parameter",
		})
		return
	}

	requestID := middleware.GetReqID(r.Context())
	slog.Info("[DOWNLOAD] processing request",
		"request_id", requestID,
		"url", req.URL,
		"platform", req.Platform,
	)

	resp, err := h.service.Download(r.Context(), download.Request{
		URL:      req.URL,
		Platform: req.Platform,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, toResponse(resp, requestID))
}

func toResponse(resp *download.Response, requestID string) Response {
	result := resp.Result
	return Response{
		Success:   true,
		URL:       result.SourceURL,
		Title:     result.Title,
		Author:    result.Author,
		Thumbnail: result.Thumbnail,
		Source:    result.Platform,
		Duration:  result.Duration(),
		Medias: Medias{
			Images: result.Images,
			Videos: result.Videos,
		},
		Cached:    resp.Cached,
		RequestID: requestID,
	}
}
