package download

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"Mediasnap/internal/api/handlers"
	"Mediasnap/internal/core/media"
)

// handleServiceError converts service errors to appropriate HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	body := handlers.ErrorResponse{}
	status := http.StatusInternalServerError

	var unsupported *media.UnsupportedPlatformError

	switch {
	case errors.Is(err, media.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Error = "Invalid URL format"
	case errors.As(err, &unsupported):
		status = http.StatusBadRequest
		body.Error = "Unsupported platform"
		body.DetectedPlatform = unsupported.Platform
	case errors.Is(err, media.ErrNotImplemented):
		status = http.StatusNotImplemented
		body.Error = "Downloads for this platform are not available yet"
	case errors.Is(err, media.ErrUpstreamTimeout):
		body.Error = "Request timed out, try again"
	case errors.Is(err, media.ErrUpstreamUnreachable):
		body.Error = "Could not reach the source page"
	case errors.Is(err, media.ErrContentTooLarge):
		body.Error = "Source page is too large to process"
	case errors.Is(err, media.ErrExtractionFailed):
		body.Error = "Could not read media from the source page"
	case errors.Is(err, media.ErrPlatformUnavailable):
		body.Error = "Platform is temporarily unavailable, try again later"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The client is usually gone; the extraction itself carries on
		body.Error = "Request was cancelled before the download finished"
	default:
		slog.Error("[DOWNLOAD] unhandled service error", "error", err)
		body.Error = "Download failed"
	}

	if status >= http.StatusInternalServerError {
		slog.Warn("[DOWNLOAD] request failed", "status", status, "error", err)
	}
	if h.showDetails {
		body.Details = err.Error()
	}

	handlers.WriteError(w, r, status, body)
}
