package extract

import (
	"context"

	"Mediasnap/internal/core/media"
	"Mediasnap/internal/core/platform"
)

// NotImplemented stands in for platforms that need stream-level work
// (signed URLs, watermark removal) this service does not do. It reports
// media.ErrNotImplemented instead of a placeholder payload.
type NotImplemented struct {
	platform platform.Platform
}

// NewNotImplemented creates the placeholder strategy for p
func NewNotImplemented(p platform.Platform) *NotImplemented {
	return &NotImplemented{platform: p}
}

func (e *NotImplemented) Extract(_ context.Context, _ string) (*media.Result, error) {
	return nil, &media.NotImplementedError{Platform: e.platform}
}
