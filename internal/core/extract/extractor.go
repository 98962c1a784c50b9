// Package extract turns a social-media page into a normalized media.Result.
//
// Each platform is served by an Extractor strategy. Most strategies read Open
// Graph and Twitter Card meta tags; Instagram-style pages additionally fall
// back to the post JSON embedded in inline scripts.
package extract

import (
	"context"

	"Mediasnap/internal/core/media"
)

// Extractor extracts media metadata from a single page.
type Extractor interface {
	// Extract fetches pageURL and returns what it could discover.
	// A page without metadata is not an error: the Result has empty asset lists.
	Extract(ctx context.Context, pageURL string) (*media.Result, error)
}
