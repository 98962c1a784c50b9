package extract

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"Mediasnap/internal/core/media"
	"Mediasnap/internal/core/platform"
)

// InstagramStyle reads Open Graph / Twitter Card tags and falls back to
// embedded script data. Facebook and Pinterest pages are served by the same
// strategy with their own platform tag and default labels.
type InstagramStyle struct {
	fetcher       Fetcher
	fallback      ScriptFallback
	platform      platform.Platform
	defaultTitle  string
	defaultAuthor string
}

// NewInstagramStyle creates the strategy for p. A nil fallback disables the
// script scan.
func NewInstagramStyle(fetcher Fetcher, fallback ScriptFallback, p platform.Platform) *InstagramStyle {
	title, author := defaultLabels(p)
	return &InstagramStyle{
		fetcher:       fetcher,
		fallback:      fallback,
		platform:      p,
		defaultTitle:  title,
		defaultAuthor: author,
	}
}

func defaultLabels(p platform.Platform) (title, author string) {
	switch p {
	case platform.Facebook:
		return "Facebook Content", "Facebook User"
	case platform.Pinterest:
		return "Pinterest Content", "Pinterest User"
	default:
		return "Instagram Content", "Instagram User"
	}
}

// Extract fetches pageURL and builds the Result from its metadata
func (e *InstagramStyle) Extract(ctx context.Context, pageURL string) (*media.Result, error) {
	body, err := e.fetcher.Fetch(ctx, pageURL, documentHeaders())
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	return e.fromDocument(pageURL, doc), nil
}

func (e *InstagramStyle) fromDocument(pageURL string, doc *goquery.Document) *media.Result {
	title := firstNonEmpty(e.defaultTitle, metaContent(doc, "og:title", "twitter:title"))
	author := firstNonEmpty(e.defaultAuthor, metaContent(doc, "twitter:site", "og:site_name"))
	thumbnail := metaContent(doc, "og:image", "twitter:image")

	var assets []media.Asset

	// Video and image discovery are mutually exclusive: a page with a video
	// only reports the video, its og:image is the poster.
	if videoURL := metaContent(doc, "og:video", "og:video:url", "twitter:player:stream"); videoURL != "" {
		assets = append(assets, videoAsset(videoURL))
	} else if imageURL := metaContent(doc, "og:image", "og:image:secure_url"); imageURL != "" {
		assets = append(assets, imageAsset(imageURL))
	}

	if len(assets) == 0 && e.fallback != nil {
		if asset, ok := e.fallback.TryScriptFallback(doc); ok {
			assets = append(assets, asset)
		}
	}

	return media.NewResult(pageURL, e.platform, title, author, thumbnail, assets)
}
