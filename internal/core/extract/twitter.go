package extract

import (
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"Mediasnap/internal/core/media"
	"Mediasnap/internal/core/platform"
)

// Twitter reads the narrower Twitter/X card field set. It never reports
// image assets and has no script fallback.
type Twitter struct {
	fetcher Fetcher
}

// NewTwitter creates the Twitter/X strategy
func NewTwitter(fetcher Fetcher) *Twitter {
	return &Twitter{fetcher: fetcher}
}

// Extract fetches pageURL and builds the Result from its card metadata
func (e *Twitter) Extract(ctx context.Context, pageURL string) (*media.Result, error) {
	header := http.Header{}
	header.Set("Accept", "*/*")

	body, err := e.fetcher.Fetch(ctx, pageURL, header)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	return e.fromDocument(pageURL, doc), nil
}

func (e *Twitter) fromDocument(pageURL string, doc *goquery.Document) *media.Result {
	title := firstNonEmpty("Tweet", metaContent(doc, "og:title"))
	author := firstNonEmpty("Twitter User", metaContent(doc, "twitter:site"))
	thumbnail := metaContent(doc, "og:image")

	var assets []media.Asset
	if videoURL := metaContent(doc, "og:video:url", "og:video"); videoURL != "" {
		assets = append(assets, videoAsset(videoURL))
	}

	return media.NewResult(pageURL, platform.Twitter, title, author, thumbnail, assets)
}
