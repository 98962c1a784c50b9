package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"Mediasnap/internal/core/media"
)

// parseDocument parses a fetched page body
func parseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %v", media.ErrExtractionFailed, err)
	}
	return doc, nil
}

// metaContent returns the first non-empty content attribute among the given
// meta keys, checked in priority order. Open Graph pages use property= while
// Twitter Cards use name=, and real pages mix the two, so both are matched.
func metaContent(doc *goquery.Document, keys ...string) string {
	for _, key := range keys {
		selector := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if content := strings.TrimSpace(s.AttrOr("content", "")); content != "" {
				found = content
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// firstNonEmpty returns the first non-empty value, or fallback
func firstNonEmpty(fallback string, values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return fallback
}

func videoAsset(url string) media.Asset {
	hasAudio := true
	return media.Asset{
		URL:       url,
		Kind:      media.KindVideo,
		Quality:   "hd",
		Extension: "mp4",
		HasAudio:  &hasAudio,
	}
}

func imageAsset(url string) media.Asset {
	return media.Asset{
		URL:       url,
		Kind:      media.KindImage,
		Quality:   "original",
		Extension: "jpg",
	}
}
