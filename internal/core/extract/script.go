package extract

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"Mediasnap/internal/core/media"
)

const (
	sharedDataMarker = "display_url"
	sharedDataStart  = `{"config":`
)

// ScriptFallback recovers a media asset from inline script data when a page
// carries no usable meta tags.
type ScriptFallback interface {
	TryScriptFallback(doc *goquery.Document) (media.Asset, bool)
}

// SharedDataFallback reads the post JSON Instagram-style pages embed in an
// inline script (the object that starts with {"config":).
type SharedDataFallback struct{}

// sharedData mirrors the part of the embedded page state we read
type sharedData struct {
	EntryData struct {
		PostPage []struct {
			GraphQL struct {
				ShortcodeMedia *shortcodeMedia `json:"shortcode_media"`
			} `json:"graphql"`
		} `json:"PostPage"`
	} `json:"entry_data"`
}

type shortcodeMedia struct {
	Dimensions *struct {
		Width  *int `json:"width"`
		Height *int `json:"height"`
	} `json:"dimensions"`
	VideoDuration *float64 `json:"video_duration"`
	VideoURL      string   `json:"video_url"`
	DisplayURL    string   `json:"display_url"`
	IsVideo       bool     `json:"is_video"`
}

// TryScriptFallback scans inline scripts in document order and returns the
// first asset it can decode. Scripts that fail to decode are logged and skipped.
func (SharedDataFallback) TryScriptFallback(doc *goquery.Document) (media.Asset, bool) {
	var (
		asset media.Asset
		found bool
	)

	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		content := s.Text()
		if !strings.Contains(content, sharedDataMarker) {
			return true
		}

		data, err := decodeSharedData(content)
		if err != nil {
			slog.Warn("[EXTRACT] failed to parse inline script data",
				"script_index", i,
				"error", err,
			)
			return true
		}
		if data == nil {
			return true
		}

		asset, found = assetFromShortcodeMedia(data)
		return !found
	})

	return asset, found
}

// decodeSharedData decodes the first JSON object that starts with {"config":.
// Returns nil, nil when the script has no such object.
func decodeSharedData(script string) (*sharedData, error) {
	idx := strings.Index(script, sharedDataStart)
	if idx < 0 {
		return nil, nil
	}

	// Decode reads exactly one value and ignores whatever follows it (";</script>", etc.).
	var data sharedData
	if err := json.NewDecoder(strings.NewReader(script[idx:])).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func assetFromShortcodeMedia(data *sharedData) (media.Asset, bool) {
	if len(data.EntryData.PostPage) == 0 {
		return media.Asset{}, false
	}
	sm := data.EntryData.PostPage[0].GraphQL.ShortcodeMedia
	if sm == nil {
		return media.Asset{}, false
	}

	var asset media.Asset
	switch {
	case sm.IsVideo && sm.VideoURL != "":
		asset = videoAsset(sm.VideoURL)
		asset.Duration = sm.VideoDuration
	case !sm.IsVideo && sm.DisplayURL != "":
		asset = imageAsset(sm.DisplayURL)
	default:
		return media.Asset{}, false
	}

	if sm.Dimensions != nil {
		asset.Width = sm.Dimensions.Width
		asset.Height = sm.Dimensions.Height
	}
	return asset, true
}
