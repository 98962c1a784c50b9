package extract

import (
	"context"

	"Mediasnap/internal/core/media"
	"Mediasnap/internal/core/platform"
)

// Dispatcher routes a platform tag to its extraction strategy
type Dispatcher struct {
	instagram Extractor
	facebook  Extractor
	pinterest Extractor
	twitter   Extractor
	youtube   Extractor
	tiktok    Extractor
}

// NewDispatcher wires every strategy to the given fetcher
func NewDispatcher(fetcher Fetcher) *Dispatcher {
	fallback := SharedDataFallback{}
	return &Dispatcher{
		instagram: NewInstagramStyle(fetcher, fallback, platform.Instagram),
		facebook:  NewInstagramStyle(fetcher, fallback, platform.Facebook),
		pinterest: NewInstagramStyle(fetcher, fallback, platform.Pinterest),
		twitter:   NewTwitter(fetcher),
		youtube:   NewNotImplemented(platform.YouTube),
		tiktok:    NewNotImplemented(platform.TikTok),
	}
}

// ExtractorFor returns the strategy for p. Generic and unknown tags have no
// strategy and yield *media.UnsupportedPlatformError.
func (d *Dispatcher) ExtractorFor(p platform.Platform) (Extractor, error) {
	switch p {
	case platform.Instagram:
		return d.instagram, nil
	case platform.Facebook:
		return d.facebook, nil
	case platform.Pinterest:
		return d.pinterest, nil
	case platform.Twitter:
		return d.twitter, nil
	case platform.YouTube:
		return d.youtube, nil
	case platform.TikTok:
		return d.tiktok, nil
	case platform.Generic:
		return nil, &media.UnsupportedPlatformError{Platform: string(p)}
	default:
		return nil, &media.UnsupportedPlatformError{Platform: string(p)}
	}
}

// Supports reports whether p has a strategy
func (d *Dispatcher) Supports(p platform.Platform) bool {
	_, err := d.ExtractorFor(p)
	return err == nil
}

// Dispatch extracts pageURL with the strategy for p
func (d *Dispatcher) Dispatch(ctx context.Context, pageURL string, p platform.Platform) (*media.Result, error) {
	extractor, err := d.ExtractorFor(p)
	if err != nil {
		return nil, err
	}
	return extractor.Extract(ctx, pageURL)
}
