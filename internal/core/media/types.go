package media

import "Mediasnap/internal/core/platform"

// Kind distinguishes image assets from video assets
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Asset describes one discoverable image or video resource.
// Optional fields are nil/empty when the page did not expose them.
type Asset struct {
	Width     *int     `json:"width,omitempty"`
	Height    *int     `json:"height,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
	HasAudio  *bool    `json:"hasAudio,omitempty"`
	URL       string   `json:"url"`
	Kind      Kind     `json:"type"`
	Quality   string   `json:"quality,omitempty"`
	Extension string   `json:"extension,omitempty"`
}

// Result is the normalized outcome of extracting one page.
// Images and Videos are never nil.
type Result struct {
	SourceURL string            `json:"sourceUrl"`
	Platform  platform.Platform `json:"platform"`
	Title     string            `json:"title"`
	Author    string            `json:"author"`
	Thumbnail string            `json:"thumbnail,omitempty"`
	Images    []Asset           `json:"images"`
	Videos    []Asset           `json:"videos"`
}

// NewResult builds a Result, splitting assets into images and videos while
// keeping their relative order.
func NewResult(sourceURL string, p platform.Platform, title, author, thumbnail string, assets []Asset) *Result {
	r := &Result{
		SourceURL: sourceURL,
		Platform:  p,
		Title:     title,
		Author:    author,
		Thumbnail: thumbnail,
		Images:    []Asset{},
		Videos:    []Asset{},
	}
	for _, a := range assets {
		switch a.Kind {
		case KindVideo:
			r.Videos = append(r.Videos, a)
		case KindImage:
			r.Images = append(r.Images, a)
		}
	}
	return r
}

// Duration returns the first video's duration, if it has one.
func (r *Result) Duration() *float64 {
	for _, v := range r.Videos {
		if v.Duration != nil {
			d := *v.Duration
			return &d
		}
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	c.Images = cloneAssets(r.Images)
	c.Videos = cloneAssets(r.Videos)
	return &c
}

func cloneAssets(in []Asset) []Asset {
	out := make([]Asset, len(in))
	for i, a := range in {
		out[i] = a.clone()
	}
	return out
}

func (a Asset) clone() Asset {
	c := a
	if a.Width != nil {
		c.Width = ptr(*a.Width)
	}
	if a.Height != nil {
		c.Height = ptr(*a.Height)
	}
	if a.Duration != nil {
		c.Duration = ptr(*a.Duration)
	}
	if a.HasAudio != nil {
		c.HasAudio = ptr(*a.HasAudio)
	}
	return c
}

func ptr[T any](v T) *T {
	return &v
}
