package media

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mediasnap/internal/core/platform"
)

func TestNewResult_SplitsAssetsInOrder(t *testing.T) {
	assets := []Asset{
		{URL: "https://cdn/1.jpg", Kind: KindImage},
		{URL: "https://cdn/1.mp4", Kind: KindVideo},
		{URL: "https://cdn/2.jpg", Kind: KindImage},
	}

	r := NewResult("https://instagram.com/p/x", platform.Instagram, "t", "a", "", assets)

	require.Len(t, r.Images, 2)
	require.Len(t, r.Videos, 1)
	assert.Equal(t, "https://cdn/1.jpg", r.Images[0].URL)
	assert.Equal(t, "https://cdn/2.jpg", r.Images[1].URL)
	assert.Equal(t, "https://cdn/1.mp4", r.Videos[0].URL)
}

func TestNewResult_NeverNilLists(t *testing.T) {
	r := NewResult("https://x.com/a/status/1", platform.Twitter, "t", "a", "", nil)
	assert.NotNil(t, r.Images)
	assert.NotNil(t, r.Videos)
	assert.Empty(t, r.Images)
	assert.Empty(t, r.Videos)
}

func TestResult_CloneIsDeep(t *testing.T) {
	width := 1080
	dur := 12.5
	r := NewResult("u", platform.Instagram, "t", "a", "thumb", []Asset{
		{URL: "v", Kind: KindVideo, Width: &width, Duration: &dur},
	})

	c := r.Clone()
	require.Equal(t, r, c)

	*c.Videos[0].Width = 1
	c.Videos[0].URL = "changed"
	c.Title = "changed"

	assert.Equal(t, 1080, *r.Videos[0].Width)
	assert.Equal(t, "v", r.Videos[0].URL)
	assert.Equal(t, "t", r.Title)
}

func TestResult_Duration(t *testing.T) {
	dur := 7.0
	r := NewResult("u", platform.Instagram, "t", "a", "", []Asset{
		{URL: "v1", Kind: KindVideo},
		{URL: "v2", Kind: KindVideo, Duration: &dur},
	})
	require.NotNil(t, r.Duration())
	assert.Equal(t, 7.0, *r.Duration())

	assert.Nil(t, NewResult("u", platform.Instagram, "t", "a", "", nil).Duration())
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("dispatch: %w", &UnsupportedPlatformError{Platform: "generic"})
	assert.True(t, errors.Is(err, ErrUnsupportedPlatform))

	var upe *UnsupportedPlatformError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, "generic", upe.Platform)

	nie := &NotImplementedError{Platform: platform.YouTube}
	assert.True(t, errors.Is(nie, ErrNotImplemented))
	assert.Contains(t, nie.Error(), "youtube")
}
