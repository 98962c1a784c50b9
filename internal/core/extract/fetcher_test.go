package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mediasnap/internal/core/media"
)

func TestPageFetcher_Fetch_Success(t *testing.T) {
	var gotUA, gotAccept, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5*time.Second, 1024)
	body, err := fetcher.Fetch(context.Background(), server.URL, documentHeaders())

	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(body))
	assert.Contains(t, userAgents, gotUA)
	assert.Contains(t, gotAccept, "text/html")
	assert.Equal(t, "en-US,en;q=0.9", gotLang)
}

func TestPageFetcher_Fetch_ContentLengthTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "2048")
		_, _ = w.Write([]byte(strings.Repeat("a", 2048)))
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5*time.Second, 1024)
	_, err := fetcher.Fetch(context.Background(), server.URL, nil)

	assert.True(t, errors.Is(err, media.ErrContentTooLarge), "expected ErrContentTooLarge, got: %v", err)
}

func TestPageFetcher_Fetch_StreamedBodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flushing before the body is complete forces chunked encoding with no Content-Length.
		flusher := w.(http.Flusher)
		for i := 0; i < 4; i++ {
			_, _ = w.Write([]byte(strings.Repeat("b", 512)))
			flusher.Flush()
		}
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5*time.Second, 1024)
	_, err := fetcher.Fetch(context.Background(), server.URL, nil)

	assert.True(t, errors.Is(err, media.ErrContentTooLarge), "expected ErrContentTooLarge, got: %v", err)
}

func TestPageFetcher_Fetch_ExactlyAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("c", 1024)))
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5*time.Second, 1024)
	body, err := fetcher.Fetch(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Len(t, body, 1024)
}

func TestPageFetcher_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	fetcher := NewPageFetcher(50*time.Millisecond, 1024)
	_, err := fetcher.Fetch(context.Background(), server.URL, nil)

	assert.True(t, errors.Is(err, media.ErrUpstreamTimeout), "expected ErrUpstreamTimeout, got: %v", err)
}

func TestPageFetcher_Fetch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewPageFetcher(5*time.Second, 1024)
	_, err := fetcher.Fetch(ctx, server.URL, nil)

	// A caller that gave up is not an upstream failure.
	assert.True(t, errors.Is(err, context.Canceled), "expected context.Canceled, got: %v", err)
	assert.False(t, errors.Is(err, media.ErrUpstreamTimeout))
	assert.False(t, errors.Is(err, media.ErrUpstreamUnreachable))
}

func TestPageFetcher_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // nothing listens on this address any more

	fetcher := NewPageFetcher(5*time.Second, 1024)
	_, err := fetcher.Fetch(context.Background(), url, nil)

	assert.True(t, errors.Is(err, media.ErrUpstreamUnreachable), "expected ErrUpstreamUnreachable, got: %v", err)
}

func TestPageFetcher_Fetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5*time.Second, 1024)
	_, err := fetcher.Fetch(context.Background(), server.URL, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, media.ErrUpstreamUnreachable))
	assert.Contains(t, err.Error(), "404")
}

func TestNewPageFetcher_Defaults(t *testing.T) {
	fetcher := NewPageFetcher(0, 0)
	assert.Equal(t, DefaultFetchTimeout, fetcher.client.Timeout)
	assert.Equal(t, DefaultMaxPageBytes, fetcher.maxBodyBytes)
}
