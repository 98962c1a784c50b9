package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"Mediasnap/internal/core/media"
)

const (
	// DefaultFetchTimeout bounds connect, headers and body read for one page
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxPageBytes is the largest page body that will be parsed
	DefaultMaxPageBytes int64 = 1 << 20
)

// userAgents are rotated per request so outbound fetches look like ordinary browsers
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36",
}

// Fetcher retrieves the raw body of a page.
type Fetcher interface {
	// Fetch issues a single GET for pageURL with the given extra headers.
	// A browser User-Agent is always added.
	Fetch(ctx context.Context, pageURL string, header http.Header) ([]byte, error)
}

// PageFetcher fetches pages over HTTP with a timeout and a body size cap.
type PageFetcher struct {
	client       *http.Client
	maxBodyBytes int64
}

// FetcherOption configures a PageFetcher
type FetcherOption func(*PageFetcher)

// WithTransport replaces the HTTP transport (tests route requests to local servers with it)
func WithTransport(rt http.RoundTripper) FetcherOption {
	return func(f *PageFetcher) {
		f.client.Transport = rt
	}
}

// NewPageFetcher creates a PageFetcher.
// Non-positive timeout or maxBodyBytes fall back to the defaults.
func NewPageFetcher(timeout time.Duration, maxBodyBytes int64, opts ...FetcherOption) *PageFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxPageBytes
	}
	f := &PageFetcher{
		client:       &http.Client{Timeout: timeout},
		maxBodyBytes: maxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves pageURL.
// Returns:
//   - ErrUpstreamTimeout if the request exceeds the client timeout
//   - the context's error if ctx is done first
//   - ErrContentTooLarge if the body exceeds the configured cap
//   - ErrUpstreamUnreachable for connection failures and non-2xx statuses
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", media.ErrUpstreamUnreachable, err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code %d", media.ErrUpstreamUnreachable, resp.StatusCode)
	}

	if resp.ContentLength > f.maxBodyBytes {
		return nil, fmt.Errorf("%w: content length %d exceeds maximum %d bytes",
			media.ErrContentTooLarge, resp.ContentLength, f.maxBodyBytes)
	}

	// Read one byte past the cap to detect bodies without an honest Content-Length.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("%w: response body exceeds maximum %d bytes",
			media.ErrContentTooLarge, f.maxBodyBytes)
	}

	return body, nil
}

// documentHeaders are the navigation headers a browser sends for a top-level page load.
// Accept-Encoding is left to the transport so compressed bodies are decoded transparently.
func documentHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("DNT", "1")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Cache-Control", "max-age=0")
	return h
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// classifyTransportError maps a failed round trip to an error kind. A done
// context yields its own error, never an upstream kind.
func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("fetch abandoned: %w", ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeoutError(err) {
		return fmt.Errorf("%w: %v", media.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", media.ErrUpstreamUnreachable, err)
}

// isTimeoutError checks if the error is a timeout-related error.
func isTimeoutError(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
