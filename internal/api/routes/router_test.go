package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	downloadhandlers "Mediasnap/internal/api/handlers/download"
	healthhandlers "Mediasnap/internal/api/handlers/health"
	"Mediasnap/internal/api/middleware"
	"Mediasnap/internal/core/cache"
	"Mediasnap/internal/core/download"
	"Mediasnap/internal/core/extract"
)

const instagramPage = `<!DOCTYPE html>
<html><head>
	<meta property="og:title" content="Sunset reel" />
	<meta name="twitter:site" content="@sunsets" />
	<meta property="og:image" content="https://cdn.example/poster.jpg" />
	<meta property="og:video" content="https://cdn.example/reel.mp4" />
</head><body></body></html>`

// rewriteTransport sends every request to target regardless of its original host
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = rt.target.Scheme
	out.URL.Host = rt.target.Host
	out.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

type testServer struct {
	router    http.Handler
	upstreams atomic.Int32
}

func newTestServer(t *testing.T, requestsPerWindow int) *testServer {
	t.Helper()
	ts := &testServer{}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.upstreams.Add(1)
		switch {
		case strings.HasPrefix(r.URL.Path, "/p/huge"):
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write(bytes.Repeat([]byte("a"), int(extract.DefaultMaxPageBytes)+1))
		case strings.HasPrefix(r.URL.Path, "/p/"):
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(instagramPage))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	target, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	fetcher := extract.NewPageFetcher(5*time.Second, extract.DefaultMaxPageBytes, extract.WithTransport(rewriteTransport{target: target}))
	svc := download.NewService(cache.NewMemoryCache(), extract.NewDispatcher(fetcher))

	ts.router = NewRouter(RouterConfig{
		Download:       downloadhandlers.NewHandler(svc, false),
		Health:         healthhandlers.NewHandler("9.9.9"),
		RateLimiter:    middleware.NewRateLimiter(requestsPerWindow, time.Minute, 100),
		AllowedOrigins: []string{"*"},
	})
	return ts
}

func (ts *testServer) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestDownload_EndToEnd_InstagramThenCached(t *testing.T) {
	ts := newTestServer(t, 10)
	reqBody := `{"url":"https://www.instagram.com/p/SUNSET1/","platform":"auto"}`

	rec := ts.do(http.MethodPost, "/api/download", reqBody, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://www.instagram.com/p/SUNSET1/", body["url"])
	assert.Equal(t, "instagram", body["source"])
	assert.Equal(t, "Sunset reel", body["title"])
	assert.Equal(t, "@sunsets", body["author"])
	assert.Equal(t, "https://cdn.example/poster.jpg", body["thumbnail"])
	assert.Equal(t, false, body["cached"])
	assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), body["requestId"])

	medias := body["medias"].(map[string]interface{})
	videos := medias["videos"].([]interface{})
	require.Len(t, videos, 1)
	video := videos[0].(map[string]interface{})
	assert.Equal(t, "https://cdn.example/reel.mp4", video["url"])
	assert.Equal(t, "video", video["type"])
	assert.Equal(t, "hd", video["quality"])
	assert.Empty(t, medias["images"])

	second := ts.do(http.MethodPost, "/api/download", reqBody, nil)
	require.Equal(t, http.StatusOK, second.Code)
	secondBody := decode(t, second)
	assert.Equal(t, true, secondBody["cached"])
	assert.Equal(t, body["medias"], secondBody["medias"])
	assert.NotEqual(t, body["requestId"], secondBody["requestId"])

	assert.Equal(t, int32(1), ts.upstreams.Load())
}

func TestDownload_EndToEnd_OversizedPage(t *testing.T) {
	ts := newTestServer(t, 10)

	rec := ts.do(http.MethodPost, "/api/download", `{"url":"https://www.instagram.com/p/huge/"}`, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Source page is too large to process", body["error"])
	assert.NotContains(t, body, "details")
}

func TestDownload_EndToEnd_UpstreamErrorStatus(t *testing.T) {
	ts := newTestServer(t, 10)

	rec := ts.do(http.MethodPost, "/api/download", `{"url":"https://www.instagram.com/reel/missing/"}`, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Could not reach the source page", decode(t, rec)["error"])
}

func TestDownload_EndToEnd_ClientErrors(t *testing.T) {
	ts := newTestServer(t, 100)

	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantPlatform interface{}
	}{
		{"invalid url", `{"url":"not a url"}`, http.StatusBadRequest, nil},
		{"generic site", `{"url":"https://example.com/article"}`, http.StatusBadRequest, "generic"},
		{"unknown hint", `{"url":"https://www.instagram.com/p/1","platform":"myspace"}`, http.StatusBadRequest, "myspace"},
		{"placeholder platform", `{"url":"https://www.youtube.com/watch?v=abc"}`, http.StatusNotImplemented, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/download", tt.body, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantPlatform, body["detectedPlatform"])
		})
	}
	assert.Zero(t, ts.upstreams.Load())
}

func TestDownload_RateLimited(t *testing.T) {
	ts := newTestServer(t, 1)
	body := `{"url":"https://www.instagram.com/p/RL/"}`

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/download", body, nil).Code)

	rec := ts.do(http.MethodPost, "/api/download", body, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	// Health is never rate limited.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/health", "", nil).Code)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, 10)

	rec := ts.do(http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "9.9.9", body["version"])
	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, 10)

	rec := ts.do(http.MethodGet, "/api/download", "", nil)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, 10)

	rec := ts.do(http.MethodGet, "/nope", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestOptions(t *testing.T) {
	ts := newTestServer(t, 10)

	t.Run("plain", func(t *testing.T) {
		rec := ts.do(http.MethodOptions, "/anything/at/all", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("preflight", func(t *testing.T) {
		rec := ts.do(http.MethodOptions, "/api/download", "", http.Header{
			"Origin":                        {"https://app.example"},
			"Access-Control-Request-Method": {"POST"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("preflight with custom headers", func(t *testing.T) {
		rec := ts.do(http.MethodOptions, "/api/download", "", http.Header{
			"Origin":                         {"https://app.example"},
			"Access-Control-Request-Method":  {"POST"},
			"Access-Control-Request-Headers": {"X-Requested-With, Authorization"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		allowed := rec.Header().Get("Access-Control-Allow-Headers")
		assert.Contains(t, allowed, "X-Requested-With")
		assert.Contains(t, allowed, "Authorization")
	})
}
