package download

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"Mediasnap/internal/core/media"
	"Mediasnap/internal/core/platform"
)

// autoPlatform asks the service to detect the platform from the URL
const autoPlatform = "auto"

// normalizeURL validates a client-supplied URL and returns its canonical form:
// https:// is assumed when no scheme is given, scheme and host are
// lower-cased, and the fragment is dropped.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: missing url", media.ErrInvalidInput)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: malformed url: %v", media.ErrInvalidInput, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", media.ErrInvalidInput, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if !isPublicHost(host) {
		return "", fmt.Errorf("%w: invalid host %q", media.ErrInvalidInput, host)
	}
	if u.User != nil {
		return "", fmt.Errorf("%w: credentials in url are not allowed", media.ErrInvalidInput)
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), nil
}

// isPublicHost reports whether host is a registrable name under a known
// public suffix, e.g. "instagram.com" or "news.bbc.co.uk". Bare suffixes,
// single labels, unknown TLDs and IP literals are rejected.
func isPublicHost(host string) bool {
	if host == "" || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return false
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return false
	}
	// Hosts matched only by the default "*" rule have an unlisted TLD
	suffix, icann := publicsuffix.PublicSuffix(host)
	return icann || strings.Contains(suffix, ".")
}

// resolvePlatform turns the optional platform hint into a platform tag.
// An empty or "auto" hint detects the platform from the URL.
func resolvePlatform(hint, normalizedURL string) (platform.Platform, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" || hint == autoPlatform {
		return platform.Detect(normalizedURL), nil
	}
	p, ok := platform.Parse(strings.ToLower(hint))
	if !ok {
		return "", &media.UnsupportedPlatformError{Platform: hint}
	}
	return p, nil
}
