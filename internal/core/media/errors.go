// Package media holds the normalized asset model shared by the extractor,
// the cache and the HTTP layer, along with the error kinds they report.
package media

import (
	"errors"
	"fmt"

	"Mediasnap/internal/core/platform"
)

var (
	// ErrInvalidInput is returned when the request URL is missing or malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedPlatform is returned when no extractor exists for the resolved platform.
	// It is always carried by an *UnsupportedPlatformError.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrNotImplemented is returned by platforms whose extractor is a placeholder.
	ErrNotImplemented = errors.New("platform extraction not implemented")

	// ErrUpstreamTimeout is returned when the source page does not answer within the fetch timeout
	ErrUpstreamTimeout = errors.New("upstream request timed out")

	// ErrUpstreamUnreachable is returned for connection failures and non-success statuses
	ErrUpstreamUnreachable = errors.New("upstream unreachable")

	// ErrContentTooLarge is returned when the source page exceeds the body size cap
	ErrContentTooLarge = errors.New("upstream content too large")

	// ErrExtractionFailed is returned when the page could not be parsed
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrPlatformUnavailable is returned while a platform's circuit breaker is open
	ErrPlatformUnavailable = errors.New("platform temporarily unavailable")
)

// UnsupportedPlatformError reports the tag that could not be dispatched.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedPlatform, e.Platform)
}

func (e *UnsupportedPlatformError) Is(target error) bool {
	return target == ErrUnsupportedPlatform
}

// NotImplementedError reports a platform whose extractor is a placeholder.
type NotImplementedError struct {
	Platform platform.Platform
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotImplemented, e.Platform)
}

func (e *NotImplementedError) Is(target error) bool {
	return target == ErrNotImplemented
}
