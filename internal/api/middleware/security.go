package middleware

import (
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// securityHeaders are set on every response
var securityHeaders = [][2]string{
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "no-referrer"},
	{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
}

// SecurityHeaders returns middleware that sets the standard hardening headers
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := next
		for i := len(securityHeaders) - 1; i >= 0; i-- {
			h = chiMiddleware.SetHeader(securityHeaders[i][0], securityHeaders[i][1])(h)
		}
		return h
	}
}
