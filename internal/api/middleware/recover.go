package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"Mediasnap/internal/api/handlers"
)

// Recoverer turns a panic into a JSON 500. The stack trace is logged, and
// echoed in the response only when showDetails is set.
func Recoverer(showDetails bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// Let net/http abort the connection
					panic(rec)
				}

				stack := debug.Stack()
				slog.Error("[HTTP] panic recovered",
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec),
					"stack", string(stack),
				)

				body := handlers.ErrorResponse{Error: "Internal server error"}
				if showDetails {
					body.Details = fmt.Sprintf("%v\n%s", rec, stack)
				}
				handlers.WriteError(w, r, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
