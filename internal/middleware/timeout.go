package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a full request, including upstream fetches
// from both trackers.
const DefaultRequestTimeout = 30 * time.Second

// Timeout enforces a deadline on request handlers. The timeout propagates to
// source adapters through the request context.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			handler := http.TimeoutHandler(next, timeout, "Request Timeout")
			handler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
