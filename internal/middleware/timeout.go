package middleware

import (
	"context"
	"net/http"
	"time"
)

// RequestTimeout bounds the lifetime of each request context. Store calls made
// by handlers observe the deadline; a non-positive timeout disables it.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
