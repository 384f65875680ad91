// Package ratelimit provides an HTTP middleware that throttles job
// submission using a shared token bucket, protecting the worker pool
// from an unbounded burst of uploads.
package ratelimit

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Middleware rejects requests with 429 once the shared token bucket is
// exhausted. It is process-wide, not per-client: there is no per-IP
// fairness requirement on submission, only a ceiling on how fast the
// server accepts work.
type Middleware struct {
	limiter *rate.Limiter
}

// New creates a Middleware allowing rps requests per second on average,
// with bursts up to burst.
func New(rps float64, burst int) *Middleware {
	return &Middleware{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wrap returns next guarded by the token bucket.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded, retry shortly"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
