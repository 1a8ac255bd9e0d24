// internal/middleware/limit.go
//
// Worker-slot limiter.
//
// `server.workers` bounds how many handlers run at once.  Requests beyond
// the bound wait for a slot, for at most `wait` (the request timeout) or
// until the client goes away, and are then answered with 503 without
// reaching the handler.  A bound of zero disables the limiter; a zero wait
// leaves only the client's context as the bound.
//
// Mount Limit outside chi's Timeout.  The 503 is then the only response
// written for a rejected request, and the handler's own timeout starts
// once it holds a slot.

package middleware

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vallheru/game-web/internal/metrics"
)

// Limit returns middleware admitting at most workers concurrent requests.
func Limit(workers uint, wait time.Duration) func(http.Handler) http.Handler {
	if workers == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	sem := semaphore.NewWeighted(int64(workers))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := acquire(r.Context(), sem, wait); err != nil {
				metrics.HTTPRejectedTotal.Inc()
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
			metrics.HTTPInFlight.Inc()
			defer func() {
				metrics.HTTPInFlight.Dec()
				sem.Release(1)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func acquire(ctx context.Context, sem *semaphore.Weighted, wait time.Duration) error {
	if wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}
	return sem.Acquire(ctx, 1)
}
