// internal/middleware/accesslog.go
//
// Access log and request metrics.
//
// One INFO event per request with method, route pattern, status, bytes,
// duration, request id, and the coarse User-Agent class from internal/ua.
// The chi route pattern (e.g. "/health/db") is used as the metrics label
// so unmatched paths collapse into one series instead of one per URL.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vallheru/game-web/internal/metrics"
	"github.com/vallheru/game-web/internal/ua"
)

// unmatchedRoute labels requests no route claimed.
const unmatchedRoute = "unmatched"

// AccessLog returns middleware that logs through log and records request
// metrics.
func AccessLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			elapsed := time.Since(start)

			metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", elapsed,
				"request_id", chimw.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			}
			kv = append(kv, ua.Parse(r.UserAgent()).Fields()...)
			log.Infow("request", kv...)
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
