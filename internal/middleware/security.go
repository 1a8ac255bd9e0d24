// internal/middleware/security.go
//
// Security-header middleware.
//
// Sets a conservative header set on every response:
//
//   - Content-Security-Policy   self-only, inline styles allowed for the map
//   - X-Frame-Options           click-jacking defence
//   - X-Content-Type-Options    MIME-sniffing defence
//   - Referrer-Policy           drops path and query from Referer
//   - Permissions-Policy        disables powerful browser features
//
// Notes
// -----
//   - Headers are set *before* next.ServeHTTP so they reach the client even
//     when a handler flushes early.  A handler may still overwrite any of
//     them.
//   - HSTS is left to the TLS-terminating proxy in front of game-web; the
//     process itself only speaks plain HTTP.

package middleware

import "net/http"

var securityHeaders = [...][2]string{
	{"Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; " +
		"object-src 'none'; base-uri 'self'; frame-ancestors 'none'"},
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
}

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range securityHeaders {
			h.Set(kv[0], kv[1])
		}
		next.ServeHTTP(w, r)
	})
}
