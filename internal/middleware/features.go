package middleware

import "net/http"

// Gate answers 404 unless enabled.  Feature-gated routes are registered
// either way so the route table does not depend on configuration.
func Gate(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if enabled {
			return next
		}
		return http.HandlerFunc(http.NotFound)
	}
}
