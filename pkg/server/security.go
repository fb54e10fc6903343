package server

import (
	"net/http"
)

// securityHeadersMiddleware sets the headers every API response carries. The
// API only ever returns JSON so nothing may be framed, sniffed or cached.
func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		// 2 years
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// prices, devices and summary change underneath the dashboard's pollers
		h.Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}
