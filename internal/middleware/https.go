// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net"
	"net/http"
)

// ForceHTTPS returns a wrapper that answers plain-HTTP requests with a 308
// Permanent Redirect to the HTTPS version of the same URL.  Loopback hosts
// are exempt so local development keeps working.  A TLS-terminating proxy
// is recognised through X-Forwarded-Proto.
func ForceHTTPS(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" || isLoopback(r.Host) {
				next.ServeHTTP(w, r)
				return
			}
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
		})
	}
}

// isLoopback reports whether host (with optional :port) is localhost or a
// loopback address.
func isLoopback(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
