// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
This handler sits first in the chain.  For every request it:

  1. Assigns a request id (an inbound X-Request-Id is kept, otherwise a
     fresh UUID) and echoes it in the response.
  2. Parses the User-Agent header and Accept-Language list.
  3. Extracts the left-most client IP from X-Forwarded-For or X-Real-IP,
     falling back to `r.RemoteAddr`, and runs the optional GeoLite2 lookup.
  4. Stores the *RequestInfo and a request-scoped logger in the context.
  5. Writes one access-log line when the handler returns.

Notes
-----
  • Oxford commas, two spaces after periods.
*/
package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanizio/anime-catalog/internal/logger"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-Id"

// Middleware returns the enrichment wrapper.  geo may be nil.
func Middleware(geo *GeoDB, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.S()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(HeaderRequestID)
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			info := &RequestInfo{
				ID:        id,
				UA:        parseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
				Geo:       geo.Lookup(clientIP(r)),
				Path:      r.URL.Path,
				Timestamp: start.UTC(),
			}
			reqLog := log.With("req", id)

			ctx := context.WithValue(r.Context(), ctxKey{}, info)
			ctx = logger.WithContext(ctx, reqLog)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLog.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start),
				"ip", info.Geo.IP,
				"country", info.Geo.CountryISO,
				"browser", info.UA.Browser,
				"device", info.UA.Device,
				"bot", info.UA.IsBot,
			)
		})
	}
}

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}
