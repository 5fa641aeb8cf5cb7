//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types that collect per-request metadata (request id,
//  user-agent fingerprint, IP + geolocation, path, and timestamp).  The
//  structs are inert, so they are safe to log.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing, see ua.go)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/oschwald/geoip2-golang"
)

// Geo holds IP-based geolocation hints.  Fields are empty when no database
// is configured or the address has no match.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// RequestInfo is stored in the request context by Middleware.
type RequestInfo struct {
	ID        string
	UA        UA
	Geo       Geo
	Path      string
	Timestamp time.Time
}

type ctxKey struct{}

// FromContext returns the value stored by Middleware, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// GeoDB wraps a GeoLite2-City reader.  A nil *GeoDB is valid and returns
// empty results.
type GeoDB struct {
	r *geoip2.Reader
}

// OpenGeo opens the MaxMind database at path.
func OpenGeo(path string) (*GeoDB, error) {
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open GeoLite2 DB %s: %w", path, err)
	}
	return &GeoDB{r: r}, nil
}

// Lookup returns best-effort Geo data for ip.
func (g *GeoDB) Lookup(ip net.IP) Geo {
	if g == nil || g.r == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := g.r.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}

// Close releases the reader.
func (g *GeoDB) Close() error {
	if g == nil || g.r == nil {
		return nil
	}
	return g.r.Close()
}
