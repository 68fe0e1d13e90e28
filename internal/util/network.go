package util

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client IP address from a request, preferring the
// first entry of X-Forwarded-For, then X-Real-IP, then RemoteAddr.
// The router applies chi's RealIP middleware, so RemoteAddr is normally
// already correct; the header fallbacks cover direct handler tests.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
