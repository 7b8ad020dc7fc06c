package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address of the caller. X-Forwarded-For is only
// honoured when the direct peer is a trusted proxy; the rightmost untrusted
// hop is taken so a client cannot spoof its address by prepending entries.
func ClientIP(r *http.Request, isTrusted func(ip string) bool) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}

	if isTrusted == nil || !isTrusted(remote) {
		return remote
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return remote
	}

	hops := strings.Split(xff, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !isTrusted(hop) {
			return hop
		}
	}
	return strings.TrimSpace(hops[0])
}
