package utils

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the address a request originated from, for access logs.
// Priority: the first X-Forwarded-For hop, X-Real-IP, the first "for=" of a
// Forwarded header (RFC 7239), then RemoteAddr with any port stripped.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	if fwd := r.Header.Get("Forwarded"); fwd != "" {
		if ip := forwardedFor(fwd); ip != "" {
			return ip
		}
	}

	return stripPort(r.RemoteAddr)
}

// forwardedFor extracts the node of the first for= directive.
func forwardedFor(header string) string {
	first, _, _ := strings.Cut(header, ",")
	for _, directive := range strings.Split(first, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(directive), "=")
		if !ok || !strings.EqualFold(name, "for") {
			continue
		}
		value = strings.Trim(value, `"`)
		return strings.Trim(stripPort(value), "[]")
	}
	return ""
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
