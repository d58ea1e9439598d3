package ratelimit

import (
	"net"
	"strings"
)

// Unknown identifica clientes sin dirección resoluble
const Unknown = "unknown"

// ClientIdentity resuelve la identidad del cliente: primera IP de
// X-Forwarded-For (se asume proxy confiable), luego la dirección del peer
// y por último "unknown".
func ClientIdentity(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}
	remoteAddr = strings.TrimSpace(remoteAddr)
	if remoteAddr == "" {
		return Unknown
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil && host != "" {
		return host
	}
	return remoteAddr
}
