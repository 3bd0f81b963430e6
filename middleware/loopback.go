package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fitvault/utils"
)

// LoopbackOnly rejects requests whose TCP peer is not a loopback address.
// Proxy headers are not consulted.
func LoopbackOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := peerIP(c.Request.RemoteAddr)
		if ip == nil || !ip.IsLoopback() {
			utils.Error(c, http.StatusForbidden, 40301, "only loopback clients are allowed")
			return
		}
		c.Next()
	}
}

func peerIP(remoteAddr string) net.IP {
	host := strings.TrimSpace(remoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return net.ParseIP(host)
}
