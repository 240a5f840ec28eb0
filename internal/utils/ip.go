package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealIP extracts the client IP from various headers, respecting reverse proxies
func GetRealIP(c *gin.Context) string {
	// Try X-Real-IP first (set by reverse proxies)
	ip := c.GetHeader("X-Real-IP")
	if ip != "" {
		return ip
	}

	// X-Forwarded-For can be a comma-separated list; the leftmost entry
	// is the originating client.
	forwardedFor := c.GetHeader("X-Forwarded-For")
	if forwardedFor != "" {
		ips := strings.Split(forwardedFor, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	return c.ClientIP()
}
