package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS middleware
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
		origin := c.Request.Header.Get("Origin")

		if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
			// In development, be permissive
			if origin != "" {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			} else {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			}
		} else {
			if allowedOrigins != "" {
				for _, allowed := range strings.Split(allowedOrigins, ",") {
					allowed = strings.TrimSpace(allowed)
					if allowed == "*" || origin == allowed {
						c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
						break
					}
				}
			} else {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Current-Version, Current-Build, Platform, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
