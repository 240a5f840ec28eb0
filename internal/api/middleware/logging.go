package middleware

import (
	"fmt"
	"time"

	"github.com/rstltd/cg500-blueteeth-app/internal/utils"

	"github.com/gin-gonic/gin"
)

// ANSI color codes for terminal output
const (
	green  = "\033[97;42m"
	white  = "\033[90;47m"
	yellow = "\033[90;43m"
	red    = "\033[97;41m"
	blue   = "\033[97;44m"
	reset  = "\033[0m"
)

// statusColor returns the appropriate ANSI color for the HTTP status code
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return green
	case code >= 300 && code < 400:
		return white
	case code >= 400 && code < 500:
		return yellow
	default:
		return red
	}
}

// RequestLogger is a middleware that logs request information
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		clientIP := utils.GetRealIP(c)

		statusColorized := fmt.Sprintf("%s %3d %s", statusColor(statusCode), statusCode, reset)

		fmt.Printf(
			"[CG500-API] %s | %s | %13v | %15s | %s%s%s %s\n",
			time.Now().Format("2006/01/02 - 15:04:05"),
			statusColorized,
			latency,
			clientIP,
			blue, method, reset,
			path,
		)
	}
}
