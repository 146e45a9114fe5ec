package middleware

import (
	"time"

	"family-board/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLog writes one line per finished request.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"route", routeOf(c),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		}
		if ident := CurrentIdentity(c); ident != nil {
			args = append(args, "uid", ident.UserID)
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("http.request", args...)
		case status >= 400:
			logger.Warn("http.request", args...)
		default:
			logger.Info("http.request", args...)
		}
	}
}

func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
