package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS admits credentialed requests from the configured origins. A pattern
// ending in ":*" matches that scheme and host on any port.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  OriginMatcher(origins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func OriginMatcher(patterns []string) func(origin string) bool {
	return func(origin string) bool {
		for _, p := range patterns {
			if matchOrigin(p, origin) {
				return true
			}
		}
		return false
	}
}

func matchOrigin(pattern, origin string) bool {
	prefix, ok := strings.CutSuffix(pattern, ":*")
	if !ok {
		return pattern == origin
	}
	if origin == prefix {
		return true
	}
	port, ok := strings.CutPrefix(origin, prefix+":")
	if !ok || port == "" {
		return false
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SecurityHeaders sets the browser hardening headers every API reply carries.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}
