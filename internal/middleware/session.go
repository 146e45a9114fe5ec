package middleware

import (
	"context"
	"errors"
	"strings"

	"family-board/internal/logger"
	"family-board/internal/model"
	"family-board/internal/service"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Resolver maps a session token to the caller it belongs to.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*model.Identity, error)
}

// Identify resolves the caller once per request from the session cookie, or
// from an "Authorization: Bearer" header for non-browser clients. Requests
// without a valid session continue as anonymous.
func Identify(sessions Resolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}
		ident, err := sessions.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(identityKey, ident)
		case errors.Is(err, service.ErrUnauthenticated):
		default:
			logger.Warn("session.resolve.failed", "err", err)
		}
		c.Next()
	}
}

// SessionToken returns the raw session token sent with the request.
func SessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// CurrentIdentity returns the caller resolved by Identify, or nil.
func CurrentIdentity(c *gin.Context) *model.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	ident, _ := v.(*model.Identity)
	return ident
}
