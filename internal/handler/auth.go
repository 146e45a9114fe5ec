package handler

import (
	"net/http"
	"time"

	"family-board/internal/config"
	"family-board/internal/logger"
	"family-board/internal/middleware"
	"family-board/internal/model"
	"family-board/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionService
	cookie   config.SessionConfig
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookie: cookie}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "registration successful", model.UserResponseFrom(model.NewIdentity(u)))
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	u, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		logger.Warn("auth.login.failed", "username", req.Username)
		fail(c, err)
		return
	}
	token, expires, err := h.sessions.Open(ctx, u.ID)
	if err != nil {
		fail(c, err)
		return
	}
	h.setCookie(c, token, expires)

	logger.Info("auth.login.ok", "uid", u.ID, "username", u.Username)
	ok(c, "login successful", model.UserResponseFrom(model.NewIdentity(u)))
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c, h.cookie.CookieName); token != "" {
		if err := h.sessions.Close(c.Request.Context(), token); err != nil {
			fail(c, err)
			return
		}
	}
	h.setCookie(c, "", time.Time{})
	ok(c, "logout successful", nil)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	if ident == nil {
		fail(c, service.ErrUnauthenticated)
		return
	}
	ok(c, "success", model.UserResponseFrom(ident))
}

// GET /api/auth/status
func (h *AuthHandler) Status(c *gin.Context) {
	ok(c, "success", middleware.CurrentIdentity(c) != nil)
}

// setCookie writes the session cookie; a zero expiry deletes it.
func (h *AuthHandler) setCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := -1
	if !expires.IsZero() {
		maxAge = int(time.Until(expires).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, token, maxAge, "/", "", h.cookie.Secure, true)
}
