package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"family-board/internal/model"
	"family-board/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type stubResolver map[string]*model.Identity

func (s stubResolver) Resolve(_ context.Context, token string) (*model.Identity, error) {
	if token == "broken" {
		return nil, errors.New("db down")
	}
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, service.ErrUnauthenticated
}

func whoami(c *gin.Context) {
	if id := CurrentIdentity(c); id != nil {
		c.String(http.StatusOK, id.Username)
		return
	}
	c.String(http.StatusOK, "anonymous")
}

func TestIdentify(t *testing.T) {
	r := gin.New()
	r.Use(Identify(stubResolver{"good": {UserID: 1, Username: "kimdev"}}, "FBSESSION"))
	r.GET("/who", whoami)

	cases := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{"no credentials", func(*http.Request) {}, "anonymous"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "FBSESSION", Value: "good"}) }, "kimdev"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, "kimdev"},
		{"unknown token", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "FBSESSION", Value: "nope"}) }, "anonymous"},
		{"resolver failure", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "FBSESSION", Value: "broken"}) }, "anonymous"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestOriginMatcher(t *testing.T) {
	allow := OriginMatcher([]string{"http://localhost:*", "http://127.0.0.1:*", "https://board.example"})

	assert.True(t, allow("http://localhost:3000"))
	assert.True(t, allow("http://localhost"))
	assert.True(t, allow("http://127.0.0.1:5173"))
	assert.True(t, allow("https://board.example"))

	assert.False(t, allow("http://localhost.evil.com"))
	assert.False(t, allow("http://localhost:30x0"))
	assert.False(t, allow("https://localhost:3000"))
	assert.False(t, allow("http://evil.example"))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:*"}))
	r.GET("/api/boards", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/boards", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(NewIPRateLimiter(0.001, 2)), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/boards/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/boards/7", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body),
		`family_board_http_requests_total{method="GET",route="/api/boards/:id",status="200"} 1`))
}
