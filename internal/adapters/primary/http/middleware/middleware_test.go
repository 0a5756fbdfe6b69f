package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-service/internal/core/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ctxRequestID))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(headerRequestID)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(headerRequestID))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.NotEmpty(t, w.Header().Get("Permissions-Policy"))
}

func TestSecurityHeaders_HSTSOnEveryResponse(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", okHandler)
	r.GET("/missing-handler", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/x", "/missing-handler"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, "max-age=31536000; includeSubDomains; preload", w.Header().Get("Strict-Transport-Security"), path)
	}
}

func TestCanonicalHost(t *testing.T) {
	r := gin.New()
	r.Use(CanonicalHost())
	r.GET("/projects", okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects?page=2", nil)
	req.Host = "www.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://example.com/projects?page=2", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Host = "example.com"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/api/x", okHandler)

	for i := 2; i >= 0; i-- {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-Rate-Limit-Limit"))
		assert.Equal(t, strconv.Itoa(i), w.Header().Get("X-Rate-Limit-Remaining"))
		full := now.Add(time.Duration(3-i) * 20 * time.Second)
		assert.Equal(t, strconv.FormatInt(full.Unix(), 10), w.Header().Get("X-Rate-Limit-Reset"))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "20", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-Rate-Limit-Remaining"))
	assert.Equal(t, strconv.FormatInt(now.Add(20*time.Second).Unix(), 10), w.Header().Get("X-Rate-Limit-Reset"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	now = now.Add(20 * time.Second)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	allowed, _, _ := rl.take("10.0.0.1", time.Now())
	assert.True(t, allowed)
	allowed, _, _ = rl.take("10.0.0.1", time.Now())
	assert.False(t, allowed)
	allowed, _, _ = rl.take("10.0.0.2", time.Now())
	assert.True(t, allowed)
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rl.take("a", start)
	rl.take("b", start.Add(4*time.Minute))
	assert.Equal(t, 2, rl.Len())

	rl.take("c", start.Add(6*time.Minute))
	assert.Equal(t, 2, rl.Len())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://example.com"}))
	r.GET("/api/x", okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/x", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.NotContains(t, w.Body.String(), "ok")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

type stubSessions struct {
	session domain.Session
	err     error
	seen    string
}

func (s *stubSessions) CheckSession(token string) (domain.Session, error) {
	s.seen = token
	return s.session, s.err
}

func TestRequireAdmin(t *testing.T) {
	sessions := &stubSessions{session: domain.Session{Username: "admin"}}

	r := gin.New()
	r.Use(RequireAdmin(sessions, "admin-session"))
	r.GET("/admin", func(c *gin.Context) {
		s, ok := AdminSession(c)
		require.True(t, ok)
		c.String(http.StatusOK, s.Username)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "admin-session", Value: "tok"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
	assert.Equal(t, "tok", sessions.seen)
}

func TestRequireAdmin_Rejects(t *testing.T) {
	sessions := &stubSessions{err: domain.ErrSessionMissing}

	r := gin.New()
	r.Use(RequireAdmin(sessions, "admin-session"))
	r.GET("/admin", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized","code":"UNAUTHORIZED"}`, w.Body.String())
}
