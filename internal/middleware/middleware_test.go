package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mockexam-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	claims *service.Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*service.Claims, error) {
	return s.claims, s.err
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUserJWT(t *testing.T) {
	tests := []struct {
		name      string
		validator stubValidator
		header    string
		status    int
		code      string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, code: "TOKEN_REQUIRED"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, code: "TOKEN_REQUIRED"},
		{name: "invalid token", validator: stubValidator{err: errors.New("bad")}, header: "Bearer abc", status: http.StatusUnauthorized, code: "TOKEN_INVALID"},
		{name: "valid token", validator: stubValidator{claims: &service.Claims{UserID: 7}}, header: "Bearer abc", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", RequireUserJWT(tt.validator), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"user_id": GetClaims(c).UserID})
			})

			w := serve(r, tt.header)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), tt.code)
			} else {
				assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
			}
		})
	}
}

func TestRateLimiter_RefillsAfterInterval(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("ip:1"))
	assert.True(t, rl.allow("ip:1"))
	assert.False(t, rl.allow("ip:1"))
	assert.True(t, rl.allow("ip:2"), "buckets are per client")

	now = now.Add(time.Minute)
	assert.True(t, rl.allow("ip:1"))

	now = now.Add(10 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.visitors)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	r := gin.New()
	r.GET("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, "").Code)
	w := serve(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimiter_ZeroRateDisables(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	r := gin.New()
	r.GET("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, "").Code)
	}
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("question ", 400)
	r := gin.New()
	r.Use(Brotli(DefaultBrotliConfig))
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	get := func(path, encoding string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", encoding)
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/large", "gzip, br;q=0.9")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	assert.Less(t, w.Body.Len(), len(large))
	decoded, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, large, string(decoded))

	w = get("/small", "br")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())

	w = get("/large", "gzip")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, large, w.Body.String())
}
