package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct{}

func (stubValidator) ValidateToken(_ context.Context, token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &types.TokenClaims{UserID: 7}, nil
}

type stubStaff map[uint]bool

func (s stubStaff) IsStaff(_ context.Context, userID uint) (bool, error) {
	return s[userID], nil
}

func viewerHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"viewer": ViewerID(c)})
}

func serve(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/private", AuthMiddleware(stubValidator{}), viewerHandler)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"bearer token", "Bearer good", http.StatusOK},
		{"token scheme", "Token good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/private", tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/public", OptionalAuth(stubValidator{}), viewerHandler)

	w := serve(r, http.MethodGet, "/public", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"viewer":0}`, w.Body.String())

	w = serve(r, http.MethodGet, "/public", "Bearer good")
	assert.JSONEq(t, `{"viewer":7}`, w.Body.String())

	w = serve(r, http.MethodGet, "/public", "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireStaff(t *testing.T) {
	r := gin.New()
	auth := AuthMiddleware(stubValidator{})
	r.POST("/staff", auth, RequireStaff(stubStaff{7: true}), viewerHandler)
	r.POST("/nonstaff", auth, RequireStaff(stubStaff{}), viewerHandler)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/staff", "Bearer good").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/nonstaff", "Bearer good").Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDKeepsIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(), Metrics())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/api/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterWithoutRedisAllowsAll(t *testing.T) {
	r := gin.New()
	limiter := NewRateLimiter(nil, RateLimitConfig{Window: time.Minute, Limit: 1, KeyPrefix: "test"})
	r.POST("/recipes", AuthMiddleware(stubValidator{}), limiter.RateLimitMiddleware(), viewerHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/recipes", "Bearer good").Code)
	}
}

func TestRateLimiterWithRedis(t *testing.T) {
	url := testhelpers.SetupRedis(t)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	limiter := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test"})
	r.POST("/recipes", AuthMiddleware(stubValidator{}), limiter.RateLimitMiddleware(), viewerHandler)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/recipes", "Bearer good").Code)
	w := serve(r, http.MethodPost, "/recipes", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/recipes", "Bearer good").Code)
}
