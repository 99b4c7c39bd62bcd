package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		ServerHost:   "127.0.0.1",
		ServerPort:   "0",
		CORSOrigins:  []string{"http://localhost:3000"},
		JWTSecret:    "test-secret",
		MediaBackend: config.MediaLocal,
		MediaRoot:    t.TempDir(),
		MediaURL:     "/media/",
		PageSize:     6,
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	db := testhelpers.SetupSQLiteDB(t)
	srv := New(cfg, db, nil, storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL))
	require.NotNil(t, srv)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServesLocalMedia(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.MediaRoot, "recipes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.MediaRoot, "recipes", "a.txt"), []byte("hello"), 0o644))

	srv := New(cfg, testhelpers.SetupSQLiteDB(t), nil, storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/recipes/a.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

func TestHealthReportsDatabaseDown(t *testing.T) {
	cfg := testConfig(t)
	db := testhelpers.SetupSQLiteDB(t)
	srv := New(cfg, db, nil, storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStartAndShutdown(t *testing.T) {
	cfg := testConfig(t)
	srv := New(cfg, testhelpers.SetupSQLiteDB(t), nil, storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-errCh)
}
