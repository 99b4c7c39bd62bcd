package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New wires the services over db and builds the HTTP server.
// redisClient may be nil, which disables rate limiting and token revocation.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.Store) *Server {
	var revoker service.TokenRevoker
	if redisClient != nil {
		revoker = service.NewRedisRevoker(redisClient)
	}

	svc := api.Services{
		Auth:         service.NewAuthService(db, cfg.JWTSecret, revoker),
		Users:        service.NewUserService(db),
		Recipes:      service.NewRecipeService(db, store),
		Relations:    service.NewRelationService(db),
		ShoppingList: service.NewShoppingListService(db),
		Follows:      service.NewFollowService(db),
		Catalog:      service.NewCatalogService(db),
	}

	opts := api.Options{
		PageSize: cfg.PageSize,
		Ping:     func(ctx context.Context) error { return ping(ctx, db, redisClient) },
	}
	if redisClient != nil {
		opts.CreationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
		opts.ModificationLimiter = middleware.NewRecipeModificationRateLimiter(redisClient)
	}

	s := &Server{
		cfg:    cfg,
		router: router.SetupRouter(cfg, svc, opts),
		db:     db,
		redis:  redisClient,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	logging.Info().Str("addr", s.http.Addr).Msg("server starting")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the backing stores
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("failed to close redis client")
		}
	}
	if cerr := database.Close(s.db); cerr != nil {
		logging.Warn().Err(cerr).Msg("failed to close database")
	}
	return err
}

func ping(ctx context.Context, db *gorm.DB, redisClient *redis.Client) error {
	if err := database.Ping(ctx, db); err != nil {
		return err
	}
	if redisClient != nil {
		return redisClient.Ping(ctx).Err()
	}
	return nil
}
