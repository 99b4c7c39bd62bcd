package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services are the domain services the HTTP layer is built on
type Services struct {
	Auth         service.IAuthService
	Users        service.IUserService
	Recipes      service.IRecipeService
	Relations    service.Relations
	ShoppingList service.ShoppingList
	Follows      service.FollowGraph
	Catalog      service.Catalog
}

// Options tune route registration. Nil limiters disable rate limiting.
type Options struct {
	PageSize            int
	CreationLimiter     *middleware.RateLimiter
	ModificationLimiter *middleware.RateLimiter
	// Ping checks the backing stores for /health
	Ping func(ctx context.Context) error
}

// HealthCheck returns the health status of the API
func HealthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services, opts Options) {
	RegisterValidators()
	if opts.PageSize <= 0 {
		opts.PageSize = 6
	}

	router.GET("/health", HealthCheck(opts.Ping))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.AuthMiddleware(svc.Auth)
	optionalAuth := middleware.OptionalAuth(svc.Auth)
	staff := middleware.RequireStaff(svc.Auth)

	api := router.Group("/api")
	api.GET("/health", HealthCheck(opts.Ping))

	NewRecipeHandler(svc.Recipes, svc.Relations, svc.ShoppingList, opts.PageSize).
		RegisterRoutes(api, auth, optionalAuth, opts.CreationLimiter, opts.ModificationLimiter)
	NewCatalogHandler(svc.Catalog).RegisterRoutes(api, auth, staff)
	NewUserHandler(svc.Auth, svc.Users, svc.Follows, opts.PageSize).RegisterRoutes(api, auth, optionalAuth)

	router.NoRoute(middleware.NotFound())
}
