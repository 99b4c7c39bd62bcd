package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	userIDKey = "user_id"
	claimsKey = "token_claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// StaffChecker reports whether a user has staff rights
type StaffChecker interface {
	IsStaff(ctx context.Context, userID uint) (bool, error)
}

// AuthMiddleware creates a middleware that requires a valid bearer token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		authenticate(c, validator)
	}
}

// OptionalAuth identifies the user when a token is sent and lets anonymous
// requests through. A malformed or invalid token is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		authenticate(c, validator)
	}
}

func authenticate(c *gin.Context, validator TokenValidator) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		return
	}

	claims, err := validator.ValidateToken(c.Request.Context(), parts[1])
	if err != nil {
		logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("token rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	// Store user info in context
	c.Set(userIDKey, claims.UserID)
	c.Set(claimsKey, claims)
	c.Next()
}

// RequireStaff must run after AuthMiddleware
func RequireStaff(checker StaffChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}

		staff, err := checker.IsStaff(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Ctx(c.Request.Context()).Error().Err(err).Uint("user_id", userID).Msg("staff check failed")
		}
		if err != nil || !staff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID, if any
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// ViewerID returns the authenticated user's ID, or 0 for anonymous requests
func ViewerID(c *gin.Context) uint {
	id, _ := UserID(c)
	return id
}

// Claims returns the validated token claims, if any
func Claims(c *gin.Context) (*types.TokenClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.TokenClaims)
	return claims, ok
}
