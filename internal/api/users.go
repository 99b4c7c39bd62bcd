package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves accounts, profiles and subscriptions
type UserHandler struct {
	auth     service.IAuthService
	users    service.IUserService
	follows  service.FollowGraph
	pageSize int
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(auth service.IAuthService, users service.IUserService, follows service.FollowGraph, pageSize int) *UserHandler {
	return &UserHandler{
		auth:     auth,
		users:    users,
		follows:  follows,
		pageSize: pageSize,
	}
}

// RegisterRoutes mounts the user and token routes
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("", optionalAuth, h.ListUsers)
		users.POST("", h.Register)
		users.GET("/me", auth, h.Me)
		users.POST("/set_password", auth, h.SetPassword)
		users.GET("/subscriptions", auth, h.Subscriptions)
		users.GET("/:id", optionalAuth, h.GetUser)
		users.POST("/:id/subscribe", auth, h.Subscribe)
		users.DELETE("/:id/subscribe", auth, h.Unsubscribe)
	}

	tokens := router.Group("/auth/token")
	{
		tokens.POST("/login", h.Login)
		tokens.POST("/logout", auth, h.Logout)
	}
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	p, err := parsePage(c, h.pageSize)
	if err != nil {
		respondPageError(c)
		return
	}

	users, total, err := h.users.ListUsers(c.Request.Context(), middleware.ViewerID(c), p.Offset(), p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := newPage(c, p, users, total)
	if err != nil {
		respondPageError(c)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	user, err := h.users.GetUser(c.Request.Context(), viewer, viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetPassword handles POST /users/set_password
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.auth.SetPassword(c.Request.Context(), middleware.ViewerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions handles GET /users/subscriptions
func (h *UserHandler) Subscriptions(c *gin.Context) {
	p, err := parsePage(c, h.pageSize)
	if err != nil {
		respondPageError(c)
		return
	}

	subs, total, err := h.follows.Subscriptions(c.Request.Context(), middleware.ViewerID(c), p.Offset(), p.Limit, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := newPage(c, p, subs, total)
	if err != nil {
		respondPageError(c)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Subscribe handles POST /users/:id/subscribe
func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	sub, err := h.follows.Subscribe(c.Request.Context(), middleware.ViewerID(c), id, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.FollowChanges.WithLabelValues("subscribe").Inc()
	c.JSON(http.StatusCreated, sub)
}

// Unsubscribe handles DELETE /users/:id/subscribe
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.follows.Unsubscribe(c.Request.Context(), middleware.ViewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	metrics.FollowChanges.WithLabelValues("unsubscribe").Inc()
	c.Status(http.StatusNoContent)
}

// Login handles POST /auth/token/login
func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.TokenResponse{AuthToken: token})
}

// Logout handles POST /auth/token/logout
func (h *UserHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit reads recipes_limit; -1 means no limit
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return -1
	}
	return n
}
