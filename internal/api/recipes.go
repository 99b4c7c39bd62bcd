package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

// RecipeHandler serves recipes and the per-user recipe bookmarks
type RecipeHandler struct {
	recipes      service.IRecipeService
	relations    service.Relations
	shoppingList service.ShoppingList
	pageSize     int
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes service.IRecipeService, relations service.Relations, shoppingList service.ShoppingList, pageSize int) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		relations:    relations,
		shoppingList: shoppingList,
		pageSize:     pageSize,
	}
}

// RegisterRoutes mounts the recipe routes. Limiters may be nil.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc, creationLimiter, modificationLimiter *middleware.RateLimiter) {
	create := []gin.HandlerFunc{auth}
	if creationLimiter != nil {
		create = append(create, creationLimiter.RateLimitMiddleware())
	}
	modify := []gin.HandlerFunc{auth}
	if modificationLimiter != nil {
		modify = append(modify, modificationLimiter.PerRecipeRateLimitMiddleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.POST("", chain(create, h.CreateRecipe)...)
		recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.PUT("/:id", chain(modify, h.UpdateRecipe)...)
		recipes.PATCH("/:id", chain(modify, h.PartialUpdateRecipe)...)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.AddFavorite)
		recipes.DELETE("/:id/favorite", auth, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", auth, h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromShoppingCart)
	}
}

// ListRecipes handles GET /recipes
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	p, err := parsePage(c, h.pageSize)
	if err != nil {
		respondPageError(c)
		return
	}

	filter := types.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, service.NewValidationError("author", "Select a valid choice."))
			return
		}
		id := uint(author)
		filter.AuthorID = &id
	}

	results, total, err := h.recipes.ListRecipes(c.Request.Context(), filter, middleware.ViewerID(c), p.Offset(), p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := newPage(c, p, results, total)
	if err != nil {
		respondPageError(c)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetRecipe handles GET /recipes/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

// CreateRecipe handles POST /recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	in, err := h.recipes.Validate(ctx, &req, false)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.Create(ctx, middleware.ViewerID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.RecipeWrites.WithLabelValues("create").Inc()
	h.respondRecipe(c, http.StatusCreated, recipe)
}

// UpdateRecipe handles PUT /recipes/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	h.update(c, false)
}

// PartialUpdateRecipe handles PATCH /recipes/:id
func (h *RecipeHandler) PartialUpdateRecipe(c *gin.Context) {
	h.update(c, true)
}

func (h *RecipeHandler) update(c *gin.Context, partial bool) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.recipes.GetRecipe(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.recipes.Authorize(recipe, middleware.ViewerID(c)); err != nil {
		respondError(c, err)
		return
	}

	var req types.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	in, err := h.recipes.Validate(ctx, &req, partial)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.recipes.Update(ctx, recipe, in)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.RecipeWrites.WithLabelValues("update").Inc()
	h.respondRecipe(c, http.StatusOK, updated)
}

// DeleteRecipe handles DELETE /recipes/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.recipes.GetRecipe(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.recipes.Authorize(recipe, middleware.ViewerID(c)); err != nil {
		respondError(c, err)
		return
	}

	if err := h.recipes.DeleteRecipe(ctx, recipe); err != nil {
		respondError(c, err)
		return
	}
	metrics.RecipeWrites.WithLabelValues("delete").Inc()
	c.Status(http.StatusNoContent)
}

// respondRecipe renders a loaded recipe for the current viewer
func (h *RecipeHandler) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	resp, err := h.recipes.ToResponse(c.Request.Context(), recipe, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resp)
}

// AddFavorite handles POST /recipes/:id/favorite
func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addBookmark(c, "favorite", h.relations.AddFavorite)
}

// RemoveFavorite handles DELETE /recipes/:id/favorite
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeBookmark(c, "favorite", h.relations.RemoveFavorite)
}

// AddToShoppingCart handles POST /recipes/:id/shopping_cart
func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addBookmark(c, "shopping_cart", h.relations.AddToShoppingCart)
}

// RemoveFromShoppingCart handles DELETE /recipes/:id/shopping_cart
func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeBookmark(c, "shopping_cart", h.relations.RemoveFromShoppingCart)
}

type addFunc func(ctx context.Context, userID, recipeID uint) (*types.RecipeSummary, error)

type removeFunc func(ctx context.Context, userID, recipeID uint) error

func (h *RecipeHandler) addBookmark(c *gin.Context, kind string, add addFunc) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	summary, err := add(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.RecordBookmark(kind, "add")
	c.JSON(http.StatusCreated, summary)
}

func (h *RecipeHandler) removeBookmark(c *gin.Context, kind string, remove removeFunc) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), middleware.ViewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	metrics.RecordBookmark(kind, "remove")
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart handles GET /recipes/download_shopping_cart
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.shoppingList.Build(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.ShoppingListDownloads.Inc()
	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.shoppingList.Render(items)))
}

// chain returns middlewares followed by handler without sharing backing arrays
func chain(middlewares []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middlewares)+1)
	out = append(out, middlewares...)
	return append(out, handler)
}

// queryFlag reads a boolean filter such as is_favorited=1
func queryFlag(c *gin.Context, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	default:
		return false
	}
}

// idParam parses the :id path param, answering 404 when it is not an ID
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, service.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}
