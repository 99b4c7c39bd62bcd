package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Viewer IDs of 0 denote an anonymous request throughout this package.

// RecipeAggregate is the write and presentation contract of a recipe with
// its ingredient amounts and tags.
type RecipeAggregate interface {
	Validate(ctx context.Context, req *types.RecipeWriteRequest, partial bool) (*ValidatedRecipe, error)
	Create(ctx context.Context, authorID uint, in *ValidatedRecipe) (*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe, in *ValidatedRecipe) (*models.Recipe, error)
	ToResponse(ctx context.Context, recipe *models.Recipe, viewerID uint) (*types.RecipeResponse, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	RecipeAggregate
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, filter types.RecipeFilter, viewerID uint, offset, limit int) ([]types.RecipeResponse, int64, error)
	DeleteRecipe(ctx context.Context, recipe *models.Recipe) error
	Authorize(recipe *models.Recipe, userID uint) error
}

// Relations toggles the per-user favorite and shopping cart bookmarks
type Relations interface {
	AddFavorite(ctx context.Context, userID, recipeID uint) (*types.RecipeSummary, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uint) error
	AddToShoppingCart(ctx context.Context, userID, recipeID uint) (*types.RecipeSummary, error)
	RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error
}

// ShoppingList aggregates a user's cart into a shopping list
type ShoppingList interface {
	Build(ctx context.Context, userID uint) ([]ShoppingListItem, error)
	Render(items []ShoppingListItem) string
}

// FollowGraph manages subscriptions between users
type FollowGraph interface {
	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	Subscriptions(ctx context.Context, userID uint, offset, limit, recipesLimit int) ([]types.SubscriptionResponse, int64, error)
}

// Catalog serves the ingredient and tag reference tables
type Catalog interface {
	SearchIngredients(ctx context.Context, prefix string) ([]types.IngredientResponse, error)
	GetIngredient(ctx context.Context, id uint) (*types.IngredientResponse, error)
	ListTags(ctx context.Context) ([]types.TagResponse, error)
	GetTag(ctx context.Context, id uint) (*types.TagResponse, error)
	CreateTag(ctx context.Context, name, color, slug string) (*types.TagResponse, error)
}

// IUserService defines the interface for user profile reads
type IUserService interface {
	ListUsers(ctx context.Context, viewerID uint, offset, limit int) ([]types.UserResponse, int64, error)
	GetUser(ctx context.Context, id, viewerID uint) (*types.UserResponse, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	SetPassword(ctx context.Context, userID uint, current, next string) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
	IsStaff(ctx context.Context, userID uint) (bool, error)
}
