package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// bookmark describes one per-user recipe relation table
type bookmark struct {
	model     func(userID, recipeID uint) interface{}
	duplicate string
}

var (
	favoriteBookmark = bookmark{
		model: func(userID, recipeID uint) interface{} {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
		duplicate: "Recipe is already in favorites",
	}
	cartBookmark = bookmark{
		model: func(userID, recipeID uint) interface{} {
			return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
		duplicate: "Recipe is already in shopping cart",
	}
)

// RelationService adds and removes favorites and shopping cart entries
type RelationService struct {
	db *gorm.DB
}

// Ensure RelationService implements Relations
var _ Relations = (*RelationService)(nil)

// NewRelationService creates a new RelationService instance
func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// AddFavorite bookmarks a recipe as a favorite of userID
func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uint) (*types.RecipeSummary, error) {
	return s.add(ctx, favoriteBookmark, userID, recipeID)
}

// RemoveFavorite removes a favorite bookmark
func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, favoriteBookmark, userID, recipeID)
}

// AddToShoppingCart puts a recipe into userID's cart
func (s *RelationService) AddToShoppingCart(ctx context.Context, userID, recipeID uint) (*types.RecipeSummary, error) {
	return s.add(ctx, cartBookmark, userID, recipeID)
}

// RemoveFromShoppingCart takes a recipe out of userID's cart
func (s *RelationService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, cartBookmark, userID, recipeID)
}

func (s *RelationService) add(ctx context.Context, b bookmark, userID, recipeID uint) (*types.RecipeSummary, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	row := b.model(userID, recipeID)
	var exists int64
	if err := s.db.WithContext(ctx).Model(row).Where(row).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to check bookmark: %w", err)
	}
	if exists > 0 {
		return nil, NewValidationError(NonFieldErrors, b.duplicate)
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError(NonFieldErrors, b.duplicate)
		}
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	summary := recipeSummary(*recipe)
	return &summary, nil
}

func (s *RelationService) remove(ctx context.Context, b bookmark, userID, recipeID uint) error {
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}

	row := b.model(userID, recipeID)
	res := s.db.WithContext(ctx).Where(row).Delete(row)
	if res.Error != nil {
		return fmt.Errorf("failed to delete bookmark: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RelationService) recipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}
