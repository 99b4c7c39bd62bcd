package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	msgSelfSubscribe     = "Can't subscribe to yourself"
	msgAlreadySubscribed = "User is already subscribed to this author"
)

// FollowService manages who follows whom. Subscribe is the only write
// path that creates follows.
type FollowService struct {
	db *gorm.DB
}

// Ensure FollowService implements FollowGraph
var _ FollowGraph = (*FollowService)(nil)

// NewFollowService creates a new FollowService instance
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Subscribe makes userID follow authorID. A negative recipesLimit keeps every recipe.
func (s *FollowService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.SubscriptionResponse, error) {
	author, err := s.author(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, NewValidationError(NonFieldErrors, msgSelfSubscribe)
	}

	var exists int64
	err = s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&exists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if exists > 0 {
		return nil, NewValidationError(NonFieldErrors, msgAlreadySubscribed)
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Omit("User", "Author").Create(&follow).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError(NonFieldErrors, msgAlreadySubscribed)
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	out, err := s.enrich(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Unsubscribe removes the follow of authorID by userID
func (s *FollowService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.author(ctx, authorID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Subscriptions returns one page of the authors userID follows, in follow order
func (s *FollowService) Subscriptions(ctx context.Context, userID uint, offset, limit, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	followed := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.User{}).
			Joins("JOIN follows ON follows.author_id = users.id").
			Where("follows.user_id = ?", userID)
	}

	var total int64
	if err := followed().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []models.User
	err := followed().Order("follows.id").Offset(offset).Limit(limit).Find(&authors).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	out, err := s.enrich(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// enrich renders followed authors with their newest recipes and recipe count
func (s *FollowService) enrich(ctx context.Context, authors []models.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	out := make([]types.SubscriptionResponse, len(authors))
	for i, author := range authors {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count recipes: %w", err)
		}

		query := s.db.WithContext(ctx).Where("author_id = ?", author.ID).Order("created_at DESC, id DESC")
		if recipesLimit >= 0 {
			query = query.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, fmt.Errorf("failed to list author recipes: %w", err)
		}

		summaries := make([]types.RecipeSummary, len(recipes))
		for j, r := range recipes {
			summaries[j] = recipeSummary(r)
		}

		out[i] = types.SubscriptionResponse{
			UserResponse: userResponse(author, true),
			Recipes:      summaries,
			RecipesCount: count,
		}
	}
	return out, nil
}

func (s *FollowService) author(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
