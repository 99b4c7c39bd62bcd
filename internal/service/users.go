package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserService reads user profiles relative to a viewer
type UserService struct {
	db *gorm.DB
}

// Ensure UserService implements IUserService
var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ListUsers returns one page of users ordered by id, and the total count
func (s *UserService) ListUsers(ctx context.Context, viewerID uint, offset, limit int) ([]types.UserResponse, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := subscribedSet(ctx, s.db, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	result := make([]types.UserResponse, len(users))
	for i, u := range users {
		result[i] = userResponse(u, subscribed[u.ID])
	}
	return result, total, nil
}

// GetUser retrieves a user profile by ID
func (s *UserService) GetUser(ctx context.Context, id, viewerID uint) (*types.UserResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}

	subscribed, err := subscribedSet(ctx, s.db, viewerID, []uint{user.ID})
	if err != nil {
		return nil, err
	}
	resp := userResponse(user, subscribed[user.ID])
	return &resp, nil
}

// subscribedSet returns which of authorIDs viewerID follows
func subscribedSet(ctx context.Context, db *gorm.DB, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	set := map[uint]bool{}
	if viewerID == 0 || len(authorIDs) == 0 {
		return set, nil
	}

	var found []uint
	err := db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check subscriptions: %w", err)
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

func userResponse(u models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}
