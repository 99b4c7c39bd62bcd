package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRelations is a mock implementation of service.Relations
type MockRelations struct {
	mock.Mock
}

func (m *MockRelations) AddFavorite(ctx context.Context, userID, recipeID uint) (*types.RecipeSummary, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeSummary), args.Error(1)
}

func (m *MockRelations) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockRelations) AddToShoppingCart(ctx context.Context, userID, recipeID uint) (*types.RecipeSummary, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeSummary), args.Error(1)
}

func (m *MockRelations) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

// MockShoppingList is a mock implementation of service.ShoppingList
type MockShoppingList struct {
	mock.Mock
}

func (m *MockShoppingList) Build(ctx context.Context, userID uint) ([]service.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ShoppingListItem), args.Error(1)
}

func (m *MockShoppingList) Render(items []service.ShoppingListItem) string {
	args := m.Called(items)
	return args.String(0)
}
