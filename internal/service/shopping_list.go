package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const shoppingListHeader = "Shopping list:\n"

// ShoppingListItem is the summed amount of one ingredient across a cart
type ShoppingListItem struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int64
}

// ShoppingListService aggregates shopping carts into shopping lists
type ShoppingListService struct {
	db *gorm.DB
}

// Ensure ShoppingListService implements ShoppingList
var _ ShoppingList = (*ShoppingListService)(nil)

// NewShoppingListService creates a new ShoppingListService instance
func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build sums the ingredient amounts of every recipe in userID's cart,
// one item per ingredient, ordered by ingredient name.
func (s *ShoppingListService) Build(ctx context.Context, userID uint) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.id AS ingredient_id, ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.id").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping list: %w", err)
	}
	return items, nil
}

// Render formats items as the downloadable text list
func (s *ShoppingListService) Render(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(shoppingListHeader)
	if len(items) == 0 {
		return b.String()
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("- %s — %d %s", item.Name, item.Amount, item.MeasurementUnit)
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
