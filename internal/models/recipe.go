package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Ingredient is a catalog entry. The same name may appear with different units.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null" json:"measurement_unit"`
	// NameLower is Name case-folded in Go; SQLite's LOWER only folds ASCII.
	NameLower string `gorm:"size:200;not null;default:'';index" json:"-"`
}

// BeforeSave keeps NameLower in step with Name
func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}

// Tag labels recipes. Color is a #RGB or #RRGGBB hex string.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:150;not null" json:"name"`
	Color string `gorm:"size:7;not null" json:"color"`
	Slug  string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
}

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Image       string    `gorm:"size:255;not null" json:"image"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1" json:"cooking_time"`

	Author      User               `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

// RecipeIngredient is the amount of one ingredient in one recipe.
type RecipeIngredient struct {
	ID           uint `gorm:"primarykey" json:"id"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient_amount" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient_amount;index" json:"ingredient_id"`
	Amount       int  `gorm:"not null;uniqueIndex:idx_recipe_ingredient_amount;check:chk_recipe_ingredient_amount,amount >= 1" json:"amount"`

	Recipe     Recipe     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Ingredient Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Favorite bookmarks a recipe for a user.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_pair" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_pair;index" json:"recipe_id"`

	User   User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ShoppingCart puts a recipe into a user's cart.
type ShoppingCart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_pair" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_pair;index" json:"recipe_id"`

	User   User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
