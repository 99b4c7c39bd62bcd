package testhelpers

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// TestPassword is the password of every user created by CreateUser
const TestPassword = "testpassword123"

// PixelPNG is a 1x1 PNG as a data URI
const PixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var (
	seq          atomic.Int64
	passwordHash = sync.OnceValues(func() ([]byte, error) {
		return bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	})
)

func next() int64 {
	return seq.Add(1)
}

// CreateUser inserts a user with a unique email and username
func CreateUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	hash, err := passwordHash()
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	n := next()
	user := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", n),
		Username:     fmt.Sprintf("user%d", n),
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", n),
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateIngredient inserts a catalog ingredient
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ing
}

// CreateTag inserts a tag with a unique slug
func CreateTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: "#E26C2D", Slug: fmt.Sprintf("tag-%d", next())}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// RecipeItem is an (ingredient, amount) pair for CreateRecipe
type RecipeItem struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe by author with the given ingredients and tags.
// Each call gets a strictly later created_at than the previous one.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, items []RecipeItem, tags ...*models.Tag) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "http://localhost/media/recipes/images/test.png",
		Text:        "Mix and serve.",
		CookingTime: 10,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(next()) * time.Minute),
	}
	if err := db.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}

	for _, item := range items {
		row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: item.Ingredient.ID, Amount: item.Amount}
		if err := db.Omit("Recipe", "Ingredient").Create(&row).Error; err != nil {
			t.Fatalf("failed to attach test ingredient: %v", err)
		}
	}
	if len(tags) > 0 {
		if err := db.Model(recipe).Association("Tags").Append(tags); err != nil {
			t.Fatalf("failed to attach test tags: %v", err)
		}
	}
	return recipe
}
