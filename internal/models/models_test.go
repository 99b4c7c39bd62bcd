package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestDeletingUserCascades(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	author := testhelpers.CreateUser(t, db)
	reader := testhelpers.CreateUser(t, db)
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "Bread", []testhelpers.RecipeItem{{Ingredient: flour, Amount: 500}})

	require.NoError(t, db.Create(&models.Follow{UserID: reader.ID, AuthorID: author.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{UserID: author.ID, AuthorID: reader.ID}).Error)
	require.NoError(t, db.Create(&models.Favorite{UserID: reader.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.ShoppingCart{UserID: reader.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.Favorite{UserID: author.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, db.Delete(&models.User{}, author.ID).Error)

	assert.Zero(t, count(t, db, &models.Recipe{}, "author_id = ?", author.ID))
	assert.Zero(t, count(t, db, &models.RecipeIngredient{}, "recipe_id = ?", recipe.ID))
	assert.Zero(t, count(t, db, &models.Follow{}, "user_id = ? OR author_id = ?", author.ID, author.ID))
	assert.Zero(t, count(t, db, &models.Favorite{}, "recipe_id = ?", recipe.ID))
	assert.Zero(t, count(t, db, &models.ShoppingCart{}, "recipe_id = ?", recipe.ID))

	assert.Equal(t, int64(1), count(t, db, &models.User{}, "id = ?", reader.ID))
	assert.Equal(t, int64(1), count(t, db, &models.Ingredient{}, "id = ?", flour.ID))
}

func TestDeletingIngredientCascades(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	author := testhelpers.CreateUser(t, db)
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "Bread", []testhelpers.RecipeItem{
		{Ingredient: flour, Amount: 500},
		{Ingredient: salt, Amount: 10},
	})

	require.NoError(t, db.Delete(&models.Ingredient{}, flour.ID).Error)

	assert.Zero(t, count(t, db, &models.RecipeIngredient{}, "ingredient_id = ?", flour.ID))
	assert.Equal(t, int64(1), count(t, db, &models.RecipeIngredient{}, "recipe_id = ?", recipe.ID))
}

func TestDeletingRecipeCascadesToIngredientRows(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	author := testhelpers.CreateUser(t, db)
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "Bread", []testhelpers.RecipeItem{{Ingredient: flour, Amount: 500}})

	require.NoError(t, db.Exec("DELETE FROM recipes WHERE id = ?", recipe.ID).Error)

	assert.Zero(t, count(t, db, &models.RecipeIngredient{}, "recipe_id = ?", recipe.ID))
}

func TestIngredientNameLowerFollowsName(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	ing := testhelpers.CreateIngredient(t, db, "Crème Fraîche", "g")
	assert.Equal(t, "crème fraîche", ing.NameLower)

	ing.Name = "МОЛОКО"
	require.NoError(t, db.Save(ing).Error)

	var stored models.Ingredient
	require.NoError(t, db.First(&stored, ing.ID).Error)
	assert.Equal(t, "молоко", stored.NameLower)
}
