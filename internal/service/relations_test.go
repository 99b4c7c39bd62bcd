package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRelationService_Favorites(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, db)
	viewer := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, author, "Soup", nil)

	summary, err := svc.AddFavorite(ctx, viewer.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, summary.ID)
	assert.Equal(t, "Soup", summary.Name)
	assert.Equal(t, recipe.CookingTime, summary.CookingTime)

	_, err = svc.AddFavorite(ctx, viewer.ID, recipe.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Recipe is already in favorites"}, verr.Fields[NonFieldErrors])

	var n int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	require.NoError(t, svc.RemoveFavorite(ctx, viewer.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFavorite(ctx, viewer.ID, recipe.ID), ErrNotFound)
}

func TestRelationService_ShoppingCart(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, db)
	viewer := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, author, "Salad", nil)

	_, err := svc.AddToShoppingCart(ctx, viewer.ID, recipe.ID)
	require.NoError(t, err)

	_, err = svc.AddToShoppingCart(ctx, viewer.ID, recipe.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Recipe is already in shopping cart"}, verr.Fields[NonFieldErrors])

	// The author's own cart is independent of the viewer's.
	_, err = svc.AddToShoppingCart(ctx, author.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFromShoppingCart(ctx, viewer.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFromShoppingCart(ctx, viewer.ID, recipe.ID), ErrNotFound)
}

func TestRelationService_UnknownRecipe(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()
	viewer := testhelpers.CreateUser(t, db)

	_, err := svc.AddFavorite(ctx, viewer.ID, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.RemoveFromShoppingCart(ctx, viewer.ID, 404), ErrNotFound)
}

func TestShoppingListService_SumsPerIngredient(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewShoppingListService(db)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, db)
	viewer := testhelpers.CreateUser(t, db)
	sugar := testhelpers.CreateIngredient(t, db, "sugar", "g")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")

	a := testhelpers.CreateRecipe(t, db, author, "A", []testhelpers.RecipeItem{{Ingredient: sugar, Amount: 2}, {Ingredient: eggs, Amount: 1}})
	b := testhelpers.CreateRecipe(t, db, author, "B", []testhelpers.RecipeItem{{Ingredient: sugar, Amount: 3}})
	testhelpers.CreateRecipe(t, db, author, "C", []testhelpers.RecipeItem{{Ingredient: salt, Amount: 7}})
	require.NoError(t, db.Create(&models.ShoppingCart{UserID: viewer.ID, RecipeID: a.ID}).Error)
	require.NoError(t, db.Create(&models.ShoppingCart{UserID: viewer.ID, RecipeID: b.ID}).Error)

	items, err := svc.Build(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingListItem{
		{IngredientID: eggs.ID, Name: "eggs", MeasurementUnit: "pcs", Amount: 1},
		{IngredientID: sugar.ID, Name: "sugar", MeasurementUnit: "g", Amount: 5},
	}, items)

	assert.Equal(t, "Shopping list:\n\n- eggs — 1 pcs\n- sugar — 5 g", svc.Render(items))
}

func TestShoppingListService_EmptyCart(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewShoppingListService(db)
	viewer := testhelpers.CreateUser(t, db)

	items, err := svc.Build(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "Shopping list:\n", svc.Render(items))
}
