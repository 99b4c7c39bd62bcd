package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestFollowService_Subscribe(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	reader := testhelpers.CreateUser(t, db)
	author := testhelpers.CreateUser(t, db)
	testhelpers.CreateRecipe(t, db, author, "Old", nil)
	newest := testhelpers.CreateRecipe(t, db, author, "New", nil)

	sub, err := svc.Subscribe(ctx, reader.ID, author.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, author.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, int64(2), sub.RecipesCount)
	require.Len(t, sub.Recipes, 1)
	assert.Equal(t, newest.ID, sub.Recipes[0].ID)

	_, err = svc.Subscribe(ctx, reader.ID, author.ID, -1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"User is already subscribed to this author"}, verr.Fields[NonFieldErrors])
}

func TestFollowService_SubscribeRejectsSelfAndUnknown(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db)

	_, err := svc.Subscribe(ctx, user.ID, user.ID, -1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Can't subscribe to yourself"}, verr.Fields[NonFieldErrors])

	_, err = svc.Subscribe(ctx, user.ID, 9999, -1)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestFollowService_SelfFollowBlockedByConstraint(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateUser(t, db)

	err := db.Omit("User", "Author").Create(&models.Follow{UserID: user.ID, AuthorID: user.ID}).Error
	assert.Error(t, err)
}

func TestFollowService_Unsubscribe(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	reader := testhelpers.CreateUser(t, db)
	author := testhelpers.CreateUser(t, db)

	assert.ErrorIs(t, svc.Unsubscribe(ctx, reader.ID, author.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Unsubscribe(ctx, reader.ID, 9999), ErrNotFound)

	_, err := svc.Subscribe(ctx, reader.ID, author.ID, -1)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(ctx, reader.ID, author.ID))
}

func TestFollowService_Subscriptions(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	reader := testhelpers.CreateUser(t, db)
	first := testhelpers.CreateUser(t, db)
	second := testhelpers.CreateUser(t, db)
	unrelated := testhelpers.CreateUser(t, db)
	for i := 0; i < 3; i++ {
		testhelpers.CreateRecipe(t, db, second, "Dish", nil)
	}

	for _, author := range []uint{first.ID, second.ID} {
		_, err := svc.Subscribe(ctx, reader.ID, author, -1)
		require.NoError(t, err)
	}
	_, err := svc.Subscribe(ctx, unrelated.ID, first.ID, -1)
	require.NoError(t, err)

	subs, total, err := svc.Subscriptions(ctx, reader.ID, 0, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, subs, 2)
	assert.Equal(t, first.ID, subs[0].ID)
	assert.Empty(t, subs[0].Recipes)
	assert.Equal(t, second.ID, subs[1].ID)
	assert.Len(t, subs[1].Recipes, 2)
	assert.Equal(t, int64(3), subs[1].RecipesCount)

	subs, total, err = svc.Subscriptions(ctx, reader.ID, 1, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, subs, 1)
	assert.Equal(t, second.ID, subs[0].ID)
	assert.Len(t, subs[0].Recipes, 3)
}
