package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestIngredientImporter_Import(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	imp := NewIngredientImporter(db)
	ctx := context.Background()
	testhelpers.CreateIngredient(t, db, "salt", "g")

	data := "\ufeffflour,g\nsalt,g\nsalt,pinch\n\"milk, whole\",ml\nflour,g\n"
	created, err := imp.Import(ctx, strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	var names []string
	require.NoError(t, db.Model(&models.Ingredient{}).Order("id").Pluck("name", &names).Error)
	assert.Equal(t, []string{"salt", "flour", "salt", "milk, whole"}, names)

	created, err = imp.Import(ctx, strings.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestIngredientImporter_RejectsMalformedRows(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	imp := NewIngredientImporter(db)

	_, err := imp.Import(context.Background(), strings.NewReader("flour,g\nsugar\n"))
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&n).Error)
	assert.Zero(t, n)
}
