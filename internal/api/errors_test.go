package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func newMockedRecipeRouter(relations *mocks.MockRelations, list *mocks.MockShoppingList) *gin.Engine {
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, "good").Return(&types.TokenClaims{UserID: 7}, nil)
	auth.On("ValidateToken", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidToken)

	router := gin.New()
	router.Use(middleware.Recovery())
	h := NewRecipeHandler(nil, relations, list, 6)
	h.RegisterRoutes(router.Group("/api"), middleware.AuthMiddleware(auth), middleware.OptionalAuth(auth), nil, nil)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Token good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBookmarkErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"duplicate", service.NewValidationError(service.NonFieldErrors, "Recipe is already in favorites"), http.StatusBadRequest},
		{"forbidden", service.ErrPermissionDenied, http.StatusForbidden},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relations := new(mocks.MockRelations)
			relations.On("AddFavorite", mock.Anything, uint(7), uint(3)).Return(nil, tt.err)

			w := serve(newMockedRecipeRouter(relations, nil), http.MethodPost, "/api/recipes/3/favorite")
			assert.Equal(t, tt.status, w.Code)
			relations.AssertExpectations(t)
		})
	}
}

func TestRemoveFromShoppingCartUsesViewer(t *testing.T) {
	relations := new(mocks.MockRelations)
	relations.On("RemoveFromShoppingCart", mock.Anything, uint(7), uint(12)).Return(nil)

	w := serve(newMockedRecipeRouter(relations, nil), http.MethodDelete, "/api/recipes/12/shopping_cart")
	assert.Equal(t, http.StatusNoContent, w.Code)
	relations.AssertExpectations(t)
}

func TestDownloadShoppingCartRendersBuiltItems(t *testing.T) {
	items := []service.ShoppingListItem{{IngredientID: 1, Name: "salt", MeasurementUnit: "g", Amount: 5}}
	list := new(mocks.MockShoppingList)
	list.On("Build", mock.Anything, uint(7)).Return(items, nil)
	list.On("Render", items).Return("Shopping list:\n\n- salt — 5 g")

	w := serve(newMockedRecipeRouter(new(mocks.MockRelations), list), http.MethodGet, "/api/recipes/download_shopping_cart")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shopping list:\n\n- salt — 5 g", w.Body.String())
	list.AssertExpectations(t)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	router := newMockedRecipeRouter(new(mocks.MockRelations), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/recipes/3/favorite", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
