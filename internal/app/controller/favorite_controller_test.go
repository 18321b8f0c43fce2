package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteController_Toggle(t *testing.T) {
	app := setupTestApp(t)
	shirt := app.stock(t, "SHIRT-1", "19.99", "")
	productID := shirt.Variant.ProductID
	_, token := app.registerUser(t, "parent@example.com")

	var toggled struct {
		ProductID uint `json:"product_id"`
		Favorite  bool `json:"favorite"`
	}

	w := app.do(t, request{method: http.MethodPost, path: "/favorites/toggle", token: token,
		body: ToggleFavoriteRequest{ProductID: productID}})
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &toggled)
	assert.True(t, toggled.Favorite)
	assert.Equal(t, productID, toggled.ProductID)

	w = app.do(t, request{method: http.MethodGet, path: "/favorites", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Favorites []model.Favorite `json:"favorites"`
		Count     int              `json:"count"`
	}
	decode(t, w, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "SHIRT-1", list.Favorites[0].Product.Article)

	w = app.do(t, request{method: http.MethodPost, path: "/favorites/toggle", token: token,
		body: ToggleFavoriteRequest{ProductID: productID}})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &toggled)
	assert.False(t, toggled.Favorite)

	w = app.do(t, request{method: http.MethodGet, path: "/favorites", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Zero(t, list.Count)
}

func TestFavoriteController_Errors(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.registerUser(t, "parent@example.com")

	w := app.do(t, request{method: http.MethodGet, path: "/favorites"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, request{method: http.MethodPost, path: "/favorites/toggle", token: token,
		body: map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: http.MethodPost, path: "/favorites/toggle", token: token,
		body: ToggleFavoriteRequest{ProductID: 99999}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
