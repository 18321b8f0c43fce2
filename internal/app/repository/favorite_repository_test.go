package repository

import (
	"context"
	"testing"

	"github.com/ikkim/kidsshop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRepository_AddRemove(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewFavoriteRepository(testDB)
	ctx := context.Background()

	user, err := db.CreateTestUser(testDB, "fav@example.com")
	require.NoError(t, err)
	stock, err := db.CreateTestStock(testDB, "F-1", "10", "", 1)
	require.NoError(t, err)
	productID := stock.Variant.ProductID

	added, err := repo.Add(ctx, user.ID, productID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, user.ID, productID)
	require.NoError(t, err)
	assert.False(t, added)

	favorites, err := repo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "F-1", favorites[0].Product.Article)

	removed, err := repo.Remove(ctx, user.ID, productID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, user.ID, productID)
	require.NoError(t, err)
	assert.False(t, removed)
}
