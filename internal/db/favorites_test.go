package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "f47ac10b-58cc-4372-a567-0e02b2c3d479"

func TestAddFavorite_Idempotent(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.AddFavorite(testUserID, "64d2a41b9f1c2a0007e3b1aa", "OG Kush"))
	require.NoError(t, db.AddFavorite(testUserID, "64d2a41b9f1c2a0007e3b1aa", "OG Kush"))

	favs, err := db.ListFavorites(testUserID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "OG Kush", favs[0].Name)
	assert.False(t, favs[0].AddedAt.IsZero())
}

func TestHasFavorite(t *testing.T) {
	db := testDB(t)

	ok, err := db.HasFavorite(testUserID, "64d2a41b9f1c2a0007e3b1aa")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.AddFavorite(testUserID, "64d2a41b9f1c2a0007e3b1aa", "OG Kush"))

	ok, err = db.HasFavorite(testUserID, "64d2a41b9f1c2a0007e3b1aa")
	require.NoError(t, err)
	assert.True(t, ok)

	// Other users don't see it
	ok, err = db.HasFavorite("c9bf9e57-1685-4c89-bafb-ff5af830be8a", "64d2a41b9f1c2a0007e3b1aa")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveFavorites_MultipleIDForms(t *testing.T) {
	db := testDB(t)

	// Same logical strain stored under both the external ID and the UUID
	require.NoError(t, db.AddFavorite(testUserID, "64d2a41b9f1c2a0007e3b1aa", "OG Kush"))
	require.NoError(t, db.AddFavorite(testUserID, "1b671a64-40d5-491e-99b0-da01ff1f3341", "OG Kush"))

	removed, err := db.RemoveFavorites(testUserID,
		"64d2a41b9f1c2a0007e3b1aa", "1b671a64-40d5-491e-99b0-da01ff1f3341")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	favs, err := db.ListFavorites(testUserID)
	require.NoError(t, err)
	assert.Empty(t, favs)

	// Removing again is a no-op
	removed, err = db.RemoveFavorites(testUserID, "64d2a41b9f1c2a0007e3b1aa")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRemoveFavorites_NoIDs(t *testing.T) {
	db := testDB(t)

	removed, err := db.RemoveFavorites(testUserID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
