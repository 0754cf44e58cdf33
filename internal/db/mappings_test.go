package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDMapping_AppendOnly(t *testing.T) {
	db := testDB(t)

	const (
		uuidA = "1b671a64-40d5-491e-99b0-da01ff1f3341"
		uuidB = "c9bf9e57-1685-4c89-bafb-ff5af830be8a"
		ext   = "64d2a41b9f1c2a0007e3b1aa"
	)

	require.NoError(t, db.UpsertIDMapping(uuidA, ext))

	// Re-recording the same pair is a no-op
	require.NoError(t, db.UpsertIDMapping(uuidA, ext))

	// Attempting to repoint the external ID at another UUID is ignored
	require.NoError(t, db.UpsertIDMapping(uuidB, ext))

	got, err := db.GetMappingByExternalID(ext)
	require.NoError(t, err)
	assert.Equal(t, uuidA, got)

	back, err := db.GetMappingByUUID(uuidA)
	require.NoError(t, err)
	assert.Equal(t, ext, back)
}

func TestIDMapping_Miss(t *testing.T) {
	db := testDB(t)

	got, err := db.GetMappingByExternalID("ffffffffffffffffffffffff")
	require.NoError(t, err)
	assert.Empty(t, got)

	back, err := db.GetMappingByUUID("1b671a64-40d5-491e-99b0-da01ff1f3341")
	require.NoError(t, err)
	assert.Empty(t, back)
}
