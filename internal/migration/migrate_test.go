package migration

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenhouse-labs/strainsync/internal/db"
	"github.com/greenhouse-labs/strainsync/internal/models"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.New(db.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestApply_FreshDatabase(t *testing.T) {
	database := testDB(t)

	result, err := Apply(database)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FromVersion)
	assert.Equal(t, CurrentSchemaVersion, result.ToVersion)
	assert.Zero(t, result.MappingsBackfilled)

	version, err := database.GetSyncMeta(models.SyncMetaSchemaVersion)
	require.NoError(t, err)
	assert.Equal(t, "2", version)
}

func TestApply_BackfillsMappings(t *testing.T) {
	database := testDB(t)

	id := uuid.New().String()
	require.NoError(t, database.UpsertCachedStrain(&models.CachedStrain{
		ID:         id,
		ExternalID: "ext-kush",
		Name:       "OG Kush",
		Type:       models.TypeHybrid,
	}))
	// A strain without an external ID is skipped, not an error.
	require.NoError(t, database.UpsertCachedStrain(&models.CachedStrain{
		ID:   uuid.New().String(),
		Name: "Mystery",
		Type: models.TypeHybrid,
	}))

	result, err := Apply(database)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MappingsBackfilled)

	mapped, err := database.GetMappingByExternalID("ext-kush")
	require.NoError(t, err)
	assert.Equal(t, id, mapped)
}

func TestApply_Idempotent(t *testing.T) {
	database := testDB(t)

	require.NoError(t, database.UpsertCachedStrain(&models.CachedStrain{
		ID:         uuid.New().String(),
		ExternalID: "ext-kush",
		Name:       "OG Kush",
		Type:       models.TypeHybrid,
	}))

	_, err := Apply(database)
	require.NoError(t, err)

	second, err := Apply(database)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, second.FromVersion)
	assert.Equal(t, CurrentSchemaVersion, second.ToVersion)
	assert.Zero(t, second.MappingsBackfilled)
}
