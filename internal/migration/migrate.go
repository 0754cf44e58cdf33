// Package migration upgrades local databases created by earlier releases.
// Migrations are stepwise and idempotent - running against a current or
// freshly created database is a no-op.
package migration

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/greenhouse-labs/strainsync/internal/db"
	"github.com/greenhouse-labs/strainsync/internal/models"
)

// CurrentSchemaVersion is the version this build writes and reads.
const CurrentSchemaVersion = 2

// Result tracks what a migration run did.
type Result struct {
	FromVersion        int
	ToVersion          int
	MappingsBackfilled int
}

// Apply brings the local database up to CurrentSchemaVersion, one version
// step at a time. A database already at the current version is untouched.
func Apply(database *db.DB) (*Result, error) {
	from, err := schemaVersion(database)
	if err != nil {
		return nil, err
	}
	result := &Result{FromVersion: from, ToVersion: from}

	for v := from; v < CurrentSchemaVersion; v++ {
		switch v {
		case 1:
			// v1 databases predate the ID mapping table; rebuild it from
			// the cached strains so favorite lookups by external ID work.
			if err := backfillMappings(database, result); err != nil {
				return result, fmt.Errorf("migrate v%d to v%d: %w", v, v+1, err)
			}
		}
		result.ToVersion = v + 1
	}

	if result.ToVersion != from {
		value := strconv.Itoa(result.ToVersion)
		if err := database.SetSyncMeta(models.SyncMetaSchemaVersion, value); err != nil {
			return result, fmt.Errorf("record schema version: %w", err)
		}
	}
	return result, nil
}

// schemaVersion reads the stored version, treating a missing or malformed
// value as v1.
func schemaVersion(database *db.DB) (int, error) {
	raw, err := database.GetSyncMeta(models.SyncMetaSchemaVersion)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 1, nil
	}
	return v, nil
}

// backfillMappings records a (uuid, external_id) pair for every cached strain
// that has an external ID but no mapping row. Safe to run repeatedly: the
// mapping table is append-only.
func backfillMappings(database *db.DB, result *Result) error {
	strains, err := database.ListCachedStrains(-1, -1)
	if err != nil {
		return err
	}
	for _, strain := range strains {
		if strain.ExternalID == "" {
			continue
		}
		if _, err := uuid.Parse(strain.ID); err != nil {
			continue
		}
		existing, err := database.GetMappingByExternalID(strain.ExternalID)
		if err != nil {
			return err
		}
		if existing != "" {
			continue
		}
		if err := database.UpsertIDMapping(strain.ID, strain.ExternalID); err != nil {
			return err
		}
		result.MappingsBackfilled++
	}
	return nil
}
