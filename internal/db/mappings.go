package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenhouse-labs/strainsync/internal/models"
)

// UpsertIDMapping persists a (uuid, external_id) pair. The mapping table is
// append-only: re-recording an existing pair is a no-op rather than an update,
// so an external ID can never be repointed at a second UUID.
func (db *DB) UpsertIDMapping(uuid, externalID string) error {
	mapping := models.IDMapping{UUID: uuid, ExternalID: externalID}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&mapping).Error
	if err != nil {
		return fmt.Errorf("upsert id mapping: %w", err)
	}
	return nil
}

// GetMappingByExternalID returns the UUID mapped to an external catalog ID,
// or "" when the mapping is missing.
func (db *DB) GetMappingByExternalID(externalID string) (string, error) {
	var mapping models.IDMapping
	err := db.First(&mapping, "external_id = ?", externalID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", fmt.Errorf("lookup mapping: %w", err)
	}
	return mapping.UUID, nil
}

// GetMappingByUUID returns the external catalog ID mapped to a UUID,
// or "" when the mapping is missing.
func (db *DB) GetMappingByUUID(uuid string) (string, error) {
	var mapping models.IDMapping
	err := db.First(&mapping, "uuid = ?", uuid).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", fmt.Errorf("lookup mapping: %w", err)
	}
	return mapping.ExternalID, nil
}
