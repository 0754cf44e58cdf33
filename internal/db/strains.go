package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenhouse-labs/strainsync/internal/models"
)

// UpsertCachedStrain creates or updates a synced catalog strain.
// Conflicts on the canonical UUID; all catalog-sourced fields are refreshed.
func (db *DB) UpsertCachedStrain(strain *models.CachedStrain) error {
	strain.SyncedAt = time.Now()
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"external_id", "name", "type",
			"thc", "cbd",
			"effects", "flavors", "description",
			"grow_difficulty", "flowering_weeks",
			"image_url",
			"synced_at", "updated_at",
		}),
	}).Create(strain).Error
}

// GetCachedStrain retrieves a strain by canonical UUID.
// Returns (nil, nil) when not found.
func (db *DB) GetCachedStrain(id string) (*models.CachedStrain, error) {
	var strain models.CachedStrain
	err := db.First(&strain, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get strain: %w", err)
	}
	return &strain, nil
}

// GetCachedStrainByExternalID retrieves a strain by the catalog's native ID.
func (db *DB) GetCachedStrainByExternalID(externalID string) (*models.CachedStrain, error) {
	var strain models.CachedStrain
	err := db.First(&strain, "external_id = ?", externalID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get strain by external id: %w", err)
	}
	return &strain, nil
}

// GetCachedStrainByName retrieves a strain by case-insensitive exact name.
func (db *DB) GetCachedStrainByName(name string) (*models.CachedStrain, error) {
	var strain models.CachedStrain
	err := db.First(&strain, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get strain by name: %w", err)
	}
	return &strain, nil
}

// SearchCachedStrains returns strains whose name contains the term,
// case-insensitive, ordered by name.
func (db *DB) SearchCachedStrains(term string, limit int) ([]models.CachedStrain, error) {
	if limit <= 0 {
		limit = 25
	}
	var strains []models.CachedStrain
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	err := db.Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Limit(limit).
		Find(&strains).Error
	if err != nil {
		return nil, fmt.Errorf("search strains: %w", err)
	}
	return strains, nil
}

// ListCachedStrains returns strains with pagination, ordered by name.
func (db *DB) ListCachedStrains(limit, offset int) ([]models.CachedStrain, error) {
	var strains []models.CachedStrain
	err := db.Order("name ASC").Limit(limit).Offset(offset).Find(&strains).Error
	return strains, err
}
