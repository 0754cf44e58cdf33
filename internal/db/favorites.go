package db

import (
	"fmt"

	"github.com/greenhouse-labs/strainsync/internal/models"
)

// AddFavorite records a local favorite relation if not already present.
// The whole check-and-create runs in one transaction so a partial write can
// never be observed.
func (db *DB) AddFavorite(userID, strainID, name string) error {
	return db.Transaction(func(tx *DB) error {
		var count int64
		if err := tx.Model(&models.FavoriteStrain{}).
			Where("user_id = ? AND strain_id = ?", userID, strainID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check favorite: %w", err)
		}
		if count > 0 {
			return nil // Already present, idempotent
		}
		fav := models.FavoriteStrain{
			UserID:   userID,
			StrainID: strainID,
			Name:     name,
		}
		if err := tx.Create(&fav).Error; err != nil {
			return fmt.Errorf("create favorite: %w", err)
		}
		return nil
	})
}

// HasFavorite reports whether a favorite relation exists locally.
func (db *DB) HasFavorite(userID, strainID string) (bool, error) {
	var count int64
	err := db.Model(&models.FavoriteStrain{}).
		Where("user_id = ? AND strain_id = ?", userID, strainID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}

// RemoveFavorites deletes local favorite rows matching any of the given
// strain IDs. Returns the number of rows removed. Several IDs are accepted
// because a favorite may have been stored under the external ID or the
// canonical UUID.
func (db *DB) RemoveFavorites(userID string, strainIDs ...string) (int64, error) {
	if len(strainIDs) == 0 {
		return 0, nil
	}
	result := db.Where("user_id = ? AND strain_id IN ?", userID, strainIDs).
		Delete(&models.FavoriteStrain{})
	if result.Error != nil {
		return 0, fmt.Errorf("remove favorites: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListFavorites returns a user's local favorites in the order they were added.
func (db *DB) ListFavorites(userID string) ([]models.FavoriteStrain, error) {
	var favs []models.FavoriteStrain
	err := db.Where("user_id = ?", userID).
		Order("added_at ASC").
		Find(&favs).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}
