package models

import "time"

// FavoriteStrain is a locally persisted favorite relation.
// StrainID holds whatever identifier was known at favoriting time; it may be
// the catalog's external ID rather than the canonical UUID, so removal has to
// match both forms.
type FavoriteStrain struct {
	UserID   string    `gorm:"primaryKey;size:36" json:"user_id"`
	StrainID string    `gorm:"primaryKey;size:64" json:"strain_id"`
	Name     string    `gorm:"size:255" json:"name"`
	AddedAt  time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// TableName specifies the table name for GORM.
func (FavoriteStrain) TableName() string {
	return "favorite_strains"
}
