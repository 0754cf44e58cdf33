// Package models defines the core data structures for strainsync.
package models

import (
	"strings"
	"time"
)

// StrainType is the breeding classification of a strain.
type StrainType string

const (
	TypeSativa StrainType = "sativa"
	TypeIndica StrainType = "indica"
	TypeHybrid StrainType = "hybrid"
)

// ParseStrainType maps free-text type labels to a StrainType,
// defaulting to hybrid for anything unrecognized.
func ParseStrainType(s string) StrainType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sativa":
		return TypeSativa
	case "indica":
		return TypeIndica
	default:
		return TypeHybrid
	}
}

// CachedStrain is a catalog strain synced into the local database.
// ID is the canonical UUID; ExternalID is the catalog's native identifier
// (usually a MongoDB-style ObjectId) when known.
type CachedStrain struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	ExternalID string     `gorm:"size:64;index" json:"external_id"`
	Name       string     `gorm:"size:255;uniqueIndex" json:"name"`
	Type       StrainType `gorm:"size:20;index;default:hybrid" json:"type"`

	// Potency, parsed from the catalog's free-text percentage fields.
	THC *float64 `gorm:"column:thc" json:"thc,omitempty"`
	CBD *float64 `gorm:"column:cbd" json:"cbd,omitempty"`

	Effects     []string `gorm:"serializer:json" json:"effects"`
	Flavors     []string `gorm:"serializer:json" json:"flavors"`
	Description string   `gorm:"type:text" json:"description"`

	// Grow metadata
	GrowDifficulty string `gorm:"size:20" json:"grow_difficulty"`
	FloweringWeeks *int   `json:"flowering_weeks,omitempty"`

	ImageURL string `gorm:"size:500" json:"image_url"`

	SyncedAt  time.Time `json:"synced_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (CachedStrain) TableName() string {
	return "cached_strains"
}
