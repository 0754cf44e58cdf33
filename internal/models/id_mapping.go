package models

import "time"

// IDMapping links a canonical UUID to the external catalog identifier it was
// derived from. The table is append-only and best-effort: lookups can miss,
// but a given external ID never maps to more than one UUID.
type IDMapping struct {
	UUID       string    `gorm:"primaryKey;size:36" json:"uuid"`
	ExternalID string    `gorm:"size:64;uniqueIndex" json:"external_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (IDMapping) TableName() string {
	return "id_mappings"
}
