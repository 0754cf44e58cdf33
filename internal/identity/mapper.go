package identity

import (
	"github.com/google/uuid"

	"github.com/greenhouse-labs/strainsync/internal/db"
)

// Mapper persists (uuid, external_id) pairs in the local database so the two
// identifier spaces can be translated in either direction. The mapping is
// best-effort: lookups can miss for strains that were never resolved locally.
type Mapper struct {
	db *db.DB
}

// NewMapper creates a mapper backed by the local database.
func NewMapper(database *db.DB) *Mapper {
	return &Mapper{db: database}
}

// Record persists a uuid/external-id pair. Idempotent: re-recording an
// existing pair is a no-op, and an already-mapped external ID is never
// repointed at a different UUID.
func (m *Mapper) Record(id uuid.UUID, externalID string) error {
	if externalID == "" || id == uuid.Nil {
		return nil
	}
	return m.db.UpsertIDMapping(id.String(), externalID)
}

// ByExternalID returns the UUID previously recorded for an external ID.
// The second result is false when the mapping is missing.
func (m *Mapper) ByExternalID(externalID string) (uuid.UUID, bool, error) {
	raw, err := m.db.GetMappingByExternalID(externalID)
	if err != nil || raw == "" {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, nil // Corrupt row, treat as a miss
	}
	return id, true, nil
}

// ByUUID returns the external catalog ID previously recorded for a UUID.
func (m *Mapper) ByUUID(id uuid.UUID) (string, bool, error) {
	ext, err := m.db.GetMappingByUUID(id.String())
	if err != nil || ext == "" {
		return "", false, err
	}
	return ext, true, nil
}
