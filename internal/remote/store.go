// Package remote accesses the backend relational store holding the shared
// strains table and per-user favorite relations.
package remote

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors the resolver and favorites service branch on. The Postgres
// implementation maps SQLSTATEs onto these; fakes return them directly.
var (
	// ErrDuplicate is a unique-constraint violation (SQLSTATE 23505).
	ErrDuplicate = errors.New("remote: duplicate key")

	// ErrPermissionDenied is a row-level-security or privilege failure
	// (SQLSTATE 42501). Writes hitting this can retry through the
	// privileged RPC functions.
	ErrPermissionDenied = errors.New("remote: permission denied")
)

// Strain is a row of the remote strains table.
type Strain struct {
	ID             uuid.UUID
	ExternalID     string // catalog api_id, empty when unknown
	Name           string
	Type           string
	THC            *float64
	CBD            *float64
	Effects        []string
	Flavors        []string
	Description    string
	GrowDifficulty string
	FloweringWeeks *int
}

// Store is the remote relational store contract. Query methods return
// (nil, nil) for a clean miss so callers can distinguish absence from
// transport failure.
type Store interface {
	// GetStrainByID fetches a strain row by canonical UUID.
	GetStrainByID(ctx context.Context, id uuid.UUID) (*Strain, error)

	// GetStrainByName fetches a strain row by case-insensitive exact name.
	GetStrainByName(ctx context.Context, name string) (*Strain, error)

	// InsertStrain inserts a new strain row. Returns ErrDuplicate or
	// ErrPermissionDenied for the corresponding constraint failures.
	InsertStrain(ctx context.Context, s Strain) error

	// UpdateStrain refreshes the mutable attributes of an existing row.
	UpdateStrain(ctx context.Context, s Strain) error

	// EnsureStrainRPC inserts a strain through the privileged
	// ensure_strain_exists function, bypassing row-level security.
	EnsureStrainRPC(ctx context.Context, s Strain) (uuid.UUID, error)

	// InsertFavorite writes a favorite relation. The referenced strain row
	// must already exist or the foreign key rejects the write.
	InsertFavorite(ctx context.Context, userID, strainID uuid.UUID) error

	// AddFavoriteRPC writes a favorite relation through the privileged
	// add_favorite_strain function.
	AddFavoriteRPC(ctx context.Context, userID, strainID uuid.UUID) error

	// DeleteFavorite removes a favorite relation. Deleting a relation that
	// does not exist is not an error.
	DeleteFavorite(ctx context.Context, userID, strainID uuid.UUID) error
}
