package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE codes classified into sentinel errors.
const (
	codeUniqueViolation = "23505"
	codePrivilegeError  = "42501"
	// New-row RLS policy rejections surface as check_violation.
	codeRLSCheckViolation = "44000"
)

// Compile-time contract assertion.
var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store against a Postgres backend via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the backend database and verifies the
// connection before returning.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect remote store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping remote store: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// classify maps Postgres error codes onto the package sentinel errors,
// passing everything else through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case codePrivilegeError, codeRLSCheckViolation:
			return fmt.Errorf("%w: %s", ErrPermissionDenied, pgErr.Message)
		}
	}
	return err
}

const strainColumns = `id, api_id, name, type, thc, cbd, effects, flavors, description, grow_difficulty, flowering_weeks`

func scanStrain(row pgx.Row) (*Strain, error) {
	var (
		s     Strain
		apiID *string
	)
	err := row.Scan(&s.ID, &apiID, &s.Name, &s.Type, &s.THC, &s.CBD,
		&s.Effects, &s.Flavors, &s.Description, &s.GrowDifficulty, &s.FloweringWeeks)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}
	if apiID != nil {
		s.ExternalID = *apiID
	}
	return &s, nil
}

// GetStrainByID fetches a strain row by canonical UUID.
func (s *PostgresStore) GetStrainByID(ctx context.Context, id uuid.UUID) (*Strain, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+strainColumns+` FROM strains WHERE id = $1`, id)
	return scanStrain(row)
}

// GetStrainByName fetches a strain row by case-insensitive exact name.
func (s *PostgresStore) GetStrainByName(ctx context.Context, name string) (*Strain, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+strainColumns+` FROM strains WHERE LOWER(name) = LOWER($1)`, name)
	return scanStrain(row)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// InsertStrain inserts a new strain row under the caller's own credentials.
func (s *PostgresStore) InsertStrain(ctx context.Context, strain Strain) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO strains (`+strainColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		strain.ID, nullable(strain.ExternalID), strain.Name, strain.Type,
		strain.THC, strain.CBD, strain.Effects, strain.Flavors,
		strain.Description, strain.GrowDifficulty, strain.FloweringWeeks)
	return classify(err)
}

// UpdateStrain refreshes the mutable attributes of an existing row.
func (s *PostgresStore) UpdateStrain(ctx context.Context, strain Strain) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE strains
		 SET api_id = COALESCE($2, api_id), type = $3, thc = $4, cbd = $5,
		     effects = $6, flavors = $7, description = $8,
		     grow_difficulty = $9, flowering_weeks = $10
		 WHERE id = $1`,
		strain.ID, nullable(strain.ExternalID), strain.Type, strain.THC, strain.CBD,
		strain.Effects, strain.Flavors, strain.Description,
		strain.GrowDifficulty, strain.FloweringWeeks)
	return classify(err)
}

// EnsureStrainRPC inserts a strain through the privileged
// ensure_strain_exists function and returns the resulting row ID.
func (s *PostgresStore) EnsureStrainRPC(ctx context.Context, strain Strain) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`SELECT ensure_strain_exists($1, $2, $3, $4, $5, $6, $7, $8)`,
		strain.ID, nullable(strain.ExternalID), strain.Name, strain.Type,
		strain.THC, strain.CBD, strain.Effects, strain.Flavors).Scan(&id)
	if err != nil {
		return uuid.Nil, classify(err)
	}
	return id, nil
}

// InsertFavorite writes a favorite relation directly.
func (s *PostgresStore) InsertFavorite(ctx context.Context, userID, strainID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_favorite_strains (user_id, strain_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, strain_id) DO NOTHING`,
		userID, strainID)
	return classify(err)
}

// AddFavoriteRPC writes a favorite relation through the privileged
// add_favorite_strain function.
func (s *PostgresStore) AddFavoriteRPC(ctx context.Context, userID, strainID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`SELECT add_favorite_strain($1, $2)`, userID, strainID)
	return classify(err)
}

// DeleteFavorite removes a favorite relation. Zero rows affected is fine.
func (s *PostgresStore) DeleteFavorite(ctx context.Context, userID, strainID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM user_favorite_strains WHERE user_id = $1 AND strain_id = $2`,
		userID, strainID)
	return classify(err)
}
