package favorites

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenhouse-labs/strainsync/internal/auth"
	"github.com/greenhouse-labs/strainsync/internal/db"
	"github.com/greenhouse-labs/strainsync/internal/identity"
	"github.com/greenhouse-labs/strainsync/internal/log"
	"github.com/greenhouse-labs/strainsync/internal/remote"
	"github.com/greenhouse-labs/strainsync/internal/resolver"
)

// fakeRemote implements remote.Store with programmable failures. Strain
// resolution always succeeds so favorite-path failures can be isolated.
type fakeRemote struct {
	strains   map[uuid.UUID]*remote.Strain
	favorites map[[2]uuid.UUID]bool

	favErr    error
	favRPCErr error
	deleteErr error
	deletes   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		strains:   map[uuid.UUID]*remote.Strain{},
		favorites: map[[2]uuid.UUID]bool{},
	}
}

func (f *fakeRemote) GetStrainByID(_ context.Context, id uuid.UUID) (*remote.Strain, error) {
	if s, ok := f.strains[id]; ok {
		return s, nil
	}
	return nil, nil
}

func (f *fakeRemote) GetStrainByName(context.Context, string) (*remote.Strain, error) {
	return nil, nil
}

func (f *fakeRemote) InsertStrain(_ context.Context, s remote.Strain) error {
	copied := s
	f.strains[s.ID] = &copied
	return nil
}

func (f *fakeRemote) UpdateStrain(_ context.Context, s remote.Strain) error {
	copied := s
	f.strains[s.ID] = &copied
	return nil
}

func (f *fakeRemote) EnsureStrainRPC(_ context.Context, s remote.Strain) (uuid.UUID, error) {
	return s.ID, nil
}

func (f *fakeRemote) InsertFavorite(_ context.Context, userID, strainID uuid.UUID) error {
	if f.favErr != nil {
		return f.favErr
	}
	f.favorites[[2]uuid.UUID{userID, strainID}] = true
	return nil
}

func (f *fakeRemote) AddFavoriteRPC(_ context.Context, userID, strainID uuid.UUID) error {
	if f.favRPCErr != nil {
		return f.favRPCErr
	}
	f.favorites[[2]uuid.UUID{userID, strainID}] = true
	return nil
}

func (f *fakeRemote) DeleteFavorite(_ context.Context, userID, strainID uuid.UUID) error {
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.favorites, [2]uuid.UUID{userID, strainID})
	return nil
}

const testUserID = "7f9c3f2e-6b1d-4c8a-9e5f-2a4b6c8d0e1f"

func testSession(t *testing.T, userID string) *auth.Session {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	session := auth.NewSession(auth.Config{}, nil)
	require.NoError(t, session.SetTokens(signed, "refresh-token"))
	return session
}

func testService(t *testing.T, store *fakeRemote) (*Service, *db.DB) {
	t.Helper()
	local, err := db.New(db.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })

	logger := log.Discard()
	res := resolver.New(store, nil, logger)
	svc := NewService(store, local, res, testSession(t, testUserID), logger)
	return svc, local
}

func kushAttrs() resolver.Attributes {
	return resolver.Attributes{Name: "OG Kush", Type: "hybrid"}
}

const extStrainID = "64d2a41b9f1c2a0007e3b1aa"

func TestAdd_WritesBothStores(t *testing.T) {
	store := newFakeRemote()
	svc, _ := testService(t, store)

	err := svc.Add(context.Background(), testUserID, extStrainID, kushAttrs())
	require.NoError(t, err)

	fav, err := svc.IsFavorite(testUserID, extStrainID)
	require.NoError(t, err)
	assert.True(t, fav)
	assert.Len(t, store.favorites, 1)
}

func TestAdd_LocalVisibleDespiteRemoteFailure(t *testing.T) {
	store := newFakeRemote()
	store.favErr = errors.New("network down")
	svc, _ := testService(t, store)

	err := svc.Add(context.Background(), testUserID, extStrainID, kushAttrs())
	require.Error(t, err)

	// The local relation exists even though the call reported the remote
	// failure.
	fav, err := svc.IsFavorite(testUserID, extStrainID)
	require.NoError(t, err)
	assert.True(t, fav)
	assert.Empty(t, store.favorites)
}

func TestAdd_DuplicateRemoteIsSuccess(t *testing.T) {
	store := newFakeRemote()
	store.favErr = remote.ErrDuplicate
	svc, _ := testService(t, store)

	err := svc.Add(context.Background(), testUserID, extStrainID, kushAttrs())
	assert.NoError(t, err)
}

func TestAdd_PermissionFallsBackToRPC(t *testing.T) {
	store := newFakeRemote()
	store.favErr = remote.ErrPermissionDenied
	svc, _ := testService(t, store)

	err := svc.Add(context.Background(), testUserID, extStrainID, kushAttrs())
	require.NoError(t, err)
	assert.Len(t, store.favorites, 1)
}

func TestAdd_IdentityMismatchAborts(t *testing.T) {
	store := newFakeRemote()
	svc, local := testService(t, store)

	otherUser := uuid.New().String()
	err := svc.Add(context.Background(), otherUser, extStrainID, kushAttrs())
	assert.ErrorIs(t, err, auth.ErrIdentityMismatch)

	// Nothing written anywhere.
	assert.Empty(t, store.strains)
	favs, err := local.ListFavorites(otherUser)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestRemove_LocalFirstRemoteBestEffort(t *testing.T) {
	store := newFakeRemote()
	svc, _ := testService(t, store)

	require.NoError(t, svc.Add(context.Background(), testUserID, extStrainID, kushAttrs()))

	// Remote delete failing must not surface.
	store.deleteErr = errors.New("network down")
	err := svc.Remove(context.Background(), testUserID, extStrainID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.deletes)

	fav, err := svc.IsFavorite(testUserID, extStrainID)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestIsFavorite_MatchesCanonicalForm(t *testing.T) {
	store := newFakeRemote()
	svc, local := testService(t, store)

	// Row stored under the canonical UUID rather than the external ID.
	canonical, err := identity.CanonicalID(extStrainID)
	require.NoError(t, err)
	require.NoError(t, local.AddFavorite(testUserID, canonical.String(), "OG Kush"))

	fav, err := svc.IsFavorite(testUserID, extStrainID)
	require.NoError(t, err)
	assert.True(t, fav)
}
