package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenhouse-labs/strainsync/internal/log"
	"github.com/greenhouse-labs/strainsync/internal/remote"
)

// fakeStore is an in-memory remote.Store with programmable failures.
type fakeStore struct {
	strains map[uuid.UUID]*remote.Strain

	insertErr       error
	rpcErr          error
	inserts         int
	rpcCalls        int
	nameLookups     int
	missNameLookups int // the first N name lookups report a miss
}

func newFakeStore() *fakeStore {
	return &fakeStore{strains: map[uuid.UUID]*remote.Strain{}}
}

func (f *fakeStore) GetStrainByID(_ context.Context, id uuid.UUID) (*remote.Strain, error) {
	if s, ok := f.strains[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) GetStrainByName(_ context.Context, name string) (*remote.Strain, error) {
	f.nameLookups++
	if f.nameLookups <= f.missNameLookups {
		return nil, nil
	}
	for _, s := range f.strains {
		if strings.EqualFold(s.Name, name) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) InsertStrain(_ context.Context, s remote.Strain) error {
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.strains {
		if strings.EqualFold(existing.Name, s.Name) {
			return remote.ErrDuplicate
		}
	}
	copied := s
	f.strains[s.ID] = &copied
	return nil
}

func (f *fakeStore) UpdateStrain(_ context.Context, s remote.Strain) error {
	copied := s
	f.strains[s.ID] = &copied
	return nil
}

func (f *fakeStore) EnsureStrainRPC(_ context.Context, s remote.Strain) (uuid.UUID, error) {
	f.rpcCalls++
	if f.rpcErr != nil {
		return uuid.Nil, f.rpcErr
	}
	for _, existing := range f.strains {
		if strings.EqualFold(existing.Name, s.Name) {
			return existing.ID, nil
		}
	}
	copied := s
	f.strains[s.ID] = &copied
	return s.ID, nil
}

func (f *fakeStore) InsertFavorite(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (f *fakeStore) AddFavoriteRPC(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (f *fakeStore) DeleteFavorite(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func testResolver(store remote.Store) *Resolver {
	return New(store, nil, log.Discard())
}

const extID = "64d2a41b9f1c2a0007e3b1aa"

func kushAttrs() Attributes {
	return Attributes{
		Name:             "OG Kush",
		Type:             "hybrid",
		THC:              "18%",
		CBD:              "0.3%",
		Effects:          []string{"relaxed"},
		Flavors:          []string{"earthy"},
		DescriptionLines: []string{"A classic.", "", "Grows well indoors."},
		FloweringText:    "8-9 weeks",
	}
}

func TestEnsureExists_Idempotent(t *testing.T) {
	store := newFakeStore()
	r := testResolver(store)

	first, err := r.EnsureExists(context.Background(), extID, kushAttrs())
	require.NoError(t, err)

	second, err := r.EnsureExists(context.Background(), extID, kushAttrs())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.strains, 1)
	assert.Equal(t, 1, store.inserts)
}

func TestEnsureExists_NormalizesAttributes(t *testing.T) {
	store := newFakeStore()
	r := testResolver(store)

	id, err := r.EnsureExists(context.Background(), extID, kushAttrs())
	require.NoError(t, err)

	stored := store.strains[id]
	require.NotNil(t, stored)
	assert.Equal(t, "OG Kush", stored.Name)
	require.NotNil(t, stored.THC)
	assert.Equal(t, 18.0, *stored.THC)
	require.NotNil(t, stored.CBD)
	assert.Equal(t, 0.3, *stored.CBD)
	require.NotNil(t, stored.FloweringWeeks)
	assert.Equal(t, 8, *stored.FloweringWeeks)
	assert.Equal(t, "A classic. Grows well indoors.", stored.Description)
}

func TestEnsureExists_FindsExistingByName(t *testing.T) {
	store := newFakeStore()
	r := testResolver(store)

	// Row created earlier under a different external ID
	priorID := uuid.New()
	store.strains[priorID] = &remote.Strain{ID: priorID, Name: "OG Kush"}

	got, err := r.EnsureExists(context.Background(), extID, kushAttrs())
	require.NoError(t, err)
	assert.Equal(t, priorID, got)
	assert.Zero(t, store.inserts, "no insert when the name already exists")
}

func TestEnsureExists_DuplicateKeyFallback(t *testing.T) {
	store := newFakeStore()
	r := testResolver(store)

	// Simulate losing a creation race: the pre-insert name lookup misses,
	// the insert reports a duplicate, and by the time the fallback lookup
	// runs the winner's row is visible.
	winnerID := uuid.New()
	store.insertErr = remote.ErrDuplicate
	store.strains[winnerID] = &remote.Strain{ID: winnerID, Name: "og kush"}
	store.missNameLookups = 1

	got, err := r.EnsureExists(context.Background(), extID, kushAttrs())
	require.NoError(t, err)
	assert.Equal(t, winnerID, got, "both racers converge on one UUID")
	assert.Equal(t, 1, store.inserts)
}

func TestEnsureExists_PermissionFallbackToRPC(t *testing.T) {
	store := newFakeStore()
	r := testResolver(store)

	store.insertErr = remote.ErrPermissionDenied

	got, err := r.EnsureExists(context.Background(), extID, kushAttrs())
	require.NoError(t, err)
	assert.Equal(t, 1, store.rpcCalls)
	assert.NotEqual(t, uuid.Nil, got)
	assert.Contains(t, store.strains, got)
}

func TestEnsureExists_AllPathsFail(t *testing.T) {
	store := newFakeStore()
	r := testResolver(store)

	store.insertErr = remote.ErrPermissionDenied
	store.rpcErr = errors.New("rpc unavailable")

	_, err := r.EnsureExists(context.Background(), extID, kushAttrs())
	assert.ErrorIs(t, err, ErrNotResolved)
}

func TestEnsureExists_UnresolvableInput(t *testing.T) {
	r := testResolver(newFakeStore())

	_, err := r.EnsureExists(context.Background(), "  ", kushAttrs())
	assert.Error(t, err)
}

func TestEnsureExists_RefreshesChangedAttributes(t *testing.T) {
	store := newFakeStore()
	r := testResolver(store)

	id, err := r.EnsureExists(context.Background(), extID, kushAttrs())
	require.NoError(t, err)

	updated := kushAttrs()
	updated.THC = "22%"
	got, err := r.EnsureExists(context.Background(), extID, updated)
	require.NoError(t, err)
	require.Equal(t, id, got)

	stored := store.strains[id]
	require.NotNil(t, stored.THC)
	assert.Equal(t, 22.0, *stored.THC)
}
