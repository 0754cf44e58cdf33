// Package resolver guarantees that a strain referenced by an external
// catalog ID has a matching row in the remote relational store, creating one
// when needed. Insertion has layered fallbacks because the remote store
// enforces both a unique name constraint and row-level security.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/greenhouse-labs/strainsync/internal/identity"
	"github.com/greenhouse-labs/strainsync/internal/log"
	"github.com/greenhouse-labs/strainsync/internal/models"
	"github.com/greenhouse-labs/strainsync/internal/remote"
)

// ErrNotResolved is returned when every lookup and insertion path failed.
var ErrNotResolved = errors.New("resolver: strain could not be resolved")

// Attributes carries the raw catalog attributes of a candidate strain.
// Potency and flowering time arrive as free text and are normalized here
// before they touch the remote store.
type Attributes struct {
	Name             string
	Type             string
	THC              string
	CBD              string
	Effects          []string
	Flavors          []string
	DescriptionLines []string
	GrowDifficulty   string
	FloweringText    string
}

// Resolver resolves external strain identities against the remote store.
type Resolver struct {
	store  remote.Store
	mapper *identity.Mapper
	log    *log.Logger
}

// New creates a resolver.
func New(store remote.Store, mapper *identity.Mapper, logger *log.Logger) *Resolver {
	return &Resolver{store: store, mapper: mapper, log: logger}
}

// EnsureExists resolves an external strain ID to a remote row UUID, creating
// the row when no match exists. The chain is: derived-UUID lookup, then
// case-insensitive name lookup, then insert, with duplicate-key and
// permission failures falling back to re-lookup and the privileged RPC.
//
// A single call never returns two different UUIDs for the same resolved name.
// Two callers racing on a brand-new strain can both attempt the insert; the
// loser lands in the duplicate-key fallback and converges on the winner's row.
func (r *Resolver) EnsureExists(ctx context.Context, externalID string, attrs Attributes) (uuid.UUID, error) {
	id, err := identity.CanonicalID(externalID)
	if err != nil {
		return uuid.Nil, err
	}

	// Fast path: row already exists under the derived UUID.
	existing, err := r.store.GetStrainByID(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup by id: %w", err)
	}
	if existing != nil {
		r.recordMapping(id, externalID)
		r.maybeRefresh(ctx, existing, externalID, attrs)
		return id, nil
	}

	// The strain may have been created under a different ID previously.
	if attrs.Name != "" {
		byName, err := r.store.GetStrainByName(ctx, attrs.Name)
		if err != nil {
			return uuid.Nil, fmt.Errorf("lookup by name: %w", err)
		}
		if byName != nil {
			r.recordMapping(byName.ID, externalID)
			return byName.ID, nil
		}
	}

	candidate := r.buildStrain(id, externalID, attrs)

	insertErr := r.store.InsertStrain(ctx, candidate)
	if insertErr == nil {
		r.recordMapping(id, externalID)
		return id, nil
	}

	switch {
	case errors.Is(insertErr, remote.ErrDuplicate):
		// Lost a creation race or the name row predates us.
		return r.resolveByName(ctx, externalID, attrs.Name, insertErr)

	case errors.Is(insertErr, remote.ErrPermissionDenied):
		r.log.Printf("strain insert blocked by policy, retrying via RPC: %s\n", attrs.Name)
		rpcID, rpcErr := r.store.EnsureStrainRPC(ctx, candidate)
		if rpcErr == nil {
			r.recordMapping(rpcID, externalID)
			return rpcID, nil
		}
		return r.resolveByName(ctx, externalID, attrs.Name, rpcErr)

	default:
		return uuid.Nil, fmt.Errorf("insert strain: %w", insertErr)
	}
}

// resolveByName is the terminal fallback: one more case-insensitive name
// lookup before giving up.
func (r *Resolver) resolveByName(ctx context.Context, externalID, name string, cause error) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrNotResolved, cause)
	}
	byName, err := r.store.GetStrainByName(ctx, name)
	if err != nil || byName == nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrNotResolved, cause)
	}
	r.recordMapping(byName.ID, externalID)
	return byName.ID, nil
}

// maybeRefresh updates an existing row when the caller supplied newer
// attributes and any normalized field differs. Refresh failures are logged,
// never fatal: resolution already succeeded.
func (r *Resolver) maybeRefresh(ctx context.Context, existing *remote.Strain, externalID string, attrs Attributes) {
	if attrs.Name == "" {
		return
	}
	candidate := r.buildStrain(existing.ID, externalID, attrs)
	if !strainDiffers(existing, &candidate) {
		return
	}
	if err := r.store.UpdateStrain(ctx, candidate); err != nil {
		r.log.Errorf("refresh strain %s: %v", existing.ID, err)
	}
}

func (r *Resolver) buildStrain(id uuid.UUID, externalID string, attrs Attributes) remote.Strain {
	return remote.Strain{
		ID:             id,
		ExternalID:     externalID,
		Name:           attrs.Name,
		Type:           string(models.ParseStrainType(attrs.Type)),
		THC:            ParsePercent(attrs.THC),
		CBD:            ParsePercent(attrs.CBD),
		Effects:        attrs.Effects,
		Flavors:        attrs.Flavors,
		Description:    JoinDescription(attrs.DescriptionLines),
		GrowDifficulty: attrs.GrowDifficulty,
		FloweringWeeks: FloweringWeeks(attrs.FloweringText),
	}
}

// recordMapping persists the uuid/external-id pair. Best effort: a failed
// write only costs a future name lookup.
func (r *Resolver) recordMapping(id uuid.UUID, externalID string) {
	if r.mapper == nil {
		return
	}
	if err := r.mapper.Record(id, externalID); err != nil {
		r.log.Errorf("record id mapping %s -> %s: %v", externalID, id, err)
	}
}

func strainDiffers(a, b *remote.Strain) bool {
	if a.Type != b.Type || a.Description != b.Description || a.GrowDifficulty != b.GrowDifficulty {
		return true
	}
	if !floatPtrEqual(a.THC, b.THC) || !floatPtrEqual(a.CBD, b.CBD) {
		return true
	}
	if !intPtrEqual(a.FloweringWeeks, b.FloweringWeeks) {
		return true
	}
	if !sliceEqual(a.Effects, b.Effects) || !sliceEqual(a.Flavors, b.Flavors) {
		return true
	}
	return false
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
