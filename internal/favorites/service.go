// Package favorites coordinates the dual-store favorite relation: the remote
// relational store (authoritative for sharing) and the local offline
// database (authoritative for the user's own device). The bias is
// offline-first: once a strain resolves, the local write happens regardless
// of how the remote write went.
package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/greenhouse-labs/strainsync/internal/auth"
	"github.com/greenhouse-labs/strainsync/internal/db"
	"github.com/greenhouse-labs/strainsync/internal/identity"
	"github.com/greenhouse-labs/strainsync/internal/log"
	"github.com/greenhouse-labs/strainsync/internal/models"
	"github.com/greenhouse-labs/strainsync/internal/remote"
	"github.com/greenhouse-labs/strainsync/internal/resolver"
)

// Service toggles favorite relations across both stores.
type Service struct {
	remote   remote.Store
	local    *db.DB
	resolver *resolver.Resolver
	session  *auth.Session
	log      *log.Logger
}

// NewService creates the favorite toggle service.
func NewService(remoteStore remote.Store, local *db.DB, res *resolver.Resolver, session *auth.Session, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{
		remote:   remoteStore,
		local:    local,
		resolver: res,
		session:  session,
		log:      logger,
	}
}

// Add favorites a strain for a user.
//
// The sequence is strictly ordered: refresh the session, verify the caller's
// identity, resolve the strain to a remote row (the favorite has a foreign
// key on it), write the remote relation, then write the local relation.
// Identity and resolution failures abort with no partial write. The remote
// write is fatal only when both the direct insert and the privileged RPC
// fallback fail; the local write runs whenever resolution succeeded and its
// own failure is logged, not surfaced.
func (s *Service) Add(ctx context.Context, userID, externalStrainID string, attrs resolver.Attributes) error {
	if err := s.session.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	if err := s.session.VerifyUser(userID); err != nil {
		return err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	strainID, err := s.resolver.EnsureExists(ctx, externalStrainID, attrs)
	if err != nil {
		return fmt.Errorf("resolve strain: %w", err)
	}

	remoteErr := s.writeRemote(ctx, uid, strainID)
	if remoteErr != nil {
		s.log.Errorf("remote favorite write failed for %s: %v", attrs.Name, remoteErr)
	}

	// Local write happens even when the remote write failed; the relation
	// must be visible offline immediately.
	if err := s.writeLocal(userID, externalStrainID, attrs.Name); err != nil {
		s.log.Errorf("local favorite write failed for %s: %v", attrs.Name, err)
	}

	return remoteErr
}

// writeRemote inserts the relation directly, falling back to the privileged
// RPC on a policy rejection. A duplicate means the relation already exists
// and counts as success.
func (s *Service) writeRemote(ctx context.Context, userID, strainID uuid.UUID) error {
	err := s.remote.InsertFavorite(ctx, userID, strainID)
	if err == nil || errors.Is(err, remote.ErrDuplicate) {
		return nil
	}
	if !errors.Is(err, remote.ErrPermissionDenied) {
		return fmt.Errorf("insert favorite: %w", err)
	}

	if rpcErr := s.remote.AddFavoriteRPC(ctx, userID, strainID); rpcErr != nil {
		return fmt.Errorf("favorite RPC fallback: %w", rpcErr)
	}
	return nil
}

// writeLocal records the relation locally under the identifier the caller
// knows, if not already present.
func (s *Service) writeLocal(userID, strainID, name string) error {
	return s.local.AddFavorite(userID, strainID, name)
}

// Remove unfavorites a strain. Local rows go first so removal is
// authoritative and fast on-device; the remote delete is best effort and its
// failure only logged. strainID may be the external catalog ID or the
// canonical UUID — rows stored under either form are removed.
func (s *Service) Remove(ctx context.Context, userID, strainID string) error {
	removed, err := s.local.RemoveFavorites(userID, s.idForms(strainID)...)
	if err != nil {
		return fmt.Errorf("remove local favorite: %w", err)
	}
	if removed == 0 {
		s.log.Printf("favorite %s was not present locally\n", strainID)
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil // No remote identity to delete under
	}
	canonical, err := identity.CanonicalID(strainID)
	if err != nil {
		return nil
	}
	if err := s.remote.DeleteFavorite(ctx, uid, canonical); err != nil {
		s.log.Errorf("remote favorite delete failed for %s: %v", strainID, err)
	}
	return nil
}

// IsFavorite reports whether the strain is favorited locally under any known
// identifier form.
func (s *Service) IsFavorite(userID, strainID string) (bool, error) {
	for _, id := range s.idForms(strainID) {
		ok, err := s.local.HasFavorite(userID, id)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// List returns the user's local favorites.
func (s *Service) List(userID string) ([]models.FavoriteStrain, error) {
	return s.local.ListFavorites(userID)
}

// idForms returns every identifier a favorite row may have been stored
// under: the raw ID as given and its canonical UUID.
func (s *Service) idForms(strainID string) []string {
	forms := []string{strainID}
	if canonical, err := identity.CanonicalID(strainID); err == nil {
		if c := canonical.String(); c != strainID {
			forms = append(forms, c)
		}
	}
	return forms
}
