// Package identity converts between the external catalog's identifier space
// (MongoDB-style ObjectId strings) and the canonical UUID space used by the
// relational backend.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrUnresolvable is returned when no canonical UUID can be derived for an
// input. Callers must treat the strain as unresolvable rather than guessing.
var ErrUnresolvable = errors.New("identity: unresolvable strain id")

// namespace is the fixed UUIDv5-style namespace for deriving canonical IDs
// from external catalog identifiers. Changing it would break every persisted
// mapping, so it never changes.
var namespace = uuid.MustParse("3c1954cb-8f5f-4a2b-9d6e-07e41c5b82aa")

// IsObjectID reports whether s looks like a MongoDB ObjectId
// (exactly 24 hex characters).
func IsObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// CanonicalID deterministically derives a canonical UUID from any raw
// identifier. A string that already parses as a UUID passes through
// unchanged; anything else (ObjectId or arbitrary key) is hashed into the
// fixed namespace, so the same input always yields the same UUID and the
// derivation can be done speculatively without a lookup.
func CanonicalID(rawID string) (uuid.UUID, error) {
	raw := strings.TrimSpace(rawID)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: empty input", ErrUnresolvable)
	}
	if id, err := uuid.Parse(raw); err == nil {
		return id, nil
	}
	return uuid.NewSHA1(namespace, []byte(raw)), nil
}
