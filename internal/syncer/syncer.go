// Package syncer pulls the external catalog into the local database so
// search and favorites work offline.
package syncer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/greenhouse-labs/strainsync/internal/catalog"
	"github.com/greenhouse-labs/strainsync/internal/db"
	"github.com/greenhouse-labs/strainsync/internal/identity"
	"github.com/greenhouse-labs/strainsync/internal/log"
	"github.com/greenhouse-labs/strainsync/internal/models"
	"github.com/greenhouse-labs/strainsync/internal/resolver"
)

// Result summarizes one sync run.
type Result struct {
	StrainsFetched int
	StrainsNew     int
	StrainsUpdated int
	Skipped        int
	Duration       time.Duration
}

// Syncer mirrors catalog strains into the local database.
type Syncer struct {
	client *catalog.Client
	db     *db.DB
	mapper *identity.Mapper
	log    *log.Logger
}

// New creates a syncer.
func New(client *catalog.Client, database *db.DB, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Syncer{
		client: client,
		db:     database,
		mapper: identity.NewMapper(database),
		log:    logger,
	}
}

// Sync fetches the full catalog and upserts every strain locally. Records
// whose external ID cannot be canonicalized are skipped with a log line
// rather than failing the run.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	records, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	result.StrainsFetched = len(records)

	for _, rec := range records {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		id, err := identity.CanonicalID(rec.ExternalID)
		if err != nil {
			s.log.Errorf("skip strain %q: %v", rec.Name, err)
			result.Skipped++
			continue
		}

		existing, err := s.db.GetCachedStrain(id.String())
		if err != nil {
			return result, err
		}

		strain := toModel(id.String(), rec)
		if existing == nil {
			// The same name may already be cached under a different ID
			// (renamed external ID); reuse that row instead of tripping
			// the unique name index.
			byName, err := s.db.GetCachedStrainByName(rec.Name)
			if err != nil {
				return result, err
			}
			if byName != nil {
				strain.ID = byName.ID
				existing = byName
			}
		}
		if err := s.db.UpsertCachedStrain(&strain); err != nil {
			return result, fmt.Errorf("upsert strain %q: %w", rec.Name, err)
		}
		if rowID, err := uuid.Parse(strain.ID); err == nil {
			if err := s.mapper.Record(rowID, rec.ExternalID); err != nil {
				s.log.Errorf("record mapping for %q: %v", rec.Name, err)
			}
		}

		if existing == nil {
			result.StrainsNew++
		} else {
			result.StrainsUpdated++
		}
	}

	if err := s.db.SetSyncMeta(models.SyncMetaLastFullSync, time.Now().Format(time.RFC3339)); err != nil {
		s.log.Errorf("record sync time: %v", err)
	}
	total := result.StrainsFetched - result.Skipped
	if err := s.db.SetSyncMeta(models.SyncMetaTotalStrains, strconv.Itoa(total)); err != nil {
		s.log.Errorf("record strain count: %v", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// toModel converts a normalized catalog record to the local row form.
func toModel(id string, rec catalog.Record) models.CachedStrain {
	return models.CachedStrain{
		ID:             id,
		ExternalID:     rec.ExternalID,
		Name:           rec.Name,
		Type:           models.ParseStrainType(rec.Type),
		THC:            resolver.ParsePercent(rec.THC),
		CBD:            resolver.ParsePercent(rec.CBD),
		Effects:        rec.Effects,
		Flavors:        rec.Flavors,
		Description:    rec.Description,
		GrowDifficulty: rec.GrowDifficulty,
		FloweringWeeks: resolver.FloweringWeeks(rec.FloweringText),
		ImageURL:       rec.ImageURL,
	}
}
