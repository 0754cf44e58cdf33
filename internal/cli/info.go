package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/greenhouse-labs/strainsync/internal/db"
	"github.com/greenhouse-labs/strainsync/internal/identity"
	"github.com/greenhouse-labs/strainsync/internal/models"
	"github.com/greenhouse-labs/strainsync/internal/translate"
)

var infoCmd = &cobra.Command{
	Use:   "info <id-or-name>",
	Short: "Show details for a synced strain",
	Long: `Show full details for a strain from the local database.

Accepts the canonical UUID, the catalog's external ID, or an exact name.

Examples:
  strainsync info "OG Kush"
  strainsync info 64d2a41b9f1c2a0007e3b1aa`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	strain, err := lookupStrain(a.db, args[0])
	if err != nil {
		return err
	}
	if strain == nil {
		return fmt.Errorf("strain not found: %s", args[0])
	}

	tr, err := a.translator()
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", strain.Name, tr.Translate(translate.FieldStrainType, string(strain.Type)))
	fmt.Printf("  ID:          %s\n", strain.ID)
	if ext := catalogID(a.db, strain); ext != "" {
		fmt.Printf("  Catalog ID:  %s\n", ext)
	}
	if strain.THC != nil {
		fmt.Printf("  THC:         %.1f%%\n", *strain.THC)
	}
	if strain.CBD != nil {
		fmt.Printf("  CBD:         %.1f%%\n", *strain.CBD)
	}
	if len(strain.Effects) > 0 {
		fmt.Printf("  Effects:     %s\n", strings.Join(tr.TranslateAll(translate.FieldEffect, strain.Effects), ", "))
	}
	if len(strain.Flavors) > 0 {
		fmt.Printf("  Flavors:     %s\n", strings.Join(tr.TranslateAll(translate.FieldFlavor, strain.Flavors), ", "))
	}
	if strain.GrowDifficulty != "" {
		fmt.Printf("  Difficulty:  %s\n", tr.Translate(translate.FieldDifficulty, strain.GrowDifficulty))
	}
	if strain.FloweringWeeks != nil {
		fmt.Printf("  Flowering:   %d weeks\n", *strain.FloweringWeeks)
	}
	if strain.Description != "" {
		fmt.Printf("\n%s\n", tr.TranslateDescription(strain.Description))
	}
	return nil
}

// lookupStrain tries canonical UUID, external ID (directly and through the
// mapping table), then exact name.
func lookupStrain(database *db.DB, key string) (*models.CachedStrain, error) {
	if strain, err := database.GetCachedStrain(key); err != nil || strain != nil {
		return strain, err
	}
	if strain, err := database.GetCachedStrainByExternalID(key); err != nil || strain != nil {
		return strain, err
	}
	if identity.IsObjectID(key) {
		id, ok, err := identity.NewMapper(database).ByExternalID(key)
		if err != nil {
			return nil, err
		}
		if ok {
			if strain, err := database.GetCachedStrain(id.String()); err != nil || strain != nil {
				return strain, err
			}
		}
	}
	return database.GetCachedStrainByName(key)
}

// catalogID returns the strain's external catalog ID, falling back to the
// mapping table for rows synced before the external ID column was filled.
func catalogID(database *db.DB, strain *models.CachedStrain) string {
	if strain.ExternalID != "" {
		return strain.ExternalID
	}
	id, err := uuid.Parse(strain.ID)
	if err != nil {
		return ""
	}
	ext, ok, err := identity.NewMapper(database).ByUUID(id)
	if err != nil || !ok {
		return ""
	}
	return ext
}
