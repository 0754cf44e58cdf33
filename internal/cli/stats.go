package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenhouse-labs/strainsync/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show local database statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.db.GetStats()
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}
	lastSync, err := a.db.GetSyncMeta(models.SyncMetaLastFullSync)
	if err != nil {
		return fmt.Errorf("read sync meta: %w", err)
	}
	if lastSync == "" {
		lastSync = "never"
	}

	fmt.Printf("Strains:    %d\n", stats.TotalStrains)
	fmt.Printf("Favorites:  %d\n", stats.TotalFavorites)
	fmt.Printf("Mappings:   %d\n", stats.TotalMappings)
	fmt.Printf("DB size:    %d bytes\n", stats.CacheSizeBytes)
	fmt.Printf("Last sync:  %s\n", lastSync)
	return nil
}
