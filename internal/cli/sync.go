package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenhouse-labs/strainsync/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the strain catalog into the local database",
	Long: `Fetch the external strain catalog and mirror it into the local database.

Conditional requests and the persisted list cache keep repeat syncs cheap:
an unchanged catalog is answered from disk without re-downloading.

Examples:
  strainsync sync`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	client, err := a.catalogClient()
	if err != nil {
		return err
	}

	result, err := syncer.New(client, a.db, a.log).Sync(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}

	fmt.Printf("Synced %d strains (%d new, %d updated, %d skipped) in %s\n",
		result.StrainsFetched, result.StrainsNew, result.StrainsUpdated,
		result.Skipped, result.Duration.Round(time.Millisecond))
	return nil
}
