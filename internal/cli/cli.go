// Package cli provides the command-line interface for strainsync.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/greenhouse-labs/strainsync/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "strainsync",
	Short: "Offline-first strain catalog and favorites",
	Long: `Offline-first strain catalog and favorites.

strainsync mirrors an external strain catalog into a local database, keeps
your favorites available offline, and reconciles them with the shared backend
store when one is configured.

Start with:
  strainsync sync
  strainsync search <term>`,
	SilenceUsage: true,
	Version:      version.Short(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().String("base_dir", "", "Override the data directory")
	rootCmd.PersistentFlags().String("language", "", "Target language for translated attributes")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(translateCmd)
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
