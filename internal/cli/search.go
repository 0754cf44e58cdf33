package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greenhouse-labs/strainsync/internal/translate"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search synced strains by name",
	Long: `Search the locally synced catalog by name, case-insensitive.

Effects and flavors are shown in the configured language.

Examples:
  strainsync search kush
  strainsync search "northern lights" --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 25, "Maximum results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	term := strings.Join(args, " ")
	strains, err := a.db.SearchCachedStrains(term, searchLimit)
	if err != nil {
		return fmt.Errorf("search strains: %w", err)
	}
	if len(strains) == 0 {
		fmt.Printf("No strains matching %q. Run 'strainsync sync' first?\n", term)
		return nil
	}

	tr, err := a.translator()
	if err != nil {
		return err
	}

	for _, s := range strains {
		kind := tr.Translate(translate.FieldStrainType, string(s.Type))
		line := fmt.Sprintf("%-30s %-8s", s.Name, kind)
		if len(s.Effects) > 0 {
			line += "  " + strings.Join(tr.TranslateAll(translate.FieldEffect, s.Effects), ", ")
		}
		fmt.Println(line)
	}
	return nil
}
