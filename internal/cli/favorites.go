package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greenhouse-labs/strainsync/internal/resolver"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage favorite strains",
	Long: `Manage your favorite strains.

Favorites are written to the local database immediately and reconciled with
the backend store when remote access and a session are configured.

Subcommands:
  add <id-or-name>     Add a strain to favorites
  remove <id-or-name>  Remove a strain from favorites
  list                 List all favorite strains`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <id-or-name>",
	Short: "Add a strain to favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <id-or-name>",
	Short: "Remove a strain from favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRemove,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all favorite strains",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesListCmd)
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	strain, err := lookupStrain(a.db, args[0])
	if err != nil {
		return fmt.Errorf("lookup strain: %w", err)
	}
	if strain == nil {
		return fmt.Errorf("strain not found locally: %s (run 'strainsync sync' first)", args[0])
	}

	svc, session, err := a.favoritesService(cmd.Context())
	if err != nil {
		return err
	}

	externalID := catalogID(a.db, strain)
	if externalID == "" {
		externalID = strain.ID
	}

	attrs := resolver.Attributes{
		Name:             strain.Name,
		Type:             string(strain.Type),
		Effects:          strain.Effects,
		Flavors:          strain.Flavors,
		DescriptionLines: strings.Split(strain.Description, "\n"),
		GrowDifficulty:   strain.GrowDifficulty,
	}
	if strain.THC != nil {
		attrs.THC = fmt.Sprintf("%.1f%%", *strain.THC)
	}
	if strain.CBD != nil {
		attrs.CBD = fmt.Sprintf("%.1f%%", *strain.CBD)
	}
	if strain.FloweringWeeks != nil {
		attrs.FloweringText = fmt.Sprintf("%d weeks", *strain.FloweringWeeks)
	}

	if err := svc.Add(cmd.Context(), session.UserID(), externalID, attrs); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	fmt.Printf("Added %s to favorites\n", strain.Name)
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	strain, err := lookupStrain(a.db, args[0])
	if err != nil {
		return fmt.Errorf("lookup strain: %w", err)
	}
	strainID := args[0]
	name := args[0]
	if strain != nil {
		name = strain.Name
		if ext := catalogID(a.db, strain); ext != "" {
			strainID = ext
		} else {
			strainID = strain.ID
		}
	}

	svc, session, err := a.favoritesService(cmd.Context())
	if err != nil {
		return err
	}

	if err := svc.Remove(cmd.Context(), session.UserID(), strainID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	fmt.Printf("Removed %s from favorites\n", name)
	return nil
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.session()
	if err != nil {
		return err
	}

	favs, err := a.db.ListFavorites(session.UserID())
	if err != nil {
		return fmt.Errorf("list favorites: %w", err)
	}
	if len(favs) == 0 {
		fmt.Println("No favorites yet. Add one with 'strainsync favorites add <name>'.")
		return nil
	}

	fmt.Printf("Favorites (%d):\n", len(favs))
	for _, fav := range favs {
		label := fav.Name
		if label == "" {
			label = fav.StrainID
		}
		fmt.Printf("  %s  (added %s)\n", label, fav.AddedAt.Format("2006-01-02"))
	}
	return nil
}
