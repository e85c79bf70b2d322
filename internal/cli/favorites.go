package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/recipevault/internal/store"
)

func newFavoriteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorite",
		Short: "Mark or unmark recipes as favorites",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <id>",
			Short: "Mark a recipe as a favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(func(st *store.Store) error {
					r, err := lookupRecipe(st, args[0])
					if err != nil {
						return err
					}
					st.AddFavorite(r.ID)
					return a.printFavoriteChange(cmd, r.ID, true)
				})
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Unmark a favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(func(st *store.Store) error {
					st.RemoveFavorite(args[0])
					return a.printFavoriteChange(cmd, args[0], false)
				})
			},
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Flip whether a recipe is a favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(func(st *store.Store) error {
					r, err := lookupRecipe(st, args[0])
					if err != nil {
						return err
					}
					return a.printFavoriteChange(cmd, r.ID, st.ToggleFavorite(r.ID))
				})
			},
		},
	)
	return cmd
}

func (a *app) printFavoriteChange(cmd *cobra.Command, id string, favorite bool) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]any{"id": id, "favorite": favorite})
	}
	if favorite {
		fmt.Fprintf(cmd.OutOrStdout(), "Recipe %s is a favorite\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Recipe %s is not a favorite\n", id)
	}
	return nil
}

func newFavoritesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *store.Store) error {
				favs := st.FavoriteRecipes()
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), favs)
				}
				printPreviewTable(cmd.OutOrStdout(), favs, "No favorite recipes yet.")
				return nil
			})
		},
	}
}

func newRecommendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Recommend recipes that are not favorites yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *store.Store) error {
				st.GenerateRecommendations()
				recs := st.Recommendations()
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), recs)
				}
				printPreviewTable(cmd.OutOrStdout(), recs, "No recommendations: every recipe is already a favorite.")
				return nil
			})
		},
	}
}
