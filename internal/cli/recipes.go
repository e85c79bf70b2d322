package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/recipevault/internal/store"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// recipeFlags are the form fields shared by add and update.
type recipeFlags struct {
	title       string
	description string
	ingredients string
	prepTime    int
}

func (f *recipeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "recipe title")
	cmd.Flags().StringVar(&f.description, "description", "", "recipe description")
	cmd.Flags().StringVar(&f.ingredients, "ingredients", "", "comma-separated ingredients")
	cmd.Flags().IntVar(&f.prepTime, "prep-time", 0, "preparation time in minutes")
}

// apply copies the flags the user set onto in.
func (f *recipeFlags) apply(cmd *cobra.Command, in types.RecipeInput) types.RecipeInput {
	if cmd.Flags().Changed("title") {
		in.Title = f.title
	}
	if cmd.Flags().Changed("description") {
		in.Description = f.description
	}
	if cmd.Flags().Changed("ingredients") {
		in.Ingredients = types.ParseIngredients(f.ingredients)
	}
	if cmd.Flags().Changed("prep-time") {
		in.PrepTime = f.prepTime
	}
	return in
}

// validateInput returns a user error when in fails form validation.
func validateInput(in types.RecipeInput) error {
	if err := in.Validate(); err != nil {
		if errors.Is(err, types.ErrValidation) {
			return userError(err)
		}
		return sysError(err)
	}
	return nil
}

func newAddCmd(a *app) *cobra.Command {
	var f recipeFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe",
		Example: `  recipevault add --title "Pancakes" --description "Fluffy breakfast" \
    --ingredients "Flour, Milk, Eggs" --prep-time 15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := f.apply(cmd, types.RecipeInput{})
			if err := validateInput(in); err != nil {
				return err
			}
			return a.withStore(func(st *store.Store) error {
				r := st.AddRecipe(in)
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), r)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added recipe %s (%s)\n", r.ID, r.Title)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var f recipeFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a recipe",
		Long:  "Update replaces only the fields given as flags; the rest keep their values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *store.Store) error {
				current, err := lookupRecipe(st, args[0])
				if err != nil {
					return err
				}
				in := f.apply(cmd, current.Input())
				if err := validateInput(in); err != nil {
					return err
				}
				updated := in.WithID(current.ID)
				st.UpdateRecipe(updated)
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), updated)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated recipe %s\n", updated.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe",
		Long:  "Delete removes the recipe and drops it from favorites and recommendations.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *store.Store) error {
				r, err := lookupRecipe(st, args[0])
				if err != nil {
					return err
				}
				st.DeleteRecipe(r.ID)
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": r.ID})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe %s (%s)\n", r.ID, r.Title)
				return nil
			})
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *store.Store) error {
				r, err := lookupRecipe(st, args[0])
				if err != nil {
					return err
				}
				view := recipeView{Recipe: r, Favorite: st.IsFavorite(r.ID)}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), view)
				}
				printRecipe(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes matching the current search term",
		Long: `List prints the recipes whose title contains the saved search term,
ignoring case. Use "recipevault search" to change or clear the term.

With --watch the list is printed again whenever another recipevault
process changes the saved state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return a.watchRecipes(cmd)
			}
			return a.withStore(func(st *store.Store) error {
				return a.renderList(cmd, st.Snapshot())
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "watch for changes and print the list again")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [term]",
		Short: "Set the search term and list matching recipes",
		Long:  "Search saves the term used by list. Run it without a term to show every recipe again.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *store.Store) error {
				st.SetSearchTerm(joinArgs(args))
				return a.renderList(cmd, st.Snapshot())
			})
		},
	}
}
