package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// previewLen is how much of a description listings show.
const previewLen = 100

// recipeView is a recipe as printed by show and in JSON listings.
type recipeView struct {
	types.Recipe
	Favorite bool `json:"favorite"`
}

func newRecipeViews(recipes []types.Recipe, isFavorite func(string) bool) []recipeView {
	views := make([]recipeView, len(recipes))
	for i, r := range recipes {
		views[i] = recipeView{Recipe: r, Favorite: isFavorite(r.ID)}
	}
	return views
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printRecipeTable prints recipes with their ingredients.
func printRecipeTable(w io.Writer, views []recipeView, empty string) {
	if len(views) == 0 {
		fmt.Fprintln(w, empty)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPREP\tFAV\tINGREDIENTS")
	for _, v := range views {
		fav := ""
		if v.Favorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d min\t%s\t%s\n", v.ID, v.Title, v.PrepTime, fav, v.Ingredients.String())
	}
	_ = tw.Flush()
}

// printPreviewTable prints recipes with a shortened description, as the
// favorites and recommendation listings do.
func printPreviewTable(w io.Writer, recipes []types.Recipe, empty string) {
	if len(recipes) == 0 {
		fmt.Fprintln(w, empty)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPREP\tDESCRIPTION")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%d min\t%s\n", r.ID, r.Title, r.PrepTime, r.Preview(previewLen))
	}
	_ = tw.Flush()
}

// printRecipe prints one recipe in full.
func printRecipe(w io.Writer, v recipeView) {
	fmt.Fprintf(w, "%s\n", v.Title)
	fmt.Fprintf(w, "ID:          %s\n", v.ID)
	fmt.Fprintf(w, "Prep time:   %d minutes\n", v.PrepTime)
	fmt.Fprintf(w, "Favorite:    %t\n", v.Favorite)
	fmt.Fprintf(w, "Description: %s\n", v.Description)
	fmt.Fprintln(w, "Ingredients:")
	if len(v.Ingredients) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, ing := range v.Ingredients {
		fmt.Fprintf(w, "  - %s\n", ing)
	}
}

// joinArgs rebuilds a multi-word argument.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
