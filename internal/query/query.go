// Package query derives views from store state: the search-filtered recipe
// list, the favorites list and recommendations. Every function is pure and
// preserves the order of the recipes it is given.
package query

import (
	"strings"

	"github.com/samber/lo"

	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// FilteredRecipes returns the recipes whose title contains term, compared
// case-insensitively. An empty term matches every recipe.
func FilteredRecipes(recipes []types.Recipe, term string) []types.Recipe {
	needle := strings.ToLower(term)
	return lo.Filter(recipes, func(r types.Recipe, _ int) bool {
		return strings.Contains(strings.ToLower(r.Title), needle)
	})
}

// FavoriteRecipes returns the recipes whose id is in favorites, in recipe
// order. Favorite ids without a matching recipe are ignored.
func FavoriteRecipes(recipes []types.Recipe, favorites []string) []types.Recipe {
	set := idSet(favorites)
	return lo.Filter(recipes, func(r types.Recipe, _ int) bool {
		_, ok := set[r.ID]
		return ok
	})
}

// Recommend returns every recipe that is not currently a favorite, in recipe
// order. The result only ever contains recipes taken from recipes.
func Recommend(recipes []types.Recipe, favorites []string) []types.Recipe {
	set := idSet(favorites)
	return lo.Filter(recipes, func(r types.Recipe, _ int) bool {
		_, ok := set[r.ID]
		return !ok
	})
}

func idSet(ids []string) map[string]struct{} {
	return lo.SliceToMap(ids, func(id string) (string, struct{}) {
		return id, struct{}{}
	})
}
