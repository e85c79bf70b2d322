package types

// State is the full record owned by the store. Values handed out by the
// store are copies; mutating them has no effect on the store.
type State struct {
	Recipes         []Recipe `json:"recipes"`
	Favorites       []string `json:"favorites"`
	SearchTerm      string   `json:"searchTerm"`
	Recommendations []Recipe `json:"recommendations"`
}

// Clone returns a deep copy of s. Nil slices become empty slices so that
// encoded snapshots never contain null.
func (s State) Clone() State {
	return State{
		Recipes:         CloneRecipes(s.Recipes),
		Favorites:       append(make([]string, 0, len(s.Favorites)), s.Favorites...),
		SearchTerm:      s.SearchTerm,
		Recommendations: CloneRecipes(s.Recommendations),
	}
}

// CloneRecipes deep-copies a recipe slice. The result is never nil.
func CloneRecipes(recipes []Recipe) []Recipe {
	out := make([]Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.Clone()
	}
	return out
}
