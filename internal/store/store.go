// Package store implements the recipe store: the single owner of recipes,
// favorites, the search term and cached recommendations.
//
// Every mutation is atomic with respect to the others. After a mutation
// completes the store saves a snapshot through its Persister (best effort)
// and then calls each subscriber, all before the mutation returns. Snapshots
// are numbered in mutation order; a snapshot older than one already saved or
// delivered is dropped, so the persisted state never moves backwards.
package store

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/mesh-intelligence/recipevault/internal/query"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// Persister saves full state snapshots. Implementations live in the persist
// package.
type Persister interface {
	Load() (types.State, error)
	Save(state types.State) error
}

// Listener receives a snapshot of the state after each mutation.
type Listener func(types.State)

// Store holds the recipe state. Construct it with New or Load; the zero
// value is not usable.
type Store struct {
	mu    sync.Mutex
	state types.State
	seq   uint64 // Number of the latest mutation, guarded by mu.

	newID     IDGenerator
	persister Persister
	log       *slog.Logger

	saveMu   sync.Mutex
	savedSeq uint64

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]Listener
	sentSeq   uint64
}

// New creates a store. Without WithState the store starts empty.
func New(opts ...Option) *Store {
	s := &Store{
		newID: NewUUID,
		log:   slog.Default(),
		subs:  make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.state.Clone()
	s.state.Favorites = s.validFavorites(s.state.Favorites)
	s.state.Recommendations = s.validRecommendations(s.state.Recommendations)
	return s
}

// AddRecipe assigns a fresh id to the input, appends the recipe and returns
// the stored value. The input is not validated.
func (s *Store) AddRecipe(in types.RecipeInput) types.Recipe {
	var added types.Recipe
	s.mutate("add_recipe", func(st *types.State) bool {
		added = in.WithID(s.newID())
		st.Recipes = append(st.Recipes, added)
		return true
	})
	return added.Clone()
}

// UpdateRecipe replaces the recipe with the same id. It is a no-op when no
// recipe has that id; it never inserts.
func (s *Store) UpdateRecipe(r types.Recipe) {
	s.mutate("update_recipe", func(st *types.State) bool {
		i := indexOf(st.Recipes, r.ID)
		if i < 0 {
			return false
		}
		st.Recipes[i] = r.Clone()
		if j := indexOf(st.Recommendations, r.ID); j >= 0 {
			st.Recommendations[j] = r.Clone()
		}
		return true
	})
}

// DeleteRecipe removes the recipe with the given id along with its favorite
// and recommendation entries. No-op when the id is absent.
func (s *Store) DeleteRecipe(id string) {
	s.mutate("delete_recipe", func(st *types.State) bool {
		i := indexOf(st.Recipes, id)
		if i < 0 {
			return false
		}
		st.Recipes = slices.Delete(st.Recipes, i, i+1)
		st.Favorites = lo.Without(st.Favorites, id)
		st.Recommendations = slices.DeleteFunc(st.Recommendations, func(r types.Recipe) bool {
			return r.ID == id
		})
		return true
	})
}

// AddFavorite marks an existing recipe as a favorite. Unknown ids and ids
// already favorited are ignored.
func (s *Store) AddFavorite(id string) {
	s.mutate("add_favorite", func(st *types.State) bool {
		if indexOf(st.Recipes, id) < 0 || slices.Contains(st.Favorites, id) {
			return false
		}
		st.Favorites = append(st.Favorites, id)
		return true
	})
}

// RemoveFavorite unmarks a favorite. Idempotent.
func (s *Store) RemoveFavorite(id string) {
	s.mutate("remove_favorite", func(st *types.State) bool {
		if !slices.Contains(st.Favorites, id) {
			return false
		}
		st.Favorites = lo.Without(st.Favorites, id)
		return true
	})
}

// ToggleFavorite flips the favorite mark of an existing recipe and reports
// whether it is a favorite afterwards. Unknown ids stay unfavorited.
func (s *Store) ToggleFavorite(id string) bool {
	var now bool
	s.mutate("toggle_favorite", func(st *types.State) bool {
		if slices.Contains(st.Favorites, id) {
			st.Favorites = lo.Without(st.Favorites, id)
			return true
		}
		if indexOf(st.Recipes, id) < 0 {
			return false
		}
		st.Favorites = append(st.Favorites, id)
		now = true
		return true
	})
	return now
}

// SetSearchTerm stores term verbatim.
func (s *Store) SetSearchTerm(term string) {
	s.mutate("set_search_term", func(st *types.State) bool {
		st.SearchTerm = term
		return true
	})
}

// GenerateRecommendations recomputes the cached recommendations from the
// current recipes and favorites, replacing any previous value.
func (s *Store) GenerateRecommendations() {
	s.mutate("generate_recommendations", func(st *types.State) bool {
		st.Recommendations = types.CloneRecipes(query.Recommend(st.Recipes, st.Favorites))
		return true
	})
}

// Recipes returns all recipes in insertion order.
func (s *Store) Recipes() []types.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneRecipes(s.state.Recipes)
}

// Recipe returns the recipe with the given id.
func (s *Store) Recipe(id string) (types.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.state.Recipes, id)
	if i < 0 {
		return types.Recipe{}, false
	}
	return s.state.Recipes[i].Clone(), true
}

// Favorites returns the favorite ids in the order they were added.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Favorites)
}

// IsFavorite reports whether id is a favorite.
func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.state.Favorites, id)
}

// SearchTerm returns the current search term.
func (s *Store) SearchTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SearchTerm
}

// Recommendations returns the cached recommendations. The cache is only
// refreshed by GenerateRecommendations, UpdateRecipe and DeleteRecipe.
func (s *Store) Recommendations() []types.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneRecipes(s.state.Recommendations)
}

// FilteredRecipes returns the recipes matching the current search term.
func (s *Store) FilteredRecipes() []types.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneRecipes(query.FilteredRecipes(s.state.Recipes, s.state.SearchTerm))
}

// FavoriteRecipes returns the favorited recipes in recipe order.
func (s *Store) FavoriteRecipes() []types.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneRecipes(query.FavoriteRecipes(s.state.Recipes, s.state.Favorites))
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() types.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the registration; calling it more than once is safe.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
		})
	}
}

// mutate applies fn to the state under the lock. When fn reports a change,
// the new snapshot is persisted and broadcast after the lock is released.
func (s *Store) mutate(op string, fn func(st *types.State) bool) {
	s.mu.Lock()
	changed := fn(&s.state)
	var (
		snap types.State
		seq  uint64
	)
	if changed {
		s.seq++
		seq = s.seq
		snap = s.state.Clone()
	}
	s.mu.Unlock()

	if !changed {
		s.log.Debug("store mutation was a no-op", "op", op)
		return
	}
	s.log.Debug("store mutated", "op", op, "seq", seq, "recipes", len(snap.Recipes), "favorites", len(snap.Favorites))

	s.persist(op, seq, snap)
	s.notify(seq, snap)
}

// persist saves snap unless a newer snapshot was already saved. Saves are
// serialized. Failures are logged and never undo the mutation.
func (s *Store) persist(op string, seq uint64, snap types.State) {
	if s.persister == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if seq < s.savedSeq {
		s.log.Debug("skipping stale save", "op", op, "seq", seq, "saved", s.savedSeq)
		return
	}
	if err := s.persister.Save(snap); err != nil {
		s.log.Error("persisting store state", "op", op, "error", err)
		return
	}
	s.savedSeq = seq
}

// notify hands snap to every listener unless a newer snapshot has already
// been handed out. Listeners run without store locks held and may call back
// into the store.
func (s *Store) notify(seq uint64, snap types.State) {
	s.subMu.Lock()
	if seq < s.sentSeq {
		s.subMu.Unlock()
		return
	}
	s.sentSeq = seq
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(snap.Clone())
	}
}

// validFavorites drops duplicates and ids with no matching recipe.
func (s *Store) validFavorites(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range lo.Uniq(ids) {
		if indexOf(s.state.Recipes, id) >= 0 {
			out = append(out, id)
		}
	}
	return out
}

// validRecommendations drops cached recommendations whose recipe is gone.
func (s *Store) validRecommendations(recs []types.Recipe) []types.Recipe {
	return slices.DeleteFunc(recs, func(r types.Recipe) bool {
		return indexOf(s.state.Recipes, r.ID) < 0
	})
}

func indexOf(recipes []types.Recipe, id string) int {
	return slices.IndexFunc(recipes, func(r types.Recipe) bool { return r.ID == id })
}
