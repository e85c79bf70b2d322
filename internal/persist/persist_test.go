package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/recipevault/internal/store"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

func sampleState() types.State {
	return types.State{
		Recipes: []types.Recipe{
			{ID: "1", Title: "Tomato Pasta", Description: "Red", Ingredients: types.Ingredients{"Pasta", "Tomatoes"}, PrepTime: 30},
			{ID: "2", Title: "Chicken Tacos", Description: "Spicy", PrepTime: 20},
		},
		Favorites:       []string{"2"},
		SearchTerm:      "ta",
		Recommendations: []types.Recipe{{ID: "1", Title: "Tomato Pasta", Description: "Red", Ingredients: types.Ingredients{"Pasta", "Tomatoes"}, PrepTime: 30}},
	}
}

func openBackend(t *testing.T, backend, dir string) Backend {
	t.Helper()
	b, err := Open(types.Config{Backend: backend, DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBackends(t *testing.T) {
	for _, name := range types.Backends() {
		t.Run(name, func(t *testing.T) {
			t.Run("empty backend reports no state", func(t *testing.T) {
				b := openBackend(t, name, t.TempDir())
				_, err := b.Load()
				assert.ErrorIs(t, err, types.ErrNoState)
			})

			t.Run("save then load", func(t *testing.T) {
				b := openBackend(t, name, t.TempDir())
				want := sampleState()
				require.NoError(t, b.Save(want))

				got, err := b.Load()
				require.NoError(t, err)
				// Empty ingredient lists come back as empty, not nil.
				want.Recipes[1].Ingredients = types.Ingredients{}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("loaded state mismatch (-want +got):\n%s", diff)
				}
			})

			t.Run("save overwrites", func(t *testing.T) {
				b := openBackend(t, name, t.TempDir())
				require.NoError(t, b.Save(sampleState()))
				require.NoError(t, b.Save(types.State{SearchTerm: "second"}))

				got, err := b.Load()
				require.NoError(t, err)
				assert.Equal(t, "second", got.SearchTerm)
				assert.Empty(t, got.Recipes)
			})

			t.Run("state survives reopen", func(t *testing.T) {
				dir := t.TempDir()
				first, err := Open(types.Config{Backend: name, DataDir: dir})
				require.NoError(t, err)
				require.NoError(t, first.Save(sampleState()))
				require.NoError(t, first.Close())

				second := openBackend(t, name, dir)
				got, err := second.Load()
				require.NoError(t, err)
				assert.Equal(t, []string{"2"}, got.Favorites)
			})

			t.Run("closed backend rejects calls", func(t *testing.T) {
				b, err := Open(types.Config{Backend: name, DataDir: t.TempDir()})
				require.NoError(t, err)
				require.NoError(t, b.Close())
				require.NoError(t, b.Close(), "close is idempotent")

				_, err = b.Load()
				assert.ErrorIs(t, err, types.ErrStoreClosed)
				assert.ErrorIs(t, b.Save(types.State{}), types.ErrStoreClosed)
			})

			t.Run("drives a store", func(t *testing.T) {
				dir := t.TempDir()
				b := openBackend(t, name, dir)

				s, err := store.Load(b)
				require.NoError(t, err)
				s.AddFavorite("1")
				s.DeleteRecipe("3")

				reloaded, err := store.Load(b)
				require.NoError(t, err)
				assert.Equal(t, []string{"1"}, reloaded.Favorites())
				assert.Len(t, reloaded.Recipes(), 2)
			})
		})
	}
}

func TestOpenValidatesConfig(t *testing.T) {
	_, err := Open(types.Config{Backend: "", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)

	_, err = Open(types.Config{Backend: "redis", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestOpenCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	openBackend(t, types.BackendFile, dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDecodeLegacyBrowserBlob(t *testing.T) {
	blob := `{"state":{"recipes":[{"id":"1","title":"Classic Tomato Pasta","description":"d","ingredients":"Pasta, Tomatoes","prepTime":30}],"favorites":["1"],"searchTerm":"","recommendations":[]},"version":0}`

	got, err := Decode([]byte(blob))
	require.NoError(t, err)
	require.Len(t, got.Recipes, 1)
	assert.Equal(t, types.Ingredients{"Pasta", "Tomatoes"}, got.Recipes[0].Ingredients)
	assert.Equal(t, []string{"1"}, got.Favorites)
}

func TestDecodeCorrupt(t *testing.T) {
	for _, blob := range []string{`not json`, `{"state":[]}`, `{"state":{"recipes":[{"id":{}}]}}`} {
		_, err := Decode([]byte(blob))
		assert.ErrorIs(t, err, types.ErrCorruptState, "blob %q", blob)
	}
}

func TestDecodeMissingStateIsNoState(t *testing.T) {
	for _, blob := range []string{`{}`, `{"state":null}`, `{"version":0}`} {
		_, err := Decode([]byte(blob))
		assert.ErrorIs(t, err, types.ErrNoState, "blob %q", blob)
	}
}

func TestFileEmptyEnvelopeFallsBackInStore(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir, types.StorageKey)
	require.NoError(t, os.WriteFile(f.Path(), []byte(`{"state":null,"version":0}`), 0o644))

	s, err := store.Load(f)
	require.NoError(t, err)
	assert.Equal(t, store.DefaultRecipes(), s.Recipes())
}

func TestEncodeWritesEnvelope(t *testing.T) {
	data, err := Encode(types.State{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"recipes":[],"favorites":[],"searchTerm":"","recommendations":[]},"version":0}`, string(data))
}

func TestFileCorruptFallsBackInStore(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir, types.StorageKey)
	require.NoError(t, os.WriteFile(f.Path(), []byte("{broken"), 0o644))

	s, err := store.Load(f)
	require.NoError(t, err)
	assert.Equal(t, store.DefaultRecipes(), s.Recipes())
}

func TestFileSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir, types.StorageKey)
	require.NoError(t, f.Save(sampleState()))
	require.NoError(t, f.Save(sampleState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.StorageKey+".json", entries[0].Name())
}

func TestBoltReopenDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), BoltFileName)
	first, err := OpenBolt(path, types.StorageKey)
	require.NoError(t, err)
	require.NoError(t, first.Save(sampleState()))
	require.NoError(t, first.Close())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	second, err := OpenBolt(path, types.StorageKey)
	require.NoError(t, err)
	_, err = second.Load()
	require.NoError(t, err)
	require.NoError(t, second.Close())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "opening and reading must leave the file untouched")
}

func TestDataFiles(t *testing.T) {
	assert.Equal(t, []string{"recipe-app-storage.json"}, DataFiles(types.BackendFile))
	assert.Contains(t, DataFiles(types.BackendSQLite), SQLiteFileName)
	assert.Equal(t, []string{BoltFileName}, DataFiles(types.BackendBolt))
}
