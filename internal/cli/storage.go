package cli

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/recipevault/internal/persist"
	"github.com/mesh-intelligence/recipevault/internal/store"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// openBackend opens the configured persistence backend. The caller must
// close it.
func (a *app) openBackend() (persist.Backend, types.Config, error) {
	cfg, err := a.storageConfig()
	if err != nil {
		return nil, cfg, sysError(err)
	}
	backend, err := persist.Open(cfg)
	if err != nil {
		if errors.Is(err, types.ErrBackendEmpty) || errors.Is(err, types.ErrBackendUnknown) {
			return nil, cfg, userError(fmt.Errorf("%w: %q (use one of %v)", err, cfg.Backend, types.Backends()))
		}
		return nil, cfg, sysError(fmt.Errorf("open %s backend: %w", cfg.Backend, err))
	}
	return backend, cfg, nil
}

// withStore loads the store from the configured backend, runs fn and closes
// the backend. Every mutation fn performs is saved before fn returns.
func (a *app) withStore(fn func(st *store.Store) error) error {
	backend, cfg, err := a.openBackend()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			a.log.Warn("closing backend", "backend", cfg.Backend, "error", cerr)
		}
	}()

	st, err := store.Load(backend, a.storeOptions()...)
	if err != nil {
		return sysError(fmt.Errorf("load state: %w", err))
	}
	return fn(st)
}

func (a *app) storeOptions() []store.Option {
	return []store.Option{
		store.WithLogger(a.log),
		store.WithIDGenerator(a.newID),
	}
}

// readState returns the persisted state without keeping the backend open,
// so other processes can write between reads.
func (a *app) readState() (types.State, error) {
	var state types.State
	err := a.withStore(func(st *store.Store) error {
		state = st.Snapshot()
		return nil
	})
	return state, err
}

// lookupRecipe returns the recipe with id or a user error wrapping
// types.ErrNotFound.
func lookupRecipe(st *store.Store, id string) (types.Recipe, error) {
	r, ok := st.Recipe(id)
	if !ok {
		return types.Recipe{}, userError(fmt.Errorf("recipe %q: %w", id, types.ErrNotFound))
	}
	return r, nil
}
