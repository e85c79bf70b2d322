package store

import (
	"errors"
	"log/slog"

	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// Load builds a store from the state saved in p and keeps saving to p after
// every mutation. When nothing was saved, or the saved blob cannot be
// decoded, the store starts from DefaultState. Any other load error is
// returned.
func Load(p Persister, opts ...Option) (*Store, error) {
	log := slog.Default()
	probe := &Store{log: log}
	for _, opt := range opts {
		opt(probe)
	}
	log = probe.log

	state, err := p.Load()
	switch {
	case err == nil:
		log.Debug("loaded persisted state", "recipes", len(state.Recipes), "favorites", len(state.Favorites))
	case errors.Is(err, types.ErrNoState):
		log.Debug("no persisted state, using default recipes")
		state = DefaultState()
	case errors.Is(err, types.ErrCorruptState):
		log.Warn("persisted state is unreadable, using default recipes", "error", err)
		state = DefaultState()
	default:
		return nil, err
	}

	opts = append([]Option{WithState(state)}, opts...)
	opts = append(opts, WithPersister(p))
	return New(opts...), nil
}
