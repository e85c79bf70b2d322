package store

import (
	"log/slog"

	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// Option configures a Store at construction.
type Option func(*Store)

// WithIDGenerator replaces the default UUID v7 generator. Tests use it to
// get predictable ids.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithPersister saves a snapshot through p after every mutation.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

// WithLogger sets the logger used for mutation and persistence events.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithState seeds the store with an initial state. Favorites and
// recommendations that reference missing recipes are dropped.
func WithState(state types.State) Option {
	return func(s *Store) {
		s.state = state
	}
}
