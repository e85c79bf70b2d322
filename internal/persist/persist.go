// Package persist saves and restores the full store state as a single blob
// under a namespace key. Three backends are available: a JSON file, a
// SQLite key-value table and a bbolt bucket. All of them share the codec in
// this file.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/recipevault/internal/store"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// Backend is a store.Persister that holds resources until closed.
type Backend interface {
	store.Persister
	Close() error
}

// stateVersion is written into every envelope. Decoding accepts any version.
const stateVersion = 0

// envelope is the on-disk shape: the state plus a format version.
type envelope struct {
	State   types.State `json:"state"`
	Version int         `json:"version"`
}

// Encode serializes state into the persisted envelope.
func Encode(state types.State) ([]byte, error) {
	data, err := json.Marshal(envelope{State: state.Clone(), Version: stateVersion})
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Decode parses a persisted envelope. Unknown fields are ignored. An
// envelope without a state, or with a null one, returns types.ErrNoState so
// the caller starts from its defaults. A blob that is not valid JSON or does
// not match the envelope returns an error wrapping types.ErrCorruptState.
func Decode(data []byte) (types.State, error) {
	var env struct {
		State   *types.State `json:"state"`
		Version int          `json:"version"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return types.State{}, fmt.Errorf("%w: %v", types.ErrCorruptState, err)
	}
	if env.State == nil {
		return types.State{}, types.ErrNoState
	}
	return env.State.Clone(), nil
}

// Open creates the backend named by cfg.Backend inside cfg.DataDir, creating
// the directory if needed. The state is stored under types.StorageKey.
func Open(cfg types.Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	switch cfg.Backend {
	case types.BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, SQLiteFileName), types.StorageKey)
	case types.BackendBolt:
		return OpenBolt(filepath.Join(dataDir, BoltFileName), types.StorageKey)
	default:
		return NewFile(dataDir, types.StorageKey), nil
	}
}

// DataFiles lists the file names a backend writes inside the data directory.
// Watchers use it to decide which change events matter.
func DataFiles(backend string) []string {
	switch backend {
	case types.BackendSQLite:
		return []string{SQLiteFileName, SQLiteFileName + "-wal"}
	case types.BackendBolt:
		return []string{BoltFileName}
	default:
		return []string{types.StorageKey + fileExt}
	}
}
