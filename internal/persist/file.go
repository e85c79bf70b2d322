package persist

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/recipevault/pkg/types"
)

const fileExt = ".json"

// File stores the state as <dir>/<key>.json, replacing the file atomically
// on every save.
type File struct {
	mu     sync.Mutex
	path   string
	closed bool
}

var _ Backend = (*File)(nil)

// NewFile returns a file backend rooted at dir. The file is not touched
// until the first Load or Save.
func NewFile(dir, key string) *File {
	return &File{path: filepath.Join(dir, key+fileExt)}
}

// Path returns the file the state is written to.
func (f *File) Path() string {
	return f.path
}

// Load reads and decodes the state file. A missing file returns
// types.ErrNoState.
func (f *File) Load() (types.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return types.State{}, types.ErrStoreClosed
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return types.State{}, types.ErrNoState
	}
	if err != nil {
		return types.State{}, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return Decode(data)
}

// Save encodes state and writes it atomically.
func (f *File) Save(state types.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return types.ErrStoreClosed
	}

	data, err := Encode(state)
	if err != nil {
		return err
	}
	return writeAtomic(f.path, data)
}

// Close marks the backend closed. Idempotent.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// writeAtomic writes data to path using the temp-file, fsync, rename
// pattern so readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing state: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing newline: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
