package persist

import (
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// BoltFileName is the bbolt database file inside the data directory.
const BoltFileName = "recipevault.bolt"

const bucketState = "state"

// boltOpenTimeout bounds how long Open waits for another process holding
// the database lock.
const boltOpenTimeout = 2 * time.Second

// Bolt stores the state as one key of a bbolt bucket.
type Bolt struct {
	mu  sync.Mutex
	db  *bolt.DB
	key []byte
}

var _ Backend = (*Bolt)(nil)

// OpenBolt opens (creating if needed) the database at path and makes sure
// the state bucket exists.
func OpenBolt(path, key string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}
	if err := ensureBucket(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state bucket: %w", err)
	}
	return &Bolt{db: db, key: []byte(key)}, nil
}

// ensureBucket creates the state bucket. An existing database is only read,
// since every committed write transaction touches the file.
func ensureBucket(db *bolt.DB) error {
	var exists bool
	if err := db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket([]byte(bucketState)) != nil
		return nil
	}); err != nil {
		return err
	}
	if exists {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	})
}

// Load returns the decoded state, or types.ErrNoState when the key is unset.
func (b *Bolt) Load() (types.State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return types.State{}, types.ErrStoreClosed
	}

	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketState)).Get(b.key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return types.State{}, fmt.Errorf("reading state key: %w", err)
	}
	if data == nil {
		return types.State{}, types.ErrNoState
	}
	return Decode(data)
}

// Save writes the encoded state under the key.
func (b *Bolt) Save(state types.State) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return types.ErrStoreClosed
	}

	data, err := Encode(state)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).Put(b.key, data)
	})
}

// Close closes the database. Idempotent.
func (b *Bolt) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}
