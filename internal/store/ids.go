package store

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh, unique recipe id on every call.
type IDGenerator func() string

// NewUUID generates a UUID v7, falling back to a random v4 if the v7
// generator fails.
func NewUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// SequentialIDs returns a generator yielding prefix+"1", prefix+"2", ...
// It is safe for concurrent use.
func SequentialIDs(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	}
}
