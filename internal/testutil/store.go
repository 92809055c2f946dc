package testutil

import (
	"github.com/black-lotus-01/data-organizer/internal/store"
)

// NewTestStore creates a new in-memory state store for testing.
func NewTestStore() *store.MemoryStore {
	return store.NewMemoryStore()
}
