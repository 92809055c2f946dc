package store

import (
	"encoding/json"
	"sync"

	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// MemoryStore is an in-memory implementation of the state store. It
// round-trips snapshots through JSON so it exercises the same
// serialization path as the durable backend.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte

	// FailSave and FailLoad, when set, are returned by the respective
	// operations. Use in tests.
	FailSave error
	FailLoad error
}

var _ organizer.StateStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(snap *organizer.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return &organizer.StorageError{Op: "save", Err: m.FailSave}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return &organizer.StorageError{Op: "save", Err: err}
	}
	m.data = data
	return nil
}

func (m *MemoryStore) Load() (*organizer.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailLoad != nil {
		return nil, &organizer.StorageError{Op: "load", Err: m.FailLoad}
	}
	if m.data == nil {
		return nil, nil
	}
	var snap organizer.Snapshot
	if err := json.Unmarshal(m.data, &snap); err != nil {
		return nil, &organizer.StorageError{Op: "load", Err: err}
	}
	return &snap, nil
}

func (m *MemoryStore) Close() error { return nil }

// Corrupt replaces the stored bytes with garbage. Use in tests.
func (m *MemoryStore) Corrupt() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = []byte("{not json")
}
