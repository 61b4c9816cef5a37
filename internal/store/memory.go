package store

import (
	"context"
	"encoding/json"
	"sync"

	"go-chart-dashboard/internal/model"
)

// MemoryStore keeps snapshot blobs in a map, mirroring SQLiteStore's
// semantics byte for byte. It backs unit tests and the store-less dev mode;
// contents vanish with the process.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty in-memory snapshot store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	var snap model.Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		delete(s.blobs, key)
		return nil, ErrNotFound
	}
	return &snap, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, snap *model.Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[key] = blob
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Plant stores a raw blob directly, bypassing Save's encoding. Tests use it
// to stage malformed entries.
func (s *MemoryStore) Plant(key string, blob []byte) {
	s.mu.Lock()
	s.blobs[key] = blob
	s.mu.Unlock()
}
