package ledger

import (
	"context"
	"sync"

	"ledger/internal/core"
)

// MemoryStore is an in-process Store. It mirrors the file store's
// lifecycle: reads fail with ErrStoreNotFound and appends with
// ErrStorageUnavailable until Initialize has been called.
type MemoryStore struct {
	mu          sync.Mutex
	initialized bool
	items       []core.Entry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

func (s *MemoryStore) Append(_ context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrStorageUnavailable
	}
	s.items = append(s.items, e)
	return nil
}

// ReadAll returns a copy so callers cannot mutate the stored sequence.
func (s *MemoryStore) ReadAll(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, ErrStoreNotFound
	}
	return append([]core.Entry(nil), s.items...), nil
}
