package ledger

import (
	"context"
	"sync"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/diamondnunstraw/kartcentral/internal/storage"
)

// recordingStore wraps a memory map and counts writes so tests can assert
// the persistence discipline.
type recordingStore struct {
	m      sync.RWMutex
	data   map[string]string
	writes int
	err    error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{data: make(map[string]string)}
}

func (s *recordingStore) Read(_ context.Context, key string) (string, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.err != nil {
		return "", s.err
	}
	value, exists := s.data[key]
	if !exists {
		return "", storage.ErrKeyNotFound
	}
	return value, nil
}

func (s *recordingStore) Write(_ context.Context, key, value string) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	s.writes++
	return nil
}

func (s *recordingStore) writeCount() int {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.writes
}

func testIdentity(id string) *domain.Identity {
	return &domain.Identity{ID: id, Email: id + "@example.com"}
}

func testProduct(id string, price float64) domain.Product {
	return domain.Product{
		ID:       id,
		Title:    "Product " + id,
		Price:    price,
		ImageURL: "https://example.com/" + id + ".jpg",
		Category: "electronics",
	}
}
