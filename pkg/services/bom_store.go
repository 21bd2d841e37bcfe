package services

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

// BOMRepository holds the current bill-of-materials dataset keyed by product code.
// A replace swaps the whole dataset; there is no merge.
type BOMRepository interface {
	ReplaceAll(items map[string][]models.BomItem) string
	Get(productCode string) ([]models.BomItem, bool)
	ListCodes() []string
	Snapshot() string
}

// MemoryBOMStore is an in-process BOMRepository safe for concurrent use.
type MemoryBOMStore struct {
	mu         sync.RWMutex
	items      map[string][]models.BomItem
	snapshotID string
}

// NewMemoryBOMStore returns an empty store.
func NewMemoryBOMStore() *MemoryBOMStore {
	return &MemoryBOMStore{items: make(map[string][]models.BomItem)}
}

// ReplaceAll swaps in a copy of items and returns the new snapshot ID.
func (s *MemoryBOMStore) ReplaceAll(items map[string][]models.BomItem) string {
	next := make(map[string][]models.BomItem, len(items))
	for code, list := range items {
		next[code] = append([]models.BomItem(nil), list...)
	}
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = next
	s.snapshotID = id
	return id
}

// Get returns a copy of the product's items.
func (s *MemoryBOMStore) Get(productCode string) ([]models.BomItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.items[productCode]
	if !ok {
		return nil, false
	}
	return append([]models.BomItem(nil), list...), true
}

// ListCodes returns the product codes in ascending order.
func (s *MemoryBOMStore) ListCodes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.items))
	for code := range s.items {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Snapshot returns the ID of the current dataset, empty before the first upload.
func (s *MemoryBOMStore) Snapshot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotID
}
