package services

import (
	"sync"

	"tableorder_backend/internal/models"
)

// OverrideStore holds the staff-set manual table statuses. Overrides take
// precedence over computed status and follow last-write-wins semantics
// across devices. Invalidation points: explicit staff clear, and checkout
// finalize for the billed table.
type OverrideStore struct {
	mu        sync.Mutex
	overrides map[int64]models.TableStatus
}

// NewOverrideStore creates an empty OverrideStore.
func NewOverrideStore() *OverrideStore {
	return &OverrideStore{overrides: map[int64]models.TableStatus{}}
}

// Set records a manual status for a table. Only occupied and available are
// meaningful values.
func (s *OverrideStore) Set(tableID int64, status models.TableStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[tableID] = status
}

// Get returns the manual status for a table, or empty when unset.
func (s *OverrideStore) Get(tableID int64) models.TableStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overrides[tableID]
}

// Clear removes the manual status for a table.
func (s *OverrideStore) Clear(tableID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, tableID)
}
