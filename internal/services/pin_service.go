package services

import (
	"sync"

	"tableorder_backend/internal/repositories"
	"tableorder_backend/pkg/utils"
)

// Pin write sources, reported by Set so callers can surface degraded mode.
const (
	PinSourceCentral = "central"
	PinSourceCache   = "cache"
)

// PinService reads and writes table PINs with a degrade-to-local policy:
// the central store is authoritative when reachable, and a single in-process
// cache answers reads during outages. Central unavailability never blocks
// the staff workflow.
type PinService interface {
	GetAll() map[int64]string
	Get(tableID int64) (string, bool)
	Set(tableID int64, pin string) string
	Clear(tableID int64)
}

type pinService struct {
	repo repositories.PinRepository

	mu    sync.Mutex
	cache map[int64]string
}

// NewPinService creates a PinService over the given central repository.
func NewPinService(repo repositories.PinRepository) PinService {
	return &pinService{
		repo:  repo,
		cache: map[int64]string{},
	}
}

// GetAll returns the full table→PIN mapping. A successful central read
// overwrites the cache; a failed one silently falls back to the last cached
// mapping.
func (s *pinService) GetAll() map[int64]string {
	fresh, err := s.repo.GetAllPins()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		utils.LogWarn("pin store: central read failed, serving cached pins", map[string]interface{}{"error": err.Error()})
		return copyPins(s.cache)
	}

	s.cache = copyPins(fresh)
	return fresh
}

// Get returns the PIN for one table, using the same degrade-to-local read
// path as GetAll.
func (s *pinService) Get(tableID int64) (string, bool) {
	pins := s.GetAll()
	pin, ok := pins[tableID]
	return pin, ok
}

// Set stores a PIN. The cache is written first and unconditionally so the
// staff UI reflects the change even if the central upsert fails; the central
// write is best-effort. Returns which path succeeded.
func (s *pinService) Set(tableID int64, pin string) string {
	s.mu.Lock()
	s.cache[tableID] = pin
	s.mu.Unlock()

	if err := s.repo.UpsertPin(tableID, pin); err != nil {
		utils.LogWarn("pin store: central upsert failed, pin kept locally", map[string]interface{}{
			"table_id": tableID, "error": err.Error(),
		})
		return PinSourceCache
	}
	return PinSourceCentral
}

// Clear removes a PIN from the cache and attempts the central delete,
// ignoring central failures.
func (s *pinService) Clear(tableID int64) {
	s.mu.Lock()
	delete(s.cache, tableID)
	s.mu.Unlock()

	if err := s.repo.DeletePin(tableID); err != nil {
		utils.LogWarn("pin store: central delete failed", map[string]interface{}{
			"table_id": tableID, "error": err.Error(),
		})
	}
}

func copyPins(src map[int64]string) map[int64]string {
	dst := make(map[int64]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
