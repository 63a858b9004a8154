package memory

import (
	"context"
	"sync"

	"dairy-farm-management/internal/domain/inventory"
	"dairy-farm-management/internal/platform/apperr"
)

type inventoryRepo struct {
	mu      sync.RWMutex
	current *inventory.CowInventory
	history *table[inventory.HistoryEntry]
}

func NewInventoryRepo() inventory.Repository {
	return &inventoryRepo{history: newTable[inventory.HistoryEntry]("inventory history entry")}
}

func (r *inventoryRepo) GetCowInventory(_ context.Context) (inventory.CowInventory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return inventory.CowInventory{}, apperr.NotFound("cow inventory")
	}
	return *r.current, nil
}

func (r *inventoryRepo) SaveCowInventory(_ context.Context, inv inventory.CowInventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = &inv
	return nil
}

func (r *inventoryRepo) AppendHistory(_ context.Context, h inventory.HistoryEntry) error {
	return r.history.insert(h.ID, h)
}

// ListHistory: más reciente primero.
func (r *inventoryRepo) ListHistory(_ context.Context, f inventory.HistoryFilter) ([]inventory.HistoryEntry, error) {
	keep := func(h inventory.HistoryEntry) bool {
		return matchDate(h.DateUpdated, f.Year, f.Month, 0)
	}
	return r.history.filter(keep, func(a, b inventory.HistoryEntry) int {
		return byTime(b.DateUpdated, a.DateUpdated)
	}), nil
}
