package inventory

import "context"

type Repository interface {
	// GetCowInventory devuelve apperr.ErrNotFound si todavía no se calculó.
	GetCowInventory(ctx context.Context) (CowInventory, error)
	SaveCowInventory(ctx context.Context, inv CowInventory) error

	AppendHistory(ctx context.Context, h HistoryEntry) error
	ListHistory(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error)
}
