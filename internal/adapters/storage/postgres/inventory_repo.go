package postgres

import (
	"context"
	"database/sql"

	"dairy-farm-management/internal/domain/inventory"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// El inventario vive en una sola fila (id = 1).
func (r *InventoryRepo) GetCowInventory(ctx context.Context) (inventory.CowInventory, error) {
	var inv inventory.CowInventory
	err := r.db.QueryRowContext(ctx, `
		SELECT total_number_of_cows, number_of_male_cows, number_of_female_cows,
			number_of_sold_cows, number_of_dead_cows, last_update
		FROM cow_inventory
		WHERE id = 1
	`).Scan(&inv.TotalAlive, &inv.Male, &inv.Female, &inv.Sold, &inv.Dead, &inv.LastUpdate)
	if err != nil {
		return inventory.CowInventory{}, mapErr(err, "cow inventory")
	}
	return inv, nil
}

func (r *InventoryRepo) SaveCowInventory(ctx context.Context, inv inventory.CowInventory) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cow_inventory (
			id, total_number_of_cows, number_of_male_cows, number_of_female_cows,
			number_of_sold_cows, number_of_dead_cows, last_update
		) VALUES (1,$1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			total_number_of_cows = EXCLUDED.total_number_of_cows,
			number_of_male_cows = EXCLUDED.number_of_male_cows,
			number_of_female_cows = EXCLUDED.number_of_female_cows,
			number_of_sold_cows = EXCLUDED.number_of_sold_cows,
			number_of_dead_cows = EXCLUDED.number_of_dead_cows,
			last_update = EXCLUDED.last_update
	`, inv.TotalAlive, inv.Male, inv.Female, inv.Sold, inv.Dead, inv.LastUpdate)
	return mapErr(err, "cow inventory")
}

func (r *InventoryRepo) AppendHistory(ctx context.Context, h inventory.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cow_inventory_history (id, number_of_cows, date_updated) VALUES ($1,$2,$3)
	`, h.ID, h.NumberOfCows, h.DateUpdated)
	return mapErr(err, "inventory history entry")
}

func (r *InventoryRepo) ListHistory(ctx context.Context, f inventory.HistoryFilter) ([]inventory.HistoryEntry, error) {
	var w where
	w.date("date_updated", f.Year, f.Month, 0)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number_of_cows, date_updated FROM cow_inventory_history`+w.sql()+`
		ORDER BY date_updated DESC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (inventory.HistoryEntry, error) {
		var h inventory.HistoryEntry
		err := s.Scan(&h.ID, &h.NumberOfCows, &h.DateUpdated)
		return h, err
	})
}
