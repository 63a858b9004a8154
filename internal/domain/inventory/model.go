package inventory

import "time"

// CowInventory es el resumen único de cabezas; se recalcula con cada cambio de vacas.
type CowInventory struct {
	TotalAlive int
	Male       int
	Female     int
	Sold       int
	Dead       int
	LastUpdate time.Time
}

// HistoryEntry se agrega en cada recálculo.
type HistoryEntry struct {
	ID           string
	NumberOfCows int
	DateUpdated  time.Time
}

type HistoryFilter struct {
	Year  int
	Month int
}

// MilkInventory se deriva de los registros de leche; no se persiste.
type MilkInventory struct {
	TotalKgs   float64
	Records    int
	LastUpdate *time.Time
	Cows       []CowMilk
}

type CowMilk struct {
	CowID           string
	CowName         string
	TotalKgs        float64
	Records         int
	LastMilkingDate *time.Time
}
