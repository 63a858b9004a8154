package inventory

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/domain/production"
	"dairy-farm-management/internal/platform/apperr"
	"dairy-farm-management/internal/platform/metrics"

	"github.com/google/uuid"
)

// CowSource es la vista de vacas que usa el inventario.
type CowSource interface {
	GetByID(ctx context.Context, id string) (cows.Cow, error)
	List(ctx context.Context, f cows.ListFilter) ([]cows.Cow, error)
}

type MilkSource interface {
	ListMilk(ctx context.Context, f production.MilkFilter) ([]production.Milk, error)
}

// Gauges recibe los totales después de cada recálculo (Prometheus en prod).
type Gauges interface {
	SetCowCounts(c metrics.CowCounts)
	SetMilkTotal(kgs float64)
}

type Service struct {
	repo   Repository
	cows   CowSource
	milk   MilkSource
	gauges Gauges
	now    func() time.Time
}

func NewService(repo Repository, cowSource CowSource, milkSource MilkSource) *Service {
	return &Service{
		repo: repo,
		cows: cowSource,
		milk: milkSource,
		now:  time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) SetGauges(g Gauges) { s.gauges = g }

// CowsChanged implementa cows.Observer.
func (s *Service) CowsChanged(ctx context.Context) error {
	_, err := s.Recompute(ctx)
	return err
}

// MilkChanged implementa production.Observer.
func (s *Service) MilkChanged(ctx context.Context) error {
	_, err := s.MilkInventory(ctx)
	return err
}

// Recompute cuenta las vacas, guarda el inventario y agrega una fila de historial.
func (s *Service) Recompute(ctx context.Context) (CowInventory, error) {
	all, err := s.cows.List(ctx, cows.ListFilter{})
	if err != nil {
		return CowInventory{}, err
	}

	now := s.now().UTC()
	inv := CowInventory{LastUpdate: now}
	for _, c := range all {
		// Quarantined no suma en ningún contador.
		switch c.Availability {
		case cows.AvailabilitySold:
			inv.Sold++
			continue
		case cows.AvailabilityDead:
			inv.Dead++
			continue
		case cows.AvailabilityQuarantined:
			continue
		}
		inv.TotalAlive++
		if c.Gender == cows.SexMale {
			inv.Male++
		} else {
			inv.Female++
		}
	}

	if err := s.repo.SaveCowInventory(ctx, inv); err != nil {
		return CowInventory{}, err
	}
	if err := s.repo.AppendHistory(ctx, HistoryEntry{
		ID:           uuid.NewString(),
		NumberOfCows: inv.TotalAlive,
		DateUpdated:  now,
	}); err != nil {
		return CowInventory{}, err
	}

	if s.gauges != nil {
		s.gauges.SetCowCounts(metrics.CowCounts{
			Alive:  inv.TotalAlive,
			Male:   inv.Male,
			Female: inv.Female,
			Sold:   inv.Sold,
			Dead:   inv.Dead,
		})
	}
	return inv, nil
}

// CowInventory devuelve el último cálculo; si nunca se calculó, lo calcula.
func (s *Service) CowInventory(ctx context.Context) (CowInventory, error) {
	inv, err := s.repo.GetCowInventory(ctx)
	if errors.Is(err, apperr.ErrNotFound) {
		return s.Recompute(ctx)
	}
	return inv, err
}

func (s *Service) History(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error) {
	return s.repo.ListHistory(ctx, f)
}

// MilkInventory suma todos los registros de leche, con desglose por vaca
// ordenado de mayor a menor producción.
func (s *Service) MilkInventory(ctx context.Context) (MilkInventory, error) {
	records, err := s.milk.ListMilk(ctx, production.MilkFilter{})
	if err != nil {
		return MilkInventory{}, err
	}

	byCow := map[string]*CowMilk{}
	var inv MilkInventory
	for _, m := range records {
		inv.TotalKgs += m.AmountKgs
		inv.Records++
		inv.LastUpdate = later(inv.LastUpdate, m.UpdatedAt)

		cm, ok := byCow[m.CowID]
		if !ok {
			cm = &CowMilk{CowID: m.CowID}
			byCow[m.CowID] = cm
		}
		cm.TotalKgs += m.AmountKgs
		cm.Records++
		cm.LastMilkingDate = later(cm.LastMilkingDate, m.MilkingDate)
	}

	inv.TotalKgs = round2(inv.TotalKgs)
	inv.Cows = make([]CowMilk, 0, len(byCow))
	for _, cm := range byCow {
		cm.TotalKgs = round2(cm.TotalKgs)
		if c, err := s.cows.GetByID(ctx, cm.CowID); err == nil {
			cm.CowName = c.Name
		}
		inv.Cows = append(inv.Cows, *cm)
	}
	slices.SortFunc(inv.Cows, func(a, b CowMilk) int {
		if a.TotalKgs != b.TotalKgs {
			if a.TotalKgs > b.TotalKgs {
				return -1
			}
			return 1
		}
		return strings.Compare(a.CowID, b.CowID)
	})

	if s.gauges != nil {
		s.gauges.SetMilkTotal(inv.TotalKgs)
	}
	return inv, nil
}

// CowMilk es el total de una vaca (cero registros si nunca se ordeñó).
func (s *Service) CowMilk(ctx context.Context, cowID string) (CowMilk, error) {
	cowID = strings.TrimSpace(cowID)
	if cowID == "" {
		return CowMilk{}, apperr.Invalid("invalid_id", "id is required")
	}
	c, err := s.cows.GetByID(ctx, cowID)
	if err != nil {
		return CowMilk{}, err
	}

	records, err := s.milk.ListMilk(ctx, production.MilkFilter{CowID: c.ID})
	if err != nil {
		return CowMilk{}, err
	}
	out := CowMilk{CowID: c.ID, CowName: c.Name}
	for _, m := range records {
		out.TotalKgs += m.AmountKgs
		out.Records++
		out.LastMilkingDate = later(out.LastMilkingDate, m.MilkingDate)
	}
	out.TotalKgs = round2(out.TotalKgs)
	return out, nil
}

func later(cur *time.Time, t time.Time) *time.Time {
	if cur == nil || t.After(*cur) {
		return &t
	}
	return cur
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
