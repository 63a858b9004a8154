package memory

import (
	"context"
	"strings"

	"dairy-farm-management/internal/domain/production"
)

type productionRepo struct {
	lactations *table[production.Lactation]
	milk       *table[production.Milk]
}

func NewProductionRepo() production.Repository {
	return &productionRepo{
		lactations: newTable[production.Lactation]("lactation"),
		milk:       newTable[production.Milk]("milk record"),
	}
}

func (r *productionRepo) CreateLactation(_ context.Context, l production.Lactation) error {
	return r.lactations.insert(l.ID, l)
}

func (r *productionRepo) UpdateLactation(_ context.Context, l production.Lactation) error {
	return r.lactations.update(l.ID, l)
}

func (r *productionRepo) GetLactation(_ context.Context, id string) (production.Lactation, error) {
	return r.lactations.get(id)
}

func (r *productionRepo) DeleteLactation(_ context.Context, id string) error {
	return r.lactations.delete(id)
}

// ListLactations ordena por vaca y número de lactancia.
func (r *productionRepo) ListLactations(_ context.Context, f production.LactationFilter) ([]production.Lactation, error) {
	keep := func(l production.Lactation) bool {
		if f.CowID != "" && l.CowID != f.CowID {
			return false
		}
		if f.Open != nil && l.Open() != *f.Open {
			return false
		}
		return true
	}
	return r.lactations.filter(keep, func(a, b production.Lactation) int {
		if c := strings.Compare(a.CowID, b.CowID); c != 0 {
			return c
		}
		return a.Number - b.Number
	}), nil
}

func (r *productionRepo) CreateMilk(_ context.Context, m production.Milk) error {
	return r.milk.insert(m.ID, m)
}

func (r *productionRepo) UpdateMilk(_ context.Context, m production.Milk) error {
	return r.milk.update(m.ID, m)
}

func (r *productionRepo) GetMilk(_ context.Context, id string) (production.Milk, error) {
	return r.milk.get(id)
}

func (r *productionRepo) DeleteMilk(_ context.Context, id string) error {
	return r.milk.delete(id)
}

// ListMilk ordena del ordeñe más reciente al más antiguo.
func (r *productionRepo) ListMilk(_ context.Context, f production.MilkFilter) ([]production.Milk, error) {
	keep := func(m production.Milk) bool {
		if f.CowID != "" && m.CowID != f.CowID {
			return false
		}
		if f.LactationID != "" && m.LactationID != f.LactationID {
			return false
		}
		return matchDate(m.MilkingDate, f.Year, f.Month, f.Day)
	}
	return r.milk.filter(keep, func(a, b production.Milk) int {
		if c := byTime(b.MilkingDate, a.MilkingDate); c != 0 {
			return c
		}
		return byTime(b.CreatedAt, a.CreatedAt)
	}), nil
}
