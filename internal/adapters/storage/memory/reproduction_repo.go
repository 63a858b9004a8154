package memory

import (
	"context"
	"strings"

	"dairy-farm-management/internal/domain/reproduction"
)

type reproductionRepo struct {
	inseminators  *table[reproduction.Inseminator]
	heats         *table[reproduction.Heat]
	inseminations *table[reproduction.Insemination]
	pregnancies   *table[reproduction.Pregnancy]
}

func NewReproductionRepo() reproduction.Repository {
	return &reproductionRepo{
		inseminators:  newTable[reproduction.Inseminator]("inseminator"),
		heats:         newTable[reproduction.Heat]("heat record"),
		inseminations: newTable[reproduction.Insemination]("insemination record"),
		pregnancies:   newTable[reproduction.Pregnancy]("pregnancy record"),
	}
}

func (r *reproductionRepo) CreateInseminator(_ context.Context, i reproduction.Inseminator) error {
	return r.inseminators.insert(i.ID, i)
}

func (r *reproductionRepo) UpdateInseminator(_ context.Context, i reproduction.Inseminator) error {
	return r.inseminators.update(i.ID, i)
}

func (r *reproductionRepo) GetInseminator(_ context.Context, id string) (reproduction.Inseminator, error) {
	return r.inseminators.get(id)
}

func (r *reproductionRepo) ListInseminators(_ context.Context) ([]reproduction.Inseminator, error) {
	return r.inseminators.filter(nil, func(a, b reproduction.Inseminator) int {
		if c := strings.Compare(a.LastName, b.LastName); c != 0 {
			return c
		}
		return strings.Compare(a.FirstName, b.FirstName)
	}), nil
}

func (r *reproductionRepo) DeleteInseminator(_ context.Context, id string) error {
	return r.inseminators.delete(id)
}

func (r *reproductionRepo) CreateHeat(_ context.Context, h reproduction.Heat) error {
	return r.heats.insert(h.ID, h)
}

func (r *reproductionRepo) GetHeat(_ context.Context, id string) (reproduction.Heat, error) {
	return r.heats.get(id)
}

// ListHeats: más reciente primero.
func (r *reproductionRepo) ListHeats(_ context.Context, f reproduction.HeatFilter) ([]reproduction.Heat, error) {
	keep := func(h reproduction.Heat) bool {
		if f.CowID != "" && h.CowID != f.CowID {
			return false
		}
		return matchDate(h.ObservationTime, f.Year, f.Month, 0)
	}
	return r.heats.filter(keep, func(a, b reproduction.Heat) int {
		return byTime(b.ObservationTime, a.ObservationTime)
	}), nil
}

func (r *reproductionRepo) DeleteHeat(_ context.Context, id string) error {
	return r.heats.delete(id)
}

func (r *reproductionRepo) CreateInsemination(_ context.Context, i reproduction.Insemination) error {
	return r.inseminations.insert(i.ID, i)
}

func (r *reproductionRepo) UpdateInsemination(_ context.Context, i reproduction.Insemination) error {
	return r.inseminations.update(i.ID, i)
}

func (r *reproductionRepo) GetInsemination(_ context.Context, id string) (reproduction.Insemination, error) {
	return r.inseminations.get(id)
}

func (r *reproductionRepo) ListInseminations(_ context.Context, f reproduction.InseminationFilter) ([]reproduction.Insemination, error) {
	keep := func(i reproduction.Insemination) bool {
		if f.CowID != "" && i.CowID != f.CowID {
			return false
		}
		if f.InseminatorID != "" && i.InseminatorID != f.InseminatorID {
			return false
		}
		if f.Success != nil && i.Success != *f.Success {
			return false
		}
		return matchDate(i.Date, f.Year, f.Month, 0)
	}
	return r.inseminations.filter(keep, func(a, b reproduction.Insemination) int {
		return byTime(b.Date, a.Date)
	}), nil
}

func (r *reproductionRepo) DeleteInsemination(_ context.Context, id string) error {
	return r.inseminations.delete(id)
}

func (r *reproductionRepo) CreatePregnancy(_ context.Context, p reproduction.Pregnancy) error {
	return r.pregnancies.insert(p.ID, p)
}

func (r *reproductionRepo) UpdatePregnancy(_ context.Context, p reproduction.Pregnancy) error {
	return r.pregnancies.update(p.ID, p)
}

func (r *reproductionRepo) GetPregnancy(_ context.Context, id string) (reproduction.Pregnancy, error) {
	return r.pregnancies.get(id)
}

func (r *reproductionRepo) ListPregnancies(_ context.Context, f reproduction.PregnancyFilter) ([]reproduction.Pregnancy, error) {
	keep := func(p reproduction.Pregnancy) bool {
		if f.CowID != "" && p.CowID != f.CowID {
			return false
		}
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		if f.Outcome != "" && p.Outcome != f.Outcome {
			return false
		}
		return matchDate(p.StartDate, f.Year, f.Month, 0)
	}
	return r.pregnancies.filter(keep, func(a, b reproduction.Pregnancy) int {
		return byTime(b.StartDate, a.StartDate)
	}), nil
}

func (r *reproductionRepo) DeletePregnancy(_ context.Context, id string) error {
	return r.pregnancies.delete(id)
}
