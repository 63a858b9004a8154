package memory

import (
	"context"
	"slices"
	"strings"

	"dairy-farm-management/internal/domain/health"
)

type healthRepo struct {
	weights     *table[health.WeightRecord]
	cullings    *table[health.CullingRecord]
	quarantines *table[health.QuarantineRecord]
	pathogens   *table[health.Pathogen]
	categories  *table[health.DiseaseCategory]
	symptoms    *table[health.Symptom]
	diseases    *table[health.Disease]
	recoveries  *table[health.Recovery]
	treatments  *table[health.Treatment]
}

func NewHealthRepo() health.Repository {
	return &healthRepo{
		weights:     newTable[health.WeightRecord]("weight record"),
		cullings:    newTable[health.CullingRecord]("culling record"),
		quarantines: newTable[health.QuarantineRecord]("quarantine record"),
		pathogens:   newTable[health.Pathogen]("pathogen"),
		categories:  newTable[health.DiseaseCategory]("disease category"),
		symptoms:    newTable[health.Symptom]("symptom"),
		diseases:    newTable[health.Disease]("disease"),
		recoveries:  newTable[health.Recovery]("recovery"),
		treatments:  newTable[health.Treatment]("treatment"),
	}
}

// Weights

func (r *healthRepo) CreateWeight(_ context.Context, w health.WeightRecord) error {
	return r.weights.insert(w.ID, w)
}

func (r *healthRepo) UpdateWeight(_ context.Context, w health.WeightRecord) error {
	return r.weights.update(w.ID, w)
}

func (r *healthRepo) GetWeight(_ context.Context, id string) (health.WeightRecord, error) {
	return r.weights.get(id)
}

func (r *healthRepo) DeleteWeight(_ context.Context, id string) error { return r.weights.delete(id) }

func (r *healthRepo) ListWeights(_ context.Context, f health.WeightFilter) ([]health.WeightRecord, error) {
	keep := func(w health.WeightRecord) bool {
		return (f.CowID == "" || w.CowID == f.CowID) && matchDate(w.DateTaken, f.Year, f.Month, f.Day)
	}
	return r.weights.filter(keep, func(a, b health.WeightRecord) int { return byTime(b.CreatedAt, a.CreatedAt) }), nil
}

// Cullings

func (r *healthRepo) CreateCulling(_ context.Context, c health.CullingRecord) error {
	return r.cullings.insert(c.ID, c)
}

func (r *healthRepo) GetCulling(_ context.Context, id string) (health.CullingRecord, error) {
	return r.cullings.get(id)
}

func (r *healthRepo) DeleteCulling(_ context.Context, id string) error { return r.cullings.delete(id) }

func (r *healthRepo) ListCullings(_ context.Context, f health.CullingFilter) ([]health.CullingRecord, error) {
	keep := func(c health.CullingRecord) bool {
		return (f.CowID == "" || c.CowID == f.CowID) &&
			(f.Reason == "" || c.Reason == f.Reason) &&
			matchDate(c.DateCarried, f.Year, f.Month, 0)
	}
	return r.cullings.filter(keep, func(a, b health.CullingRecord) int { return byTime(b.CreatedAt, a.CreatedAt) }), nil
}

// Quarantines

func (r *healthRepo) CreateQuarantine(_ context.Context, q health.QuarantineRecord) error {
	return r.quarantines.insert(q.ID, q)
}

func (r *healthRepo) UpdateQuarantine(_ context.Context, q health.QuarantineRecord) error {
	return r.quarantines.update(q.ID, q)
}

func (r *healthRepo) GetQuarantine(_ context.Context, id string) (health.QuarantineRecord, error) {
	return r.quarantines.get(id)
}

func (r *healthRepo) DeleteQuarantine(_ context.Context, id string) error {
	return r.quarantines.delete(id)
}

func (r *healthRepo) ListQuarantines(_ context.Context, f health.QuarantineFilter) ([]health.QuarantineRecord, error) {
	keep := func(q health.QuarantineRecord) bool {
		return (f.CowID == "" || q.CowID == f.CowID) &&
			(f.Reason == "" || q.Reason == f.Reason) &&
			matchDate(q.StartDate, f.Year, f.Month, 0)
	}
	return r.quarantines.filter(keep, func(a, b health.QuarantineRecord) int { return byTime(b.StartDate, a.StartDate) }), nil
}

// Pathogens / categories / symptoms

func (r *healthRepo) CreatePathogen(_ context.Context, p health.Pathogen) error {
	return r.pathogens.insert(p.ID, p)
}

func (r *healthRepo) UpdatePathogen(_ context.Context, p health.Pathogen) error {
	return r.pathogens.update(p.ID, p)
}

func (r *healthRepo) GetPathogen(_ context.Context, id string) (health.Pathogen, error) {
	return r.pathogens.get(id)
}

func (r *healthRepo) DeletePathogen(_ context.Context, id string) error { return r.pathogens.delete(id) }

func (r *healthRepo) ListPathogens(_ context.Context) ([]health.Pathogen, error) {
	return r.pathogens.filter(nil, func(a, b health.Pathogen) int { return strings.Compare(string(a.Name), string(b.Name)) }), nil
}

func (r *healthRepo) CreateCategory(_ context.Context, c health.DiseaseCategory) error {
	return r.categories.insert(c.ID, c)
}

func (r *healthRepo) UpdateCategory(_ context.Context, c health.DiseaseCategory) error {
	return r.categories.update(c.ID, c)
}

func (r *healthRepo) GetCategory(_ context.Context, id string) (health.DiseaseCategory, error) {
	return r.categories.get(id)
}

func (r *healthRepo) DeleteCategory(_ context.Context, id string) error {
	return r.categories.delete(id)
}

func (r *healthRepo) ListCategories(_ context.Context) ([]health.DiseaseCategory, error) {
	return r.categories.filter(nil, func(a, b health.DiseaseCategory) int {
		return strings.Compare(string(a.Name), string(b.Name))
	}), nil
}

func (r *healthRepo) CreateSymptom(_ context.Context, s health.Symptom) error {
	return r.symptoms.insert(s.ID, s)
}

func (r *healthRepo) UpdateSymptom(_ context.Context, s health.Symptom) error {
	return r.symptoms.update(s.ID, s)
}

func (r *healthRepo) GetSymptom(_ context.Context, id string) (health.Symptom, error) {
	return r.symptoms.get(id)
}

func (r *healthRepo) DeleteSymptom(_ context.Context, id string) error { return r.symptoms.delete(id) }

func (r *healthRepo) ListSymptoms(_ context.Context) ([]health.Symptom, error) {
	return r.symptoms.filter(nil, func(a, b health.Symptom) int { return strings.Compare(a.Name, b.Name) }), nil
}

// Diseases

func (r *healthRepo) CreateDisease(_ context.Context, d health.Disease) error {
	return r.diseases.insert(d.ID, cloneDisease(d))
}

func (r *healthRepo) UpdateDisease(_ context.Context, d health.Disease) error {
	return r.diseases.update(d.ID, cloneDisease(d))
}

func (r *healthRepo) GetDisease(_ context.Context, id string) (health.Disease, error) {
	d, err := r.diseases.get(id)
	return cloneDisease(d), err
}

func (r *healthRepo) DeleteDisease(_ context.Context, id string) error { return r.diseases.delete(id) }

func (r *healthRepo) ListDiseases(_ context.Context, f health.DiseaseFilter) ([]health.Disease, error) {
	keep := func(d health.Disease) bool {
		switch {
		case f.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Name)):
			return false
		case f.PathogenID != "" && d.PathogenID != f.PathogenID:
			return false
		case f.CategoryID != "" && d.CategoryID != f.CategoryID:
			return false
		case f.CowID != "" && !slices.Contains(d.CowIDs, f.CowID):
			return false
		case f.SymptomID != "" && !slices.Contains(d.SymptomIDs, f.SymptomID):
			return false
		}
		return matchDate(d.OccurrenceDate, f.Year, f.Month, 0)
	}
	out := r.diseases.filter(keep, func(a, b health.Disease) int { return byTime(b.OccurrenceDate, a.OccurrenceDate) })
	for i := range out {
		out[i] = cloneDisease(out[i])
	}
	return out, nil
}

func cloneDisease(d health.Disease) health.Disease {
	d.CowIDs = slices.Clone(d.CowIDs)
	d.SymptomIDs = slices.Clone(d.SymptomIDs)
	return d
}

// Recoveries

func (r *healthRepo) CreateRecovery(_ context.Context, x health.Recovery) error {
	return r.recoveries.insert(x.ID, x)
}

func (r *healthRepo) UpdateRecovery(_ context.Context, x health.Recovery) error {
	return r.recoveries.update(x.ID, x)
}

func (r *healthRepo) GetRecovery(_ context.Context, id string) (health.Recovery, error) {
	return r.recoveries.get(id)
}

func (r *healthRepo) DeleteRecovery(_ context.Context, id string) error {
	return r.recoveries.delete(id)
}

func (r *healthRepo) ListRecoveries(_ context.Context, f health.RecoveryFilter) ([]health.Recovery, error) {
	keep := func(x health.Recovery) bool {
		return (f.CowID == "" || x.CowID == f.CowID) && (f.DiseaseID == "" || x.DiseaseID == f.DiseaseID)
	}
	return r.recoveries.filter(keep, func(a, b health.Recovery) int { return byTime(a.CreatedAt, b.CreatedAt) }), nil
}

// Treatments

func (r *healthRepo) CreateTreatment(_ context.Context, t health.Treatment) error {
	return r.treatments.insert(t.ID, t)
}

func (r *healthRepo) UpdateTreatment(_ context.Context, t health.Treatment) error {
	return r.treatments.update(t.ID, t)
}

func (r *healthRepo) GetTreatment(_ context.Context, id string) (health.Treatment, error) {
	return r.treatments.get(id)
}

func (r *healthRepo) DeleteTreatment(_ context.Context, id string) error {
	return r.treatments.delete(id)
}

func (r *healthRepo) ListTreatments(_ context.Context, f health.TreatmentFilter) ([]health.Treatment, error) {
	keep := func(t health.Treatment) bool {
		return (f.CowID == "" || t.CowID == f.CowID) &&
			(f.DiseaseID == "" || t.DiseaseID == f.DiseaseID) &&
			(f.Status == "" || t.Status == f.Status)
	}
	return r.treatments.filter(keep, func(a, b health.Treatment) int { return byTime(b.CreatedAt, a.CreatedAt) }), nil
}
