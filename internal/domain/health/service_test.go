package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dairy-farm-management/internal/adapters/storage/memory"
	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/domain/health"
	"dairy-farm-management/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

type fixture struct {
	cows *cows.Service
	svc  *health.Service
	cow  cows.Cow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := func() time.Time { return testNow }

	cowSvc := cows.NewService(memory.NewCowRepo(), memory.NewBreedRepo())
	cowSvc.SetClock(clock)
	svc := health.NewService(memory.NewHealthRepo(), cowSvc)
	svc.SetClock(clock)

	b, err := cowSvc.CreateBreed(ctx, "Jersey")
	require.NoError(t, err)
	c, err := cowSvc.Create(ctx, cows.CreateInput{
		Name:        "Luna",
		BreedID:     b.ID,
		DateOfBirth: day(2022, 2, 1),
		Gender:      cows.SexFemale,
		Category:    cows.CategoryHeifer,
	})
	require.NoError(t, err)
	return &fixture{cows: cowSvc, svc: svc, cow: c}
}

func (f *fixture) reload(t *testing.T) cows.Cow {
	t.Helper()
	c, err := f.cows.GetByID(context.Background(), f.cow.ID)
	require.NoError(t, err)
	return c
}

func TestWeightRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateWeight(ctx, f.cow.ID, 9.9)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	_, err = f.svc.CreateWeight(ctx, f.cow.ID, 1500.1)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	w, err := f.svc.CreateWeight(ctx, f.cow.ID, 420)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 15), w.DateTaken)

	_, err = f.svc.CreateWeight(ctx, f.cow.ID, 421)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	got, err := f.svc.UpdateWeight(ctx, w.ID, 430)
	require.NoError(t, err)
	assert.Equal(t, 430.0, got.WeightInKgs)
	assert.Equal(t, w.DateTaken, got.DateTaken)

	items, err := f.svc.ListWeights(ctx, health.WeightFilter{CowID: f.cow.ID, Year: 2025, Month: 6})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCulling_MarksCowAndIsUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCulling(ctx, health.CullingInput{CowID: f.cow.ID, Reason: "Boredom"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	rec, err := f.svc.CreateCulling(ctx, health.CullingInput{CowID: f.cow.ID, Reason: health.CullingAge})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 15), rec.DateCarried)

	c := f.reload(t)
	assert.Equal(t, cows.ProductionCulled, c.ProductionStatus)
	assert.Equal(t, cows.PregnancyUnavailable, c.PregnancyStatus)

	_, err = f.svc.CreateCulling(ctx, health.CullingInput{CowID: f.cow.ID, Reason: health.CullingInjuries})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestQuarantine_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateQuarantine(ctx, health.QuarantineInput{CowID: f.cow.ID, Reason: health.QuarantineCalving})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "calving needs a pregnant cow")

	start := day(2025, 6, 10)
	q, err := f.svc.CreateQuarantine(ctx, health.QuarantineInput{CowID: f.cow.ID, Reason: health.QuarantineSickCow, StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, cows.AvailabilityQuarantined, f.reload(t).Availability)

	before := day(2025, 6, 1)
	_, err = f.svc.UpdateQuarantine(ctx, q.ID, health.QuarantineUpdate{EndDate: &before})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	end := day(2025, 6, 14)
	_, err = f.svc.UpdateQuarantine(ctx, q.ID, health.QuarantineUpdate{EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, cows.AvailabilityAlive, f.reload(t).Availability)
}

func TestTaxonomy_UniqueAndRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePathogen(ctx, "Prion")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	_, err = f.svc.CreatePathogen(ctx, health.PathogenVirus)
	require.NoError(t, err)
	_, err = f.svc.CreatePathogen(ctx, health.PathogenVirus)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = f.svc.CreateCategory(ctx, health.CategoryInfectious)
	require.NoError(t, err)

	_, err = f.svc.CreateSymptom(ctx, health.SymptomInput{
		Name: "Cough", Type: health.SymptomRespiratory, Severity: health.SeverityMild, Location: health.LocationLegs,
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = f.svc.CreateSymptom(ctx, health.SymptomInput{
		Name: "Cough 2", Type: health.SymptomRespiratory, Severity: health.SeverityMild, Location: health.LocationChest,
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	s, err := f.svc.CreateSymptom(ctx, health.SymptomInput{
		Name: "Dry cough", Type: health.SymptomRespiratory, Severity: health.SeverityMild, Location: health.LocationChest,
	})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 15), s.DateObserved)
}

func TestDisease_RecoveriesAndTreatments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePathogen(ctx, health.PathogenBacteria)
	require.NoError(t, err)
	cat, err := f.svc.CreateCategory(ctx, health.CategoryInfectious)
	require.NoError(t, err)
	sym, err := f.svc.CreateSymptom(ctx, health.SymptomInput{
		Name: "Fever", Type: health.SymptomOther, Severity: health.SeverityModerate, Location: health.LocationWholeBody,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateDisease(ctx, health.DiseaseInput{Name: "Mastitis", PathogenID: "nope", CategoryID: cat.ID})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	occurred := day(2025, 6, 1)
	d, err := f.svc.CreateDisease(ctx, health.DiseaseInput{
		Name:           "Mastitis",
		PathogenID:     p.ID,
		CategoryID:     cat.ID,
		OccurrenceDate: &occurred,
		CowIDs:         []string{f.cow.ID, f.cow.ID},
		SymptomIDs:     []string{sym.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{f.cow.ID}, d.CowIDs)

	recs, err := f.svc.ListRecoveries(ctx, health.RecoveryFilter{DiseaseID: d.ID})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, occurred, recs[0].DiagnosisDate)
	assert.Nil(t, recs[0].RecoveryDate)

	assert.True(t, errors.Is(f.svc.DeletePathogen(ctx, p.ID), apperr.ErrConflict))
	assert.True(t, errors.Is(f.svc.DeleteSymptom(ctx, sym.ID), apperr.ErrConflict))

	tr, err := f.svc.CreateTreatment(ctx, health.TreatmentInput{DiseaseID: d.ID, CowID: f.cow.ID, Method: "Antibiotics"})
	require.NoError(t, err)
	assert.Equal(t, health.TreatmentScheduled, tr.Status)

	completed := health.TreatmentCompleted
	_, err = f.svc.UpdateTreatment(ctx, tr.ID, health.TreatmentUpdate{Status: &completed})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "completion date required")

	done := day(2025, 6, 15)
	tr, err = f.svc.UpdateTreatment(ctx, tr.ID, health.TreatmentUpdate{Status: &completed, CompletionDate: &done})
	require.NoError(t, err)

	recs, err = f.svc.ListRecoveries(ctx, health.RecoveryFilter{CowID: f.cow.ID})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].RecoveryDate)
	assert.Equal(t, done, *recs[0].RecoveryDate)

	assert.True(t, errors.Is(f.svc.DeleteDisease(ctx, d.ID), apperr.ErrConflict))

	has, err := f.svc.HasCowRecords(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestTreatment_CowMustBeAffected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePathogen(ctx, health.PathogenFungi)
	require.NoError(t, err)
	cat, err := f.svc.CreateCategory(ctx, health.CategoryGenetic)
	require.NoError(t, err)
	d, err := f.svc.CreateDisease(ctx, health.DiseaseInput{Name: "Ringworm", PathogenID: p.ID, CategoryID: cat.ID})
	require.NoError(t, err)

	_, err = f.svc.CreateTreatment(ctx, health.TreatmentInput{DiseaseID: d.ID, CowID: f.cow.ID, Method: "Cream"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	cowIDs := []string{f.cow.ID}
	_, err = f.svc.UpdateDisease(ctx, d.ID, health.DiseaseUpdate{CowIDs: &cowIDs})
	require.NoError(t, err)
	_, err = f.svc.CreateTreatment(ctx, health.TreatmentInput{DiseaseID: d.ID, CowID: f.cow.ID, Method: "Cream"})
	assert.NoError(t, err)

	empty := []string{}
	_, err = f.svc.UpdateDisease(ctx, d.ID, health.DiseaseUpdate{CowIDs: &empty})
	require.NoError(t, err)
	recs, err := f.svc.ListRecoveries(ctx, health.RecoveryFilter{DiseaseID: d.ID})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

type stuckCows struct {
	*cows.Service
}

func (stuckCows) ApplyStatus(context.Context, string, cows.StatusChange) (cows.Cow, error) {
	return cows.Cow{}, errors.New("update failed")
}

func TestCulling_RemovedWhenCowCannotBeUpdated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	svc := health.NewService(memory.NewHealthRepo(), stuckCows{f.cows})
	svc.SetClock(func() time.Time { return testNow })

	_, err := svc.CreateCulling(ctx, health.CullingInput{CowID: f.cow.ID, Reason: health.CullingAge})
	require.Error(t, err)

	items, err := svc.ListCullings(ctx, health.CullingFilter{CowID: f.cow.ID})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, cows.ProductionOpen, f.reload(t).ProductionStatus)
}
