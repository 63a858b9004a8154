package reproduction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dairy-farm-management/internal/adapters/storage/memory"
	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/domain/production"
	"dairy-farm-management/internal/domain/reproduction"
	"dairy-farm-management/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

type fixture struct {
	cows       *cows.Service
	production *production.Service
	svc        *reproduction.Service
	cow        cows.Cow
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	clock := func() time.Time { return testNow }

	cowSvc := cows.NewService(memory.NewCowRepo(), memory.NewBreedRepo())
	cowSvc.SetClock(clock)
	prodSvc := production.NewService(memory.NewProductionRepo(), cowSvc)
	prodSvc.SetClock(clock)
	svc := reproduction.NewService(memory.NewReproductionRepo(), cowSvc, prodSvc)
	svc.SetClock(clock)

	b, err := cowSvc.CreateBreed(ctx, "Jersey")
	require.NoError(t, err)
	c, err := cowSvc.Create(ctx, cows.CreateInput{
		Name:        "Bella",
		BreedID:     b.ID,
		DateOfBirth: day(2022, 3, 1),
		Gender:      cows.SexFemale,
		Category:    cows.CategoryHeifer,
	})
	require.NoError(t, err)

	return fixture{cows: cowSvc, production: prodSvc, svc: svc, cow: c}
}

func (f fixture) addCow(t *testing.T, name string, dob time.Time, sex cows.Sex) cows.Cow {
	t.Helper()
	cat := cows.CategoryHeifer
	if sex == cows.SexMale {
		cat = cows.CategoryBull
	}
	c, err := f.cows.Create(context.Background(), cows.CreateInput{
		Name:        name,
		BreedID:     f.cow.BreedID,
		DateOfBirth: dob,
		Gender:      sex,
		Category:    cat,
	})
	require.NoError(t, err)
	return c
}

func (f fixture) inseminator(t *testing.T) reproduction.Inseminator {
	t.Helper()
	i, err := f.svc.CreateInseminator(context.Background(), reproduction.InseminatorInput{
		FirstName:     "Ana",
		LastName:      "Mora",
		PhoneNumber:   "+254700000001",
		Sex:           cows.SexFemale,
		LicenseNumber: "lic-001",
	})
	require.NoError(t, err)
	return i
}

func codeOf(err error) string {
	if e, ok := apperr.As(err); ok {
		return e.Code
	}
	return ""
}

func TestInseminator_LicenseAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	i := f.inseminator(t)
	assert.Equal(t, "LIC-001", i.LicenseNumber)

	_, err := f.svc.CreateInseminator(ctx, reproduction.InseminatorInput{
		FirstName: "Luis", LastName: "Paz", PhoneNumber: "1", Sex: cows.SexMale, LicenseNumber: " Lic-001 ",
	})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = f.svc.CreateInseminator(ctx, reproduction.InseminatorInput{LicenseNumber: "X"})
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, e.Fields, "first_name")
	assert.Contains(t, e.Fields, "sex")

	_, err = f.svc.CreateInsemination(ctx, reproduction.InseminationInput{CowID: f.cow.ID, InseminatorID: i.ID})
	require.NoError(t, err)

	err = f.svc.DeleteInseminator(ctx, i.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestCreateHeat_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h, err := f.svc.CreateHeat(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.Equal(t, testNow, h.ObservationTime)

	_, err = f.svc.CreateHeat(ctx, f.cow.ID)
	assert.Equal(t, "recent_heat", codeOf(err))

	f.svc.SetClock(func() time.Time { return testNow.AddDate(0, 0, 22) })
	_, err = f.svc.CreateHeat(ctx, f.cow.ID)
	assert.NoError(t, err)

	young := f.addCow(t, "Tiny", day(2025, 1, 1), cows.SexFemale)
	_, err = f.svc.CreateHeat(ctx, young.ID)
	assert.Equal(t, "too_young", codeOf(err))

	bull := f.addCow(t, "Toro", day(2020, 1, 1), cows.SexMale)
	_, err = f.svc.CreateHeat(ctx, bull.ID)
	assert.Equal(t, "invalid_gender", codeOf(err))

	_, err = f.svc.CreateHeat(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestInsemination_SuccessOpensPregnancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ins := f.inseminator(t)

	date := day(2025, 6, 1)
	i, err := f.svc.CreateInsemination(ctx, reproduction.InseminationInput{
		CowID: f.cow.ID, InseminatorID: ins.ID, Date: &date, Success: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, i.PregnancyID)
	assert.Equal(t, 14, i.DaysSince(testNow))

	p, err := f.svc.GetPregnancy(ctx, i.PregnancyID)
	require.NoError(t, err)
	assert.Equal(t, date, p.StartDate)
	assert.Equal(t, reproduction.PregnancyUnconfirmed, p.Status)
	assert.True(t, p.Open())

	c, err := f.cows.GetByID(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.Equal(t, cows.PregnancyPregnant, c.PregnancyStatus)

	// ya preñada
	_, err = f.svc.CreateInsemination(ctx, reproduction.InseminationInput{CowID: f.cow.ID, InseminatorID: ins.ID})
	assert.Equal(t, "pregnant_cow", codeOf(err))
	_, err = f.svc.CreateHeat(ctx, f.cow.ID)
	assert.Equal(t, "pregnant_cow", codeOf(err))

	err = f.svc.DeletePregnancy(ctx, p.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestInsemination_GapAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ins := f.inseminator(t)

	first := day(2025, 6, 1)
	i, err := f.svc.CreateInsemination(ctx, reproduction.InseminationInput{CowID: f.cow.ID, InseminatorID: ins.ID, Date: &first})
	require.NoError(t, err)
	assert.Empty(t, i.PregnancyID)

	second := day(2025, 6, 10)
	_, err = f.svc.CreateInsemination(ctx, reproduction.InseminationInput{CowID: f.cow.ID, InseminatorID: ins.ID, Date: &second})
	assert.Equal(t, "recent_insemination", codeOf(err))

	future := day(2025, 7, 1)
	_, err = f.svc.UpdateInsemination(ctx, i.ID, reproduction.InseminationUpdate{Date: &future})
	assert.Equal(t, "invalid_date", codeOf(err))

	_, err = f.svc.CreateInsemination(ctx, reproduction.InseminationInput{CowID: f.cow.ID, InseminatorID: "nope"})
	assert.Equal(t, "unknown_inseminator", codeOf(err))

	ok := true
	updated, err := f.svc.UpdateInsemination(ctx, i.ID, reproduction.InseminationUpdate{Success: &ok})
	require.NoError(t, err)
	require.NotEmpty(t, updated.PregnancyID)

	// idempotente: no abre una segunda preñez
	again, err := f.svc.UpdateInsemination(ctx, i.ID, reproduction.InseminationUpdate{Success: &ok})
	require.NoError(t, err)
	assert.Equal(t, updated.PregnancyID, again.PregnancyID)

	ps, err := f.svc.ListPregnancies(ctx, reproduction.PregnancyFilter{CowID: f.cow.ID})
	require.NoError(t, err)
	assert.Len(t, ps, 1)
}

func TestPregnancy_CalvingStartsLactation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePregnancy(ctx, reproduction.PregnancyInput{CowID: f.cow.ID, StartDate: day(2024, 9, 1)})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 11), p.DueDate())
	assert.Equal(t, 287, p.Duration(testNow))

	_, err = f.svc.CreatePregnancy(ctx, reproduction.PregnancyInput{CowID: f.cow.ID, StartDate: day(2024, 10, 1)})
	assert.Equal(t, "open_pregnancy", codeOf(err))

	calving := day(2025, 6, 1)
	live := reproduction.OutcomeLive
	p, err = f.svc.UpdatePregnancy(ctx, p.ID, reproduction.PregnancyUpdate{DateOfCalving: &calving, Outcome: &live})
	require.NoError(t, err)
	assert.True(t, p.Calved())
	assert.Equal(t, 273, p.Duration(testNow))

	c, err := f.cows.GetByID(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.Equal(t, cows.PregnancyCalved, c.PregnancyStatus)

	ls, err := f.production.ListLactations(ctx, production.LactationFilter{CowID: f.cow.ID})
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, p.ID, ls[0].PregnancyID)
	assert.Equal(t, calving, ls[0].StartDate)

	// 14 días después del parto
	_, err = f.svc.CreateHeat(ctx, f.cow.ID)
	assert.Equal(t, "recent_calving", codeOf(err))
}

func TestPregnancy_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	calving := day(2025, 6, 1)
	before := day(2024, 8, 1)
	tomorrow := day(2025, 6, 16)
	live := reproduction.OutcomeLive

	tests := []struct {
		name string
		in   reproduction.PregnancyInput
		code string
	}{
		{"future start", reproduction.PregnancyInput{StartDate: tomorrow}, "invalid_date"},
		{"too young at start", reproduction.PregnancyInput{StartDate: day(2022, 12, 1)}, "too_young"},
		{"calving before start", reproduction.PregnancyInput{StartDate: day(2024, 9, 1), DateOfCalving: &before, Outcome: live}, "invalid_date"},
		{"live without calving", reproduction.PregnancyInput{StartDate: day(2024, 9, 1), Outcome: live}, "required"},
		{"calving without outcome", reproduction.PregnancyInput{StartDate: day(2024, 9, 1), DateOfCalving: &calving}, "required"},
		{"failed without date", reproduction.PregnancyInput{StartDate: day(2024, 9, 1), Status: reproduction.PregnancyFailed}, "required"},
		{"bad status", reproduction.PregnancyInput{StartDate: day(2024, 9, 1), Status: "Maybe"}, "invalid_choice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.CowID = f.cow.ID
			_, err := f.svc.CreatePregnancy(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
			assert.Equal(t, tt.code, codeOf(err))
		})
	}

	bull := f.addCow(t, "Toro", day(2020, 1, 1), cows.SexMale)
	_, err := f.svc.CreatePregnancy(ctx, reproduction.PregnancyInput{CowID: bull.ID, StartDate: day(2024, 9, 1)})
	assert.Equal(t, "invalid_gender", codeOf(err))
}

func TestPregnancy_FailedReturnsCowToOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePregnancy(ctx, reproduction.PregnancyInput{CowID: f.cow.ID, StartDate: day(2025, 3, 1)})
	require.NoError(t, err)

	failed := reproduction.PregnancyFailed
	when := day(2025, 5, 1)
	p, err = f.svc.UpdatePregnancy(ctx, p.ID, reproduction.PregnancyUpdate{Status: &failed, FailedDate: &when})
	require.NoError(t, err)
	assert.False(t, p.Open())
	assert.Equal(t, 61, p.Duration(testNow))

	c, err := f.cows.GetByID(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.Equal(t, cows.PregnancyOpen, c.PregnancyStatus)

	// la falla libera a la vaca para una nueva preñez
	_, err = f.svc.CreatePregnancy(ctx, reproduction.PregnancyInput{CowID: f.cow.ID, StartDate: day(2025, 6, 1)})
	assert.NoError(t, err)
}

func TestHasCowRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	has, err := f.svc.HasCowRecords(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = f.svc.CreateHeat(ctx, f.cow.ID)
	require.NoError(t, err)

	has, err = f.svc.HasCowRecords(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestPregnancy_EditingOlderRecordKeepsCurrentState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	live := reproduction.OutcomeLive

	firstCalving := day(2024, 2, 10)
	a, err := f.svc.CreatePregnancy(ctx, reproduction.PregnancyInput{
		CowID: f.cow.ID, StartDate: day(2023, 5, 1), DateOfCalving: &firstCalving, Outcome: live,
	})
	require.NoError(t, err)
	secondCalving := day(2025, 3, 10)
	_, err = f.svc.CreatePregnancy(ctx, reproduction.PregnancyInput{
		CowID: f.cow.ID, StartDate: day(2024, 5, 1), DateOfCalving: &secondCalving, Outcome: live,
	})
	require.NoError(t, err)
	_, err = f.svc.CreatePregnancy(ctx, reproduction.PregnancyInput{CowID: f.cow.ID, StartDate: day(2025, 5, 1)})
	require.NoError(t, err)

	c, err := f.cows.GetByID(ctx, f.cow.ID)
	require.NoError(t, err)
	require.Equal(t, cows.PregnancyPregnant, c.PregnancyStatus)

	notes := "typo fix"
	stillborn := reproduction.OutcomeStillborn
	_, err = f.svc.UpdatePregnancy(ctx, a.ID, reproduction.PregnancyUpdate{Notes: &notes})
	require.NoError(t, err)
	_, err = f.svc.UpdatePregnancy(ctx, a.ID, reproduction.PregnancyUpdate{Outcome: &stillborn})
	require.NoError(t, err)

	c, err = f.cows.GetByID(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.Equal(t, cows.PregnancyPregnant, c.PregnancyStatus)

	ls, err := f.production.ListLactations(ctx, production.LactationFilter{CowID: f.cow.ID})
	require.NoError(t, err)
	require.Len(t, ls, 2)
	for _, l := range ls {
		if l.Number == 2 {
			assert.True(t, l.Open())
			assert.Equal(t, secondCalving, l.StartDate)
		}
	}
}

type failingInseminationRepo struct {
	reproduction.Repository
}

func (failingInseminationRepo) CreateInsemination(context.Context, reproduction.Insemination) error {
	return errors.New("insert failed")
}

func TestInsemination_FailedInsertLeavesNoPregnancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	svc := reproduction.NewService(failingInseminationRepo{memory.NewReproductionRepo()}, f.cows, f.production)
	svc.SetClock(func() time.Time { return testNow })
	ins, err := svc.CreateInseminator(ctx, reproduction.InseminatorInput{
		FirstName: "Ana", LastName: "Mora", PhoneNumber: "1", Sex: cows.SexFemale, LicenseNumber: "L-9",
	})
	require.NoError(t, err)

	date := day(2025, 6, 1)
	_, err = svc.CreateInsemination(ctx, reproduction.InseminationInput{
		CowID: f.cow.ID, InseminatorID: ins.ID, Date: &date, Success: true,
	})
	require.Error(t, err)

	ps, err := svc.ListPregnancies(ctx, reproduction.PregnancyFilter{CowID: f.cow.ID})
	require.NoError(t, err)
	assert.Empty(t, ps)

	c, err := f.cows.GetByID(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.Equal(t, cows.PregnancyOpen, c.PregnancyStatus)
}
