package production_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dairy-farm-management/internal/adapters/storage/memory"
	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/domain/production"
	"dairy-farm-management/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

type fixture struct {
	cows *cows.Service
	svc  *production.Service
	cow  cows.Cow
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	clock := func() time.Time { return testNow }

	cowSvc := cows.NewService(memory.NewCowRepo(), memory.NewBreedRepo())
	cowSvc.SetClock(clock)
	svc := production.NewService(memory.NewProductionRepo(), cowSvc)
	svc.SetClock(clock)

	b, err := cowSvc.CreateBreed(ctx, "Holstein")
	require.NoError(t, err)
	c, err := cowSvc.Create(ctx, cows.CreateInput{
		Name:        "Daisy",
		BreedID:     b.ID,
		DateOfBirth: day(2021, 4, 1),
		Gender:      cows.SexFemale,
		Category:    cows.CategoryMilkingCow,
	})
	require.NoError(t, err)

	return fixture{cows: cowSvc, svc: svc, cow: c}
}

func (f fixture) bull(t *testing.T) cows.Cow {
	t.Helper()
	c, err := f.cows.Create(context.Background(), cows.CreateInput{
		Name:        "Bruno",
		BreedID:     f.cow.BreedID,
		DateOfBirth: day(2020, 1, 1),
		Gender:      cows.SexMale,
		Category:    cows.CategoryBull,
	})
	require.NoError(t, err)
	return c
}

func TestLactationStage(t *testing.T) {
	l := production.Lactation{StartDate: day(2025, 1, 1)}

	assert.Equal(t, production.StageEarly, l.Stage(day(2025, 4, 1)))
	assert.Equal(t, production.StageMid, l.Stage(day(2025, 6, 1)))
	assert.Equal(t, production.StageLate, l.Stage(day(2025, 10, 1)))
	assert.Equal(t, production.StageDry, l.Stage(day(2026, 1, 1)))

	end := day(2025, 3, 1)
	l.EndDate = &end
	assert.Equal(t, production.StageEnded, l.Stage(day(2026, 1, 1)))
	assert.Equal(t, 59, l.DaysInLactation(day(2026, 1, 1)))
}

func TestCreateLactation_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := day(2025, 2, 1)
	l, err := f.svc.CreateLactation(ctx, production.LactationInput{CowID: f.cow.ID, StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, 1, l.Number)
	assert.True(t, l.Open())

	_, err = f.svc.CreateLactation(ctx, production.LactationInput{CowID: f.cow.ID})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = f.svc.CreateLactation(ctx, production.LactationInput{CowID: f.bull(t).ID})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = f.svc.CreateLactation(ctx, production.LactationInput{CowID: "missing"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestStartFromCalving_ClosesPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := day(2024, 3, 1)
	first, err := f.svc.CreateLactation(ctx, production.LactationInput{CowID: f.cow.ID, StartDate: &start})
	require.NoError(t, err)

	next, err := f.svc.StartFromCalving(ctx, f.cow.ID, "preg-1", day(2025, 5, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, next.Number)
	assert.Equal(t, "preg-1", next.PregnancyID)
	assert.Equal(t, day(2025, 5, 10), next.StartDate)

	closed, err := f.svc.GetLactation(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndDate)
	assert.Equal(t, day(2025, 5, 9), *closed.EndDate)

	again, err := f.svc.StartFromCalving(ctx, f.cow.ID, "preg-1", day(2025, 5, 10))
	require.NoError(t, err)
	assert.Equal(t, next.ID, again.ID)
}

func TestCreateMilk_AutoOpensLactation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 12.5})
	require.NoError(t, err)
	assert.Equal(t, production.SessionMorning, m.Session)
	assert.Equal(t, day(2025, 6, 15), m.MilkingDate)
	require.NotEmpty(t, m.LactationID)

	l, err := f.svc.GetLactation(ctx, m.LactationID)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Number)
	assert.Equal(t, m.MilkingDate, l.StartDate)

	evening, err := f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 8, Session: production.SessionEvening})
	require.NoError(t, err)
	assert.Equal(t, m.LactationID, evening.LactationID)

	_, err = f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 3})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	err = f.svc.DeleteLactation(ctx, m.LactationID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestCreateMilk_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tomorrow := testNow.AddDate(0, 0, 1)

	cases := []struct {
		name string
		in   production.MilkInput
		kind error
	}{
		{"zero amount", production.MilkInput{CowID: f.cow.ID, AmountKgs: 0}, apperr.ErrInvalidInput},
		{"too much", production.MilkInput{CowID: f.cow.ID, AmountKgs: 100.5}, apperr.ErrInvalidInput},
		{"future date", production.MilkInput{CowID: f.cow.ID, AmountKgs: 5, MilkingDate: &tomorrow}, apperr.ErrInvalidInput},
		{"bad session", production.MilkInput{CowID: f.cow.ID, AmountKgs: 5, Session: "Night"}, apperr.ErrInvalidInput},
		{"male cow", production.MilkInput{CowID: f.bull(t).ID, AmountKgs: 5}, apperr.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateMilk(ctx, tc.in)
			assert.True(t, errors.Is(err, tc.kind), "got %v", err)
		})
	}

	ok, err := f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 100})
	require.NoError(t, err)
	assert.Equal(t, 100.0, ok.AmountKgs)
}

func TestUpdateMilk_AndCowDependencies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	has, err := f.svc.HasCowRecords(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.False(t, has)

	m, err := f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 10})
	require.NoError(t, err)

	amount := 11.0
	got, err := f.svc.UpdateMilk(ctx, m.ID, production.MilkUpdate{AmountKgs: &amount})
	require.NoError(t, err)
	assert.Equal(t, 11.0, got.AmountKgs)

	has, err = f.svc.HasCowRecords(ctx, f.cow.ID)
	require.NoError(t, err)
	assert.True(t, has)

	f.cows.AddDependencyChecker(f.svc)
	err = f.cows.Delete(ctx, f.cow.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestStartFromCalving_OlderCalvingIsNotReopened(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.StartFromCalving(ctx, f.cow.ID, "preg-a", day(2024, 2, 10))
	require.NoError(t, err)
	second, err := f.svc.StartFromCalving(ctx, f.cow.ID, "preg-b", day(2025, 3, 10))
	require.NoError(t, err)

	again, err := f.svc.StartFromCalving(ctx, f.cow.ID, "preg-a", day(2024, 2, 10))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	ls, err := f.svc.ListLactations(ctx, production.LactationFilter{CowID: f.cow.ID})
	require.NoError(t, err)
	assert.Len(t, ls, 2)

	current, err := f.svc.GetLactation(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, current.Open())
	assert.Equal(t, 2, current.Number)
}

func TestCreateMilk_DateMustFallInsideLactation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	beforeBirth := day(2019, 1, 1)
	_, err := f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 5, MilkingDate: &beforeBirth})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "got %v", err)

	start := day(2025, 6, 1)
	l, err := f.svc.CreateLactation(ctx, production.LactationInput{CowID: f.cow.ID, StartDate: &start})
	require.NoError(t, err)

	early := day(2024, 1, 10)
	_, err = f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 5, MilkingDate: &early})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "got %v", err)

	inside := day(2025, 6, 10)
	m, err := f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 5, MilkingDate: &inside})
	require.NoError(t, err)
	assert.Equal(t, l.ID, m.LactationID)

	_, err = f.svc.UpdateMilk(ctx, m.ID, production.MilkUpdate{MilkingDate: &early})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "got %v", err)
}

func TestCreateMilk_AfterClosedLactationOpensNext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := day(2024, 1, 1)
	first, err := f.svc.CreateLactation(ctx, production.LactationInput{CowID: f.cow.ID, StartDate: &start})
	require.NoError(t, err)
	end := day(2024, 11, 1)
	_, err = f.svc.UpdateLactation(ctx, first.ID, production.LactationUpdate{EndDate: &end})
	require.NoError(t, err)

	inFirst := day(2024, 5, 5)
	m, err := f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 7, MilkingDate: &inFirst})
	require.NoError(t, err)
	assert.Equal(t, first.ID, m.LactationID)

	later, err := f.svc.CreateMilk(ctx, production.MilkInput{CowID: f.cow.ID, AmountKgs: 7})
	require.NoError(t, err)
	next, err := f.svc.GetLactation(ctx, later.LactationID)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Number)
}
