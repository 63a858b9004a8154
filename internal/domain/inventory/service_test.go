package inventory_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"dairy-farm-management/internal/adapters/storage/memory"
	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/domain/inventory"
	"dairy-farm-management/internal/domain/production"
	"dairy-farm-management/internal/platform/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

type fakeGauges struct {
	counts metrics.CowCounts
	milk   float64
}

func (g *fakeGauges) SetCowCounts(c metrics.CowCounts) { g.counts = c }
func (g *fakeGauges) SetMilkTotal(kgs float64)         { g.milk = kgs }

type fixture struct {
	cows       *cows.Service
	production *production.Service
	svc        *inventory.Service
	gauges     *fakeGauges
	breedID    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clock := func() time.Time { return testNow }

	cowSvc := cows.NewService(memory.NewCowRepo(), memory.NewBreedRepo())
	cowSvc.SetClock(clock)
	prodSvc := production.NewService(memory.NewProductionRepo(), cowSvc)
	prodSvc.SetClock(clock)

	svc := inventory.NewService(memory.NewInventoryRepo(), cowSvc, prodSvc)
	// cada recálculo avanza un minuto para que el historial tenga orden estable
	tick := testNow
	svc.SetClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	})
	g := &fakeGauges{}
	svc.SetGauges(g)

	cowSvc.AddObserver(svc)
	prodSvc.AddObserver(svc)

	b, err := cowSvc.CreateBreed(context.Background(), "Guernsey")
	require.NoError(t, err)
	return fixture{cows: cowSvc, production: prodSvc, svc: svc, gauges: g, breedID: b.ID}
}

func (f fixture) addCow(t *testing.T, name string, sex cows.Sex) cows.Cow {
	t.Helper()
	cat := cows.CategoryMilkingCow
	if sex == cows.SexMale {
		cat = cows.CategoryBull
	}
	c, err := f.cows.Create(context.Background(), cows.CreateInput{
		Name:        name,
		BreedID:     f.breedID,
		DateOfBirth: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC),
		Gender:      sex,
		Category:    cat,
	})
	require.NoError(t, err)
	return c
}

func TestCowInventory_RecomputedOnCowChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addCow(t, "Rosa", cows.SexFemale)
	sold := f.addCow(t, "Luna", cows.SexFemale)
	f.addCow(t, "Max", cows.SexMale)

	status := cows.AvailabilitySold
	_, err := f.cows.Update(ctx, sold.ID, cows.UpdateInput{Availability: &status})
	require.NoError(t, err)

	inv, err := f.svc.CowInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.TotalAlive)
	assert.Equal(t, 1, inv.Male)
	assert.Equal(t, 1, inv.Female)
	assert.Equal(t, 1, inv.Sold)
	assert.Equal(t, 0, inv.Dead)
	assert.Equal(t, metrics.CowCounts{Alive: 2, Male: 1, Female: 1, Sold: 1}, f.gauges.counts)

	history, err := f.svc.History(ctx, inventory.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, 2, history[0].NumberOfCows)
	assert.Equal(t, 1, history[3].NumberOfCows)

	other, err := f.svc.History(ctx, inventory.HistoryFilter{Year: 2024})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCowInventory_QuarantinedCowsAreNotCounted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addCow(t, "Rosa", cows.SexFemale)
	sick := f.addCow(t, "Nube", cows.SexFemale)

	status := cows.AvailabilityQuarantined
	_, err := f.cows.Update(ctx, sick.ID, cows.UpdateInput{Availability: &status})
	require.NoError(t, err)

	inv, err := f.svc.CowInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.TotalAlive)
	assert.Equal(t, 1, inv.Female)
	assert.Zero(t, inv.Sold)
	assert.Zero(t, inv.Dead)
}

func TestCowInventory_ComputedOnFirstRead(t *testing.T) {
	cowSvc := cows.NewService(memory.NewCowRepo(), memory.NewBreedRepo())
	svc := inventory.NewService(memory.NewInventoryRepo(), cowSvc, production.NewService(memory.NewProductionRepo(), cowSvc))

	inv, err := svc.CowInventory(context.Background())
	require.NoError(t, err)
	assert.Zero(t, inv.TotalAlive)
	assert.False(t, inv.LastUpdate.IsZero())
}

func TestMilkInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rosa := f.addCow(t, "Rosa", cows.SexFemale)
	luna := f.addCow(t, "Luna", cows.SexFemale)

	_, err := f.production.CreateMilk(ctx, production.MilkInput{CowID: rosa.ID, AmountKgs: 10.25})
	require.NoError(t, err)
	_, err = f.production.CreateMilk(ctx, production.MilkInput{CowID: rosa.ID, AmountKgs: 9.5, Session: production.SessionEvening})
	require.NoError(t, err)
	_, err = f.production.CreateMilk(ctx, production.MilkInput{CowID: luna.ID, AmountKgs: 12})
	require.NoError(t, err)

	inv, err := f.svc.MilkInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 31.75, inv.TotalKgs)
	assert.Equal(t, 3, inv.Records)
	require.Len(t, inv.Cows, 2)
	assert.Equal(t, "Rosa", inv.Cows[0].CowName)
	assert.Equal(t, 19.75, inv.Cows[0].TotalKgs)
	assert.Equal(t, 31.75, f.gauges.milk)

	one, err := f.svc.CowMilk(ctx, luna.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, one.TotalKgs)
	assert.Equal(t, 1, one.Records)

	_, err = f.svc.CowMilk(ctx, "missing")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rosa := f.addCow(t, "Rosa", cows.SexFemale)
	_, err := f.production.CreateMilk(ctx, production.MilkInput{CowID: rosa.ID, AmountKgs: 8})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, &buf))

	x, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer x.Close()

	assert.Equal(t, []string{"Cows", "History", "Milk"}, x.GetSheetList())

	rows, err := x.GetRows("Cows")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Total alive", rows[0][0])
	assert.Equal(t, "1", rows[1][0])

	milk, err := x.GetRows("Milk")
	require.NoError(t, err)
	require.Len(t, milk, 3)
	assert.Equal(t, "Rosa", milk[1][1])
	assert.Equal(t, "Total", milk[2][0])
}
