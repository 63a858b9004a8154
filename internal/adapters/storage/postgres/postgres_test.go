package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/domain/health"
	"dairy-farm-management/internal/domain/inventory"
	"dairy-farm-management/internal/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhere(t *testing.T) {
	var w where
	assert.Equal(t, "", w.sql())

	w.eq("cow_id", "")
	w.eq("cow_id", "c1")
	w.date("milking_date", 2025, 6, 0)
	w.add("success = ?", true)

	assert.Equal(t,
		" WHERE cow_id = $1 AND EXTRACT(YEAR FROM milking_date) = $2 AND EXTRACT(MONTH FROM milking_date) = $3 AND success = $4",
		w.sql())
	assert.Equal(t, []any{"c1", 2025, 6, true}, w.args)
}

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil, "cow"))
	assert.True(t, errors.Is(mapErr(sql.ErrNoRows, "cow"), apperr.ErrNotFound))

	other := errors.New("boom")
	assert.ErrorIs(t, mapErr(other, "cow"), other)
}

// testDB abre la base de TEST_DB_DSN y aplica migraciones; sin DSN el test se salta.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestCowsRepo_RoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	breeds := NewBreedsRepo(db)
	b := cows.Breed{ID: uuid.NewString(), Name: "Breed " + uuid.NewString()[:8], CreatedAt: now}
	require.NoError(t, breeds.CreateBreed(ctx, b))

	repo := NewCowsRepo(db)
	c := cows.Cow{
		ID:                   uuid.NewString(),
		TagNumber:            "T-" + uuid.NewString()[:8],
		Name:                 "Daisy",
		BreedID:              b.ID,
		DateOfBirth:          time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC),
		Gender:               cows.SexFemale,
		Availability:         cows.AvailabilityAlive,
		PregnancyStatus:      cows.PregnancyOpen,
		Category:             cows.CategoryHeifer,
		ProductionStatus:     cows.ProductionOpen,
		DateIntroducedInFarm: time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.TagNumber, got.TagNumber)
	assert.Nil(t, got.DateOfDeath)
	assert.Empty(t, got.SireID)

	list, err := repo.List(ctx, cows.ListFilter{BreedID: b.ID, BirthYear: 2021})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	err = repo.Create(ctx, c)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// la raza está referenciada
	err = breeds.DeleteBreed(ctx, b.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	hr := NewHealthRepo(db)
	p := health.Pathogen{ID: uuid.NewString(), Name: health.PathogenName("P-" + uuid.NewString()[:8]), CreatedAt: now}
	require.NoError(t, hr.CreatePathogen(ctx, p))
	cat := health.DiseaseCategory{ID: uuid.NewString(), Name: health.CategoryName("C-" + uuid.NewString()[:8]), CreatedAt: now}
	require.NoError(t, hr.CreateCategory(ctx, cat))

	d := health.Disease{
		ID:             uuid.NewString(),
		Name:           "Mastitis",
		PathogenID:     p.ID,
		CategoryID:     cat.ID,
		DateReported:   now,
		OccurrenceDate: now,
		CowIDs:         []string{c.ID},
		SymptomIDs:     []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, hr.CreateDisease(ctx, d))

	byCow, err := hr.ListDiseases(ctx, health.DiseaseFilter{CowID: c.ID})
	require.NoError(t, err)
	require.Len(t, byCow, 1)
	assert.Equal(t, []string{c.ID}, byCow[0].CowIDs)

	require.NoError(t, hr.DeleteDisease(ctx, d.ID))
	require.NoError(t, repo.Delete(ctx, c.ID))
}

func TestInventoryRepo_Singleton(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewInventoryRepo(db)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.SaveCowInventory(ctx, inventory.CowInventory{TotalAlive: 3, Female: 2, Male: 1, LastUpdate: now}))
	require.NoError(t, repo.SaveCowInventory(ctx, inventory.CowInventory{TotalAlive: 4, Female: 3, Male: 1, LastUpdate: now}))

	inv, err := repo.GetCowInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, inv.TotalAlive)

	require.NoError(t, repo.AppendHistory(ctx, inventory.HistoryEntry{ID: uuid.NewString(), NumberOfCows: 4, DateUpdated: now}))
	h, err := repo.ListHistory(ctx, inventory.HistoryFilter{Year: now.Year()})
	require.NoError(t, err)
	assert.NotEmpty(t, h)
}

func TestMigrate_DownStatusUp(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	v, err := MigrationVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	var out bytes.Buffer
	require.NoError(t, MigrationStatus(ctx, db, &out))
	assert.Contains(t, out.String(), "00001_init.sql")
	assert.NotContains(t, out.String(), "Pending")

	require.NoError(t, MigrateDown(ctx, db))
	v, err = MigrationVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	out.Reset()
	require.NoError(t, MigrationStatus(ctx, db, &out))
	assert.Contains(t, out.String(), "Pending")

	require.NoError(t, Migrate(ctx, db))
	v, err = MigrationVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}
