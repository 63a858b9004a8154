package cows

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dairy-farm-management/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testBreeds struct{ items map[string]Breed }

func (r *testBreeds) CreateBreed(_ context.Context, b Breed) error { r.items[b.ID] = b; return nil }
func (r *testBreeds) UpdateBreed(_ context.Context, b Breed) error { r.items[b.ID] = b; return nil }
func (r *testBreeds) DeleteBreed(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func (r *testBreeds) GetBreedByID(_ context.Context, id string) (Breed, error) {
	b, ok := r.items[id]
	if !ok {
		return Breed{}, apperr.NotFound("breed")
	}
	return b, nil
}

func (r *testBreeds) GetBreedByName(_ context.Context, name string) (Breed, error) {
	for _, b := range r.items {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return Breed{}, apperr.NotFound("breed")
}

func (r *testBreeds) ListBreeds(_ context.Context) ([]Breed, error) {
	out := make([]Breed, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, b)
	}
	return out, nil
}

type testCows struct{ items map[string]Cow }

func (r *testCows) Create(_ context.Context, c Cow) error { r.items[c.ID] = c; return nil }
func (r *testCows) Update(_ context.Context, c Cow) error { r.items[c.ID] = c; return nil }
func (r *testCows) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func (r *testCows) GetByID(_ context.Context, id string) (Cow, error) {
	c, ok := r.items[id]
	if !ok {
		return Cow{}, apperr.NotFound("cow")
	}
	return c, nil
}

func (r *testCows) GetByTagNumber(_ context.Context, tag string) (Cow, error) {
	for _, c := range r.items {
		if c.TagNumber == tag {
			return c, nil
		}
	}
	return Cow{}, apperr.NotFound("cow")
}

func (r *testCows) List(_ context.Context, f ListFilter) ([]Cow, error) {
	var out []Cow
	for _, c := range r.items {
		if f.BreedID != "" && c.BreedID != f.BreedID {
			continue
		}
		if f.Gender != "" && c.Gender != f.Gender {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type countingObserver struct{ calls int }

func (o *countingObserver) CowsChanged(context.Context) error { o.calls++; return nil }

type fixedDeps bool

func (d fixedDeps) HasCowRecords(context.Context, string) (bool, error) { return bool(d), nil }

var testNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func newTestService() (*Service, *countingObserver) {
	svc := NewService(&testCows{items: map[string]Cow{}}, &testBreeds{items: map[string]Breed{}})
	svc.now = func() time.Time { return testNow }
	obs := &countingObserver{}
	svc.AddObserver(obs)
	return svc, obs
}

func female(breedID string) CreateInput {
	return CreateInput{
		Name:        "Daisy",
		BreedID:     breedID,
		DateOfBirth: time.Date(2022, 3, 10, 0, 0, 0, 0, time.UTC),
		Gender:      SexFemale,
		Category:    CategoryHeifer,
	}
}

// -------------------------
// Tests
// -------------------------

func TestCreateBreed_UniqueCaseInsensitive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBreed(ctx, "Holstein")
	require.NoError(t, err)

	_, err = svc.CreateBreed(ctx, "  holstein ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = svc.CreateBreed(ctx, strings.Repeat("x", 31))
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestDeleteBreed_RefusedWhileReferenced(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBreed(ctx, "Jersey")
	require.NoError(t, err)
	c, err := svc.Create(ctx, female(b.ID))
	require.NoError(t, err)

	err = svc.DeleteBreed(ctx, b.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	require.NoError(t, svc.Delete(ctx, c.ID))
	require.NoError(t, svc.DeleteBreed(ctx, b.ID))
}

func TestCreateCow_DefaultsAndTag(t *testing.T) {
	svc, obs := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBreed(ctx, "Holstein")
	require.NoError(t, err)

	c, err := svc.Create(ctx, female(b.ID))
	require.NoError(t, err)

	assert.Equal(t, AvailabilityAlive, c.Availability)
	assert.Equal(t, PregnancyOpen, c.PregnancyStatus)
	assert.Equal(t, ProductionOpen, c.ProductionStatus)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), c.DateIntroducedInFarm)
	assert.True(t, strings.HasPrefix(c.TagNumber, "HO-"))
	assert.Len(t, c.TagNumber, len("HO-")+8)
	assert.Equal(t, 1, obs.calls)

	got, err := svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, "3y 3m", got.Age(testNow))
}

func TestCreateCow_Rules(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBreed(ctx, "Ayrshire")
	require.NoError(t, err)

	bull := female(b.ID)
	bull.Name = "Bruno"
	bull.Gender = SexMale
	bull.Category = CategoryBull
	sire, err := svc.Create(ctx, bull)
	require.NoError(t, err)

	dead := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	future := testNow.AddDate(0, 0, 2)

	cases := []struct {
		name  string
		mod   func(in *CreateInput)
		field string
	}{
		{"missing name", func(in *CreateInput) { in.Name = "" }, "name"},
		{"name too long", func(in *CreateInput) { in.Name = strings.Repeat("a", 36) }, "name"},
		{"unknown breed", func(in *CreateInput) { in.BreedID = "nope" }, "breed_id"},
		{"born in future", func(in *CreateInput) { in.DateOfBirth = future }, "date_of_birth"},
		{"pregnant male", func(in *CreateInput) {
			in.Gender = SexMale
			in.Category = CategoryBull
			in.PregnancyStatus = PregnancyPregnant
		}, "current_pregnancy_status"},
		{"milking male", func(in *CreateInput) { in.Gender = SexMale; in.Category = CategoryMilkingCow }, "category"},
		{"dead without date", func(in *CreateInput) { in.Availability = AvailabilityDead }, "date_of_death"},
		{"alive with death date", func(in *CreateInput) { in.DateOfDeath = &dead }, "date_of_death"},
		{"dam is male", func(in *CreateInput) { in.DamID = sire.ID }, "dam_id"},
		{"unknown sire", func(in *CreateInput) { in.SireID = "ghost" }, "sire_id"},
		{"bad category", func(in *CreateInput) { in.Category = "Goat" }, "category"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := female(b.ID)
			tc.mod(&in)
			_, err := svc.Create(ctx, in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, e.Field)
		})
	}

	ok := female(b.ID)
	ok.SireID = sire.ID
	_, err = svc.Create(ctx, ok)
	assert.NoError(t, err)
}

func TestCreateCow_DuplicateTag(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBreed(ctx, "Guernsey")
	require.NoError(t, err)

	in := female(b.ID)
	in.TagNumber = "GU-001"
	_, err = svc.Create(ctx, in)
	require.NoError(t, err)

	_, err = svc.Create(ctx, in)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestUpdateCow_PatchAndDeath(t *testing.T) {
	svc, obs := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBreed(ctx, "Holstein")
	require.NoError(t, err)
	c, err := svc.Create(ctx, female(b.ID))
	require.NoError(t, err)

	name := "Bella"
	got, err := svc.Update(ctx, c.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Bella", got.Name)
	assert.Equal(t, c.TagNumber, got.TagNumber)

	dead := AvailabilityDead
	_, err = svc.Update(ctx, c.ID, UpdateInput{Availability: &dead})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	when := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	got, err = svc.Update(ctx, c.ID, UpdateInput{Availability: &dead, DateOfDeath: &when})
	require.NoError(t, err)
	require.NotNil(t, got.DateOfDeath)
	assert.Equal(t, when, *got.DateOfDeath)

	alive := AvailabilityAlive
	got, err = svc.Update(ctx, c.ID, UpdateInput{Availability: &alive})
	require.NoError(t, err)
	assert.Nil(t, got.DateOfDeath)

	assert.Equal(t, 4, obs.calls)
}

func TestApplyStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBreed(ctx, "Holstein")
	require.NoError(t, err)
	c, err := svc.Create(ctx, female(b.ID))
	require.NoError(t, err)

	p := PregnancyPregnant
	got, err := svc.ApplyStatus(ctx, c.ID, StatusChange{PregnancyStatus: &p})
	require.NoError(t, err)
	assert.Equal(t, PregnancyPregnant, got.PregnancyStatus)

	bull := female(b.ID)
	bull.Gender = SexMale
	bull.Category = CategoryBull
	m, err := svc.Create(ctx, bull)
	require.NoError(t, err)

	_, err = svc.ApplyStatus(ctx, m.ID, StatusChange{PregnancyStatus: &p})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestDeleteCow_Restrict(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBreed(ctx, "Holstein")
	require.NoError(t, err)
	dam, err := svc.Create(ctx, female(b.ID))
	require.NoError(t, err)

	calf := female(b.ID)
	calf.Name = "Calf"
	calf.DateOfBirth = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	calf.Category = CategoryCalf
	calf.DamID = dam.ID
	child, err := svc.Create(ctx, calf)
	require.NoError(t, err)

	err = svc.Delete(ctx, dam.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	svc.AddDependencyChecker(fixedDeps(true))
	err = svc.Delete(ctx, child.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = svc.GetByID(ctx, child.ID)
	assert.NoError(t, err)
}

func TestHumanSpan(t *testing.T) {
	from := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "0d", humanSpan(from, from))
	assert.Equal(t, "10d", humanSpan(from, from.AddDate(0, 0, 10)))
	assert.Equal(t, "1y", humanSpan(from, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1y 1m", humanSpan(from, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}
