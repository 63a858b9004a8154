package memory

import (
	"context"
	"strings"

	"dairy-farm-management/internal/domain/cows"
)

type breedRepo struct {
	t *table[cows.Breed]
}

func NewBreedRepo() cows.BreedRepository {
	return &breedRepo{t: newTable[cows.Breed]("breed")}
}

func (r *breedRepo) CreateBreed(_ context.Context, b cows.Breed) error { return r.t.insert(b.ID, b) }
func (r *breedRepo) UpdateBreed(_ context.Context, b cows.Breed) error { return r.t.update(b.ID, b) }
func (r *breedRepo) DeleteBreed(_ context.Context, id string) error    { return r.t.delete(id) }

func (r *breedRepo) GetBreedByID(_ context.Context, id string) (cows.Breed, error) {
	return r.t.get(id)
}

func (r *breedRepo) GetBreedByName(_ context.Context, name string) (cows.Breed, error) {
	name = strings.TrimSpace(name)
	return r.t.find(func(b cows.Breed) bool { return strings.EqualFold(b.Name, name) })
}

func (r *breedRepo) ListBreeds(_ context.Context) ([]cows.Breed, error) {
	return r.t.filter(nil, func(a, b cows.Breed) int { return strings.Compare(a.Name, b.Name) }), nil
}

type cowRepo struct {
	t *table[cows.Cow]
}

func NewCowRepo() cows.Repository {
	return &cowRepo{t: newTable[cows.Cow]("cow")}
}

func (r *cowRepo) Create(_ context.Context, c cows.Cow) error { return r.t.insert(c.ID, c) }
func (r *cowRepo) Update(_ context.Context, c cows.Cow) error { return r.t.update(c.ID, c) }
func (r *cowRepo) Delete(_ context.Context, id string) error  { return r.t.delete(id) }

func (r *cowRepo) GetByID(_ context.Context, id string) (cows.Cow, error) {
	return r.t.get(id)
}

func (r *cowRepo) GetByTagNumber(_ context.Context, tag string) (cows.Cow, error) {
	return r.t.find(func(c cows.Cow) bool { return c.TagNumber == tag })
}

func (r *cowRepo) List(_ context.Context, f cows.ListFilter) ([]cows.Cow, error) {
	keep := func(c cows.Cow) bool {
		switch {
		case f.BreedID != "" && c.BreedID != f.BreedID:
			return false
		case f.Gender != "" && c.Gender != f.Gender:
			return false
		case f.Availability != "" && c.Availability != f.Availability:
			return false
		case f.Category != "" && c.Category != f.Category:
			return false
		case f.BirthYear != 0 && c.DateOfBirth.Year() != f.BirthYear:
			return false
		}
		return true
	}
	return r.t.filter(keep, func(a, b cows.Cow) int { return byTime(a.CreatedAt, b.CreatedAt) }), nil
}
