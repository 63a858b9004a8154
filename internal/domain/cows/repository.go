package cows

import "context"

type BreedRepository interface {
	CreateBreed(ctx context.Context, b Breed) error
	UpdateBreed(ctx context.Context, b Breed) error
	GetBreedByID(ctx context.Context, id string) (Breed, error)
	GetBreedByName(ctx context.Context, name string) (Breed, error)
	ListBreeds(ctx context.Context) ([]Breed, error)
	DeleteBreed(ctx context.Context, id string) error
}

type Repository interface {
	Create(ctx context.Context, c Cow) error
	Update(ctx context.Context, c Cow) error
	GetByID(ctx context.Context, id string) (Cow, error)
	GetByTagNumber(ctx context.Context, tag string) (Cow, error)
	List(ctx context.Context, f ListFilter) ([]Cow, error)
	Delete(ctx context.Context, id string) error
}
