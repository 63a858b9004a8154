package production

import "context"

type Repository interface {
	CreateLactation(ctx context.Context, l Lactation) error
	UpdateLactation(ctx context.Context, l Lactation) error
	GetLactation(ctx context.Context, id string) (Lactation, error)
	ListLactations(ctx context.Context, f LactationFilter) ([]Lactation, error)
	DeleteLactation(ctx context.Context, id string) error

	CreateMilk(ctx context.Context, m Milk) error
	UpdateMilk(ctx context.Context, m Milk) error
	GetMilk(ctx context.Context, id string) (Milk, error)
	ListMilk(ctx context.Context, f MilkFilter) ([]Milk, error)
	DeleteMilk(ctx context.Context, id string) error
}
