package reproduction

import "context"

type Repository interface {
	CreateInseminator(ctx context.Context, i Inseminator) error
	UpdateInseminator(ctx context.Context, i Inseminator) error
	GetInseminator(ctx context.Context, id string) (Inseminator, error)
	ListInseminators(ctx context.Context) ([]Inseminator, error)
	DeleteInseminator(ctx context.Context, id string) error

	CreateHeat(ctx context.Context, h Heat) error
	GetHeat(ctx context.Context, id string) (Heat, error)
	ListHeats(ctx context.Context, f HeatFilter) ([]Heat, error)
	DeleteHeat(ctx context.Context, id string) error

	CreateInsemination(ctx context.Context, i Insemination) error
	UpdateInsemination(ctx context.Context, i Insemination) error
	GetInsemination(ctx context.Context, id string) (Insemination, error)
	ListInseminations(ctx context.Context, f InseminationFilter) ([]Insemination, error)
	DeleteInsemination(ctx context.Context, id string) error

	CreatePregnancy(ctx context.Context, p Pregnancy) error
	UpdatePregnancy(ctx context.Context, p Pregnancy) error
	GetPregnancy(ctx context.Context, id string) (Pregnancy, error)
	ListPregnancies(ctx context.Context, f PregnancyFilter) ([]Pregnancy, error)
	DeletePregnancy(ctx context.Context, id string) error
}
