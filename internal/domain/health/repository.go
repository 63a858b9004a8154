package health

import "context"

type Repository interface {
	CreateWeight(ctx context.Context, w WeightRecord) error
	UpdateWeight(ctx context.Context, w WeightRecord) error
	GetWeight(ctx context.Context, id string) (WeightRecord, error)
	ListWeights(ctx context.Context, f WeightFilter) ([]WeightRecord, error)
	DeleteWeight(ctx context.Context, id string) error

	CreateCulling(ctx context.Context, c CullingRecord) error
	GetCulling(ctx context.Context, id string) (CullingRecord, error)
	ListCullings(ctx context.Context, f CullingFilter) ([]CullingRecord, error)
	DeleteCulling(ctx context.Context, id string) error

	CreateQuarantine(ctx context.Context, q QuarantineRecord) error
	UpdateQuarantine(ctx context.Context, q QuarantineRecord) error
	GetQuarantine(ctx context.Context, id string) (QuarantineRecord, error)
	ListQuarantines(ctx context.Context, f QuarantineFilter) ([]QuarantineRecord, error)
	DeleteQuarantine(ctx context.Context, id string) error

	CreatePathogen(ctx context.Context, p Pathogen) error
	UpdatePathogen(ctx context.Context, p Pathogen) error
	GetPathogen(ctx context.Context, id string) (Pathogen, error)
	ListPathogens(ctx context.Context) ([]Pathogen, error)
	DeletePathogen(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, c DiseaseCategory) error
	UpdateCategory(ctx context.Context, c DiseaseCategory) error
	GetCategory(ctx context.Context, id string) (DiseaseCategory, error)
	ListCategories(ctx context.Context) ([]DiseaseCategory, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateSymptom(ctx context.Context, s Symptom) error
	UpdateSymptom(ctx context.Context, s Symptom) error
	GetSymptom(ctx context.Context, id string) (Symptom, error)
	ListSymptoms(ctx context.Context) ([]Symptom, error)
	DeleteSymptom(ctx context.Context, id string) error

	CreateDisease(ctx context.Context, d Disease) error
	UpdateDisease(ctx context.Context, d Disease) error
	GetDisease(ctx context.Context, id string) (Disease, error)
	ListDiseases(ctx context.Context, f DiseaseFilter) ([]Disease, error)
	DeleteDisease(ctx context.Context, id string) error

	CreateRecovery(ctx context.Context, r Recovery) error
	UpdateRecovery(ctx context.Context, r Recovery) error
	GetRecovery(ctx context.Context, id string) (Recovery, error)
	ListRecoveries(ctx context.Context, f RecoveryFilter) ([]Recovery, error)
	DeleteRecovery(ctx context.Context, id string) error

	CreateTreatment(ctx context.Context, t Treatment) error
	UpdateTreatment(ctx context.Context, t Treatment) error
	GetTreatment(ctx context.Context, id string) (Treatment, error)
	ListTreatments(ctx context.Context, f TreatmentFilter) ([]Treatment, error)
	DeleteTreatment(ctx context.Context, id string) error
}
