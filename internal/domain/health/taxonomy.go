package health

import (
	"context"
	"slices"
	"strings"
	"time"
	"unicode"

	"dairy-farm-management/internal/platform/apperr"

	"github.com/google/uuid"
)

const maxSymptomNameLen = 50

// -------------------------
// Pathogens
// -------------------------

func (s *Service) CreatePathogen(ctx context.Context, name PathogenName) (Pathogen, error) {
	if err := s.checkPathogenName(ctx, "", name); err != nil {
		return Pathogen{}, err
	}
	p := Pathogen{ID: uuid.NewString(), Name: name, CreatedAt: s.now().UTC()}
	if err := s.repo.CreatePathogen(ctx, p); err != nil {
		return Pathogen{}, err
	}
	return p, nil
}

func (s *Service) UpdatePathogen(ctx context.Context, id string, name PathogenName) (Pathogen, error) {
	p, err := s.GetPathogen(ctx, id)
	if err != nil {
		return Pathogen{}, err
	}
	if err := s.checkPathogenName(ctx, p.ID, name); err != nil {
		return Pathogen{}, err
	}
	p.Name = name
	if err := s.repo.UpdatePathogen(ctx, p); err != nil {
		return Pathogen{}, err
	}
	return p, nil
}

func (s *Service) GetPathogen(ctx context.Context, id string) (Pathogen, error) {
	return s.repo.GetPathogen(ctx, strings.TrimSpace(id))
}

func (s *Service) ListPathogens(ctx context.Context) ([]Pathogen, error) {
	return s.repo.ListPathogens(ctx)
}

func (s *Service) DeletePathogen(ctx context.Context, id string) error {
	p, err := s.GetPathogen(ctx, id)
	if err != nil {
		return err
	}
	used, err := s.repo.ListDiseases(ctx, DiseaseFilter{PathogenID: p.ID})
	if err != nil {
		return err
	}
	if len(used) > 0 {
		return apperr.Conflict("pathogen_in_use", "this pathogen is referenced by existing diseases")
	}
	return s.repo.DeletePathogen(ctx, p.ID)
}

func (s *Service) checkPathogenName(ctx context.Context, selfID string, name PathogenName) error {
	if !slices.Contains(PathogenNames, name) {
		return apperr.InvalidField("name", "invalid_pathogen_name", "pathogen must be Bacteria, Virus, Fungi or Unknown")
	}
	all, err := s.repo.ListPathogens(ctx)
	if err != nil {
		return err
	}
	for _, p := range all {
		if p.Name == name && p.ID != selfID {
			return apperr.Conflict("duplicate_pathogen", "this pathogen already exists")
		}
	}
	return nil
}

// -------------------------
// Disease categories
// -------------------------

func (s *Service) CreateCategory(ctx context.Context, name CategoryName) (DiseaseCategory, error) {
	if err := s.checkCategoryName(ctx, "", name); err != nil {
		return DiseaseCategory{}, err
	}
	c := DiseaseCategory{ID: uuid.NewString(), Name: name, CreatedAt: s.now().UTC()}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return DiseaseCategory{}, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, name CategoryName) (DiseaseCategory, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return DiseaseCategory{}, err
	}
	if err := s.checkCategoryName(ctx, c.ID, name); err != nil {
		return DiseaseCategory{}, err
	}
	c.Name = name
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return DiseaseCategory{}, err
	}
	return c, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (DiseaseCategory, error) {
	return s.repo.GetCategory(ctx, strings.TrimSpace(id))
}

func (s *Service) ListCategories(ctx context.Context) ([]DiseaseCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	used, err := s.repo.ListDiseases(ctx, DiseaseFilter{CategoryID: c.ID})
	if err != nil {
		return err
	}
	if len(used) > 0 {
		return apperr.Conflict("category_in_use", "this category is referenced by existing diseases")
	}
	return s.repo.DeleteCategory(ctx, c.ID)
}

func (s *Service) checkCategoryName(ctx context.Context, selfID string, name CategoryName) error {
	if !slices.Contains(CategoryNames, name) {
		return apperr.InvalidField("name", "invalid_category_name", "category must be Nutrition, Infectious, Physiological or Genetic")
	}
	all, err := s.repo.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range all {
		if c.Name == name && c.ID != selfID {
			return apperr.Conflict("duplicate_category", "this disease category already exists")
		}
	}
	return nil
}

// -------------------------
// Symptoms
// -------------------------

type SymptomInput struct {
	Name         string
	Type         SymptomType
	Description  string
	Severity     Severity
	Location     Location
	DateObserved *time.Time
}

func (s *Service) CreateSymptom(ctx context.Context, in SymptomInput) (Symptom, error) {
	sym := Symptom{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Type:         in.Type,
		Description:  strings.TrimSpace(in.Description),
		Severity:     in.Severity,
		Location:     in.Location,
		DateObserved: s.today(),
		CreatedAt:    s.now().UTC(),
	}
	if in.DateObserved != nil {
		sym.DateObserved = dateOnly(*in.DateObserved)
	}
	if err := s.validateSymptom(sym); err != nil {
		return Symptom{}, err
	}
	if err := s.repo.CreateSymptom(ctx, sym); err != nil {
		return Symptom{}, err
	}
	return sym, nil
}

type SymptomUpdate struct {
	Name         *string
	Type         *SymptomType
	Description  *string
	Severity     *Severity
	Location     *Location
	DateObserved *time.Time
}

func (s *Service) UpdateSymptom(ctx context.Context, id string, in SymptomUpdate) (Symptom, error) {
	sym, err := s.GetSymptom(ctx, id)
	if err != nil {
		return Symptom{}, err
	}
	if in.Name != nil {
		sym.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		sym.Type = *in.Type
	}
	if in.Description != nil {
		sym.Description = strings.TrimSpace(*in.Description)
	}
	if in.Severity != nil {
		sym.Severity = *in.Severity
	}
	if in.Location != nil {
		sym.Location = *in.Location
	}
	if in.DateObserved != nil {
		sym.DateObserved = dateOnly(*in.DateObserved)
	}
	if err := s.validateSymptom(sym); err != nil {
		return Symptom{}, err
	}
	if err := s.repo.UpdateSymptom(ctx, sym); err != nil {
		return Symptom{}, err
	}
	return sym, nil
}

func (s *Service) GetSymptom(ctx context.Context, id string) (Symptom, error) {
	return s.repo.GetSymptom(ctx, strings.TrimSpace(id))
}

func (s *Service) ListSymptoms(ctx context.Context) ([]Symptom, error) {
	return s.repo.ListSymptoms(ctx)
}

func (s *Service) DeleteSymptom(ctx context.Context, id string) error {
	sym, err := s.GetSymptom(ctx, id)
	if err != nil {
		return err
	}
	used, err := s.repo.ListDiseases(ctx, DiseaseFilter{SymptomID: sym.ID})
	if err != nil {
		return err
	}
	if len(used) > 0 {
		return apperr.Conflict("symptom_in_use", "this symptom is referenced by existing diseases")
	}
	return s.repo.DeleteSymptom(ctx, sym.ID)
}

func (s *Service) validateSymptom(sym Symptom) error {
	if sym.Name == "" {
		return apperr.InvalidField("name", "required", "symptom name is required")
	}
	if len([]rune(sym.Name)) > maxSymptomNameLen {
		return apperr.InvalidField("name", "too_long", "symptom name must have at most 50 characters")
	}
	for _, r := range sym.Name {
		if !unicode.IsLetter(r) && r != ' ' {
			return apperr.InvalidField("name", "invalid_symptom_name", "symptom name can only contain letters and spaces")
		}
	}
	if !slices.Contains(SymptomTypes, sym.Type) {
		return apperr.InvalidField("symptom_type", "invalid_symptom_type", "invalid symptom type: "+string(sym.Type))
	}
	if !slices.Contains(Severities, sym.Severity) {
		return apperr.InvalidField("severity", "invalid_symptom_severity", "invalid severity: "+string(sym.Severity))
	}
	if !slices.Contains(Locations, sym.Location) {
		return apperr.InvalidField("location", "invalid_symptom_location", "invalid body location: "+string(sym.Location))
	}
	if sym.Type == SymptomRespiratory && !slices.Contains(respiratoryLocations, sym.Location) {
		return apperr.InvalidField("location", "incompatible_location",
			"respiratory symptoms can only be located at Head, Neck, Chest or Whole body")
	}
	if sym.DateObserved.After(s.today()) {
		return apperr.InvalidField("date_observed", "invalid_date_observed", "the date of observation cannot be in the future")
	}
	return nil
}
