package health

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"dairy-farm-management/internal/platform/apperr"

	"github.com/google/uuid"
)

const (
	maxDiseaseNameLen     = 50
	maxTreatmentMethodLen = 300
)

// -------------------------
// Diseases
// -------------------------

type DiseaseInput struct {
	Name           string
	PathogenID     string
	CategoryID     string
	OccurrenceDate *time.Time
	Notes          string
	CowIDs         []string
	SymptomIDs     []string
}

// CreateDisease registra la enfermedad y abre un Recovery por cada vaca afectada.
func (s *Service) CreateDisease(ctx context.Context, in DiseaseInput) (Disease, error) {
	now := s.now().UTC()
	d := Disease{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		PathogenID:     strings.TrimSpace(in.PathogenID),
		CategoryID:     strings.TrimSpace(in.CategoryID),
		DateReported:   s.today(),
		OccurrenceDate: s.today(),
		Notes:          strings.TrimSpace(in.Notes),
		CowIDs:         uniqueIDs(in.CowIDs),
		SymptomIDs:     uniqueIDs(in.SymptomIDs),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.OccurrenceDate != nil {
		d.OccurrenceDate = dateOnly(*in.OccurrenceDate)
	}

	if err := s.validateDisease(ctx, d); err != nil {
		return Disease{}, err
	}
	if err := s.repo.CreateDisease(ctx, d); err != nil {
		return Disease{}, err
	}
	if err := s.openRecoveries(ctx, d, d.CowIDs); err != nil {
		return Disease{}, err
	}
	return d, nil
}

type DiseaseUpdate struct {
	Name           *string
	PathogenID     *string
	CategoryID     *string
	OccurrenceDate *time.Time
	Notes          *string
	CowIDs         *[]string
	SymptomIDs     *[]string
}

func (s *Service) UpdateDisease(ctx context.Context, id string, in DiseaseUpdate) (Disease, error) {
	d, err := s.GetDisease(ctx, id)
	if err != nil {
		return Disease{}, err
	}
	before := slices.Clone(d.CowIDs)

	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.PathogenID != nil {
		d.PathogenID = strings.TrimSpace(*in.PathogenID)
	}
	if in.CategoryID != nil {
		d.CategoryID = strings.TrimSpace(*in.CategoryID)
	}
	if in.OccurrenceDate != nil {
		d.OccurrenceDate = dateOnly(*in.OccurrenceDate)
	}
	if in.Notes != nil {
		d.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.CowIDs != nil {
		d.CowIDs = uniqueIDs(*in.CowIDs)
	}
	if in.SymptomIDs != nil {
		d.SymptomIDs = uniqueIDs(*in.SymptomIDs)
	}

	if err := s.validateDisease(ctx, d); err != nil {
		return Disease{}, err
	}
	d.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateDisease(ctx, d); err != nil {
		return Disease{}, err
	}

	var added, removed []string
	for _, c := range d.CowIDs {
		if !slices.Contains(before, c) {
			added = append(added, c)
		}
	}
	for _, c := range before {
		if !slices.Contains(d.CowIDs, c) {
			removed = append(removed, c)
		}
	}
	if err := s.openRecoveries(ctx, d, added); err != nil {
		return Disease{}, err
	}
	if err := s.dropOpenRecoveries(ctx, d.ID, removed); err != nil {
		return Disease{}, err
	}
	return d, nil
}

func (s *Service) GetDisease(ctx context.Context, id string) (Disease, error) {
	return s.repo.GetDisease(ctx, strings.TrimSpace(id))
}

func (s *Service) ListDiseases(ctx context.Context, f DiseaseFilter) ([]Disease, error) {
	return s.repo.ListDiseases(ctx, f)
}

// DeleteDisease borra también sus recoveries; con tratamientos registrados se rechaza.
func (s *Service) DeleteDisease(ctx context.Context, id string) error {
	d, err := s.GetDisease(ctx, id)
	if err != nil {
		return err
	}
	ts, err := s.repo.ListTreatments(ctx, TreatmentFilter{DiseaseID: d.ID})
	if err != nil {
		return err
	}
	if len(ts) > 0 {
		return apperr.Conflict("disease_in_use", "this disease has treatments and cannot be deleted")
	}

	rs, err := s.repo.ListRecoveries(ctx, RecoveryFilter{DiseaseID: d.ID})
	if err != nil {
		return err
	}
	for _, r := range rs {
		if err := s.repo.DeleteRecovery(ctx, r.ID); err != nil {
			return err
		}
	}
	return s.repo.DeleteDisease(ctx, d.ID)
}

func (s *Service) validateDisease(ctx context.Context, d Disease) error {
	if d.Name == "" {
		return apperr.InvalidField("name", "required", "disease name is required")
	}
	if len([]rune(d.Name)) > maxDiseaseNameLen {
		return apperr.InvalidField("name", "too_long", "disease name must have at most 50 characters")
	}
	if d.OccurrenceDate.After(s.today()) {
		return apperr.InvalidField("occurrence_date", "invalid_occurrence_date", "occurrence date cannot be in the future")
	}

	if _, err := s.repo.GetPathogen(ctx, d.PathogenID); err != nil {
		return refError(err, "pathogen_id", "pathogen does not exist")
	}
	if _, err := s.repo.GetCategory(ctx, d.CategoryID); err != nil {
		return refError(err, "category_id", "disease category does not exist")
	}
	for _, id := range d.SymptomIDs {
		if _, err := s.repo.GetSymptom(ctx, id); err != nil {
			return refError(err, "symptom_ids", "symptom "+id+" does not exist")
		}
	}
	for _, id := range d.CowIDs {
		if _, err := s.cows.GetByID(ctx, id); err != nil {
			return refError(err, "cow_ids", "cow "+id+" does not exist")
		}
	}
	return nil
}

func (s *Service) openRecoveries(ctx context.Context, d Disease, cowIDs []string) error {
	now := s.now().UTC()
	for _, cowID := range cowIDs {
		r := Recovery{
			ID:            uuid.NewString(),
			CowID:         cowID,
			DiseaseID:     d.ID,
			DiagnosisDate: d.OccurrenceDate,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.CreateRecovery(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) dropOpenRecoveries(ctx context.Context, diseaseID string, cowIDs []string) error {
	for _, cowID := range cowIDs {
		rs, err := s.repo.ListRecoveries(ctx, RecoveryFilter{CowID: cowID, DiseaseID: diseaseID})
		if err != nil {
			return err
		}
		for _, r := range rs {
			if r.RecoveryDate != nil {
				continue
			}
			if err := s.repo.DeleteRecovery(ctx, r.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// -------------------------
// Recoveries (solo lectura por HTTP)
// -------------------------

func (s *Service) GetRecovery(ctx context.Context, id string) (Recovery, error) {
	return s.repo.GetRecovery(ctx, strings.TrimSpace(id))
}

func (s *Service) ListRecoveries(ctx context.Context, f RecoveryFilter) ([]Recovery, error) {
	return s.repo.ListRecoveries(ctx, f)
}

// -------------------------
// Treatments
// -------------------------

type TreatmentInput struct {
	DiseaseID      string
	CowID          string
	Method         string
	Notes          string
	Status         TreatmentStatus
	CompletionDate *time.Time
}

func (s *Service) CreateTreatment(ctx context.Context, in TreatmentInput) (Treatment, error) {
	d, err := s.repo.GetDisease(ctx, strings.TrimSpace(in.DiseaseID))
	if err != nil {
		return Treatment{}, refError(err, "disease_id", "disease does not exist")
	}
	c, err := s.cow(ctx, in.CowID)
	if err != nil {
		return Treatment{}, err
	}
	if !slices.Contains(d.CowIDs, c.ID) {
		return Treatment{}, apperr.InvalidField("cow_id", "cow_not_affected", "this cow is not affected by the disease")
	}

	now := s.now().UTC()
	t := Treatment{
		ID:              uuid.NewString(),
		DiseaseID:       d.ID,
		CowID:           c.ID,
		DateOfTreatment: s.today(),
		Method:          strings.TrimSpace(in.Method),
		Notes:           strings.TrimSpace(in.Notes),
		Status:          in.Status,
		CompletionDate:  normDate(in.CompletionDate),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if t.Status == "" {
		t.Status = TreatmentScheduled
	}

	if err := s.validateTreatment(t); err != nil {
		return Treatment{}, err
	}
	if err := s.repo.CreateTreatment(ctx, t); err != nil {
		return Treatment{}, err
	}
	if err := s.markRecovered(ctx, t); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

type TreatmentUpdate struct {
	Method         *string
	Notes          *string
	Status         *TreatmentStatus
	CompletionDate *time.Time
}

func (s *Service) UpdateTreatment(ctx context.Context, id string, in TreatmentUpdate) (Treatment, error) {
	t, err := s.GetTreatment(ctx, id)
	if err != nil {
		return Treatment{}, err
	}

	if in.Method != nil {
		t.Method = strings.TrimSpace(*in.Method)
	}
	if in.Notes != nil {
		t.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.CompletionDate != nil {
		t.CompletionDate = normDate(in.CompletionDate)
	}
	// Fuera de Completed no hay fecha de finalización.
	if t.Status != TreatmentCompleted && in.CompletionDate == nil {
		t.CompletionDate = nil
	}

	if err := s.validateTreatment(t); err != nil {
		return Treatment{}, err
	}
	t.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateTreatment(ctx, t); err != nil {
		return Treatment{}, err
	}
	if err := s.markRecovered(ctx, t); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

func (s *Service) GetTreatment(ctx context.Context, id string) (Treatment, error) {
	return s.repo.GetTreatment(ctx, strings.TrimSpace(id))
}

func (s *Service) ListTreatments(ctx context.Context, f TreatmentFilter) ([]Treatment, error) {
	return s.repo.ListTreatments(ctx, f)
}

func (s *Service) DeleteTreatment(ctx context.Context, id string) error {
	t, err := s.GetTreatment(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteTreatment(ctx, t.ID)
}

func (s *Service) validateTreatment(t Treatment) error {
	if t.Method == "" {
		return apperr.InvalidField("treatment_method", "required", "treatment method is required")
	}
	if len([]rune(t.Method)) > maxTreatmentMethodLen {
		return apperr.InvalidField("treatment_method", "too_long", "treatment method must have at most 300 characters")
	}
	if !slices.Contains(TreatmentStatuses, t.Status) {
		return apperr.InvalidField("treatment_status", "invalid_choice", "unknown treatment status")
	}

	if t.Status == TreatmentCompleted {
		if t.CompletionDate == nil {
			return apperr.InvalidField("completion_date", "required", "completion date is required for completed treatments")
		}
		if t.CompletionDate.Before(t.DateOfTreatment) {
			return apperr.InvalidField("completion_date", "invalid_date", "completion date cannot be before the treatment date")
		}
		if t.CompletionDate.After(s.today()) {
			return apperr.InvalidField("completion_date", "future_date", "completion date cannot be in the future")
		}
	} else if t.CompletionDate != nil {
		return apperr.InvalidField("completion_date", "invalid_date", "only completed treatments can have a completion date")
	}
	return nil
}

// markRecovered cierra el Recovery de la vaca cuando el tratamiento termina.
func (s *Service) markRecovered(ctx context.Context, t Treatment) error {
	if t.Status != TreatmentCompleted || t.CompletionDate == nil {
		return nil
	}
	rs, err := s.repo.ListRecoveries(ctx, RecoveryFilter{CowID: t.CowID, DiseaseID: t.DiseaseID})
	if err != nil {
		return err
	}
	for _, r := range rs {
		if r.RecoveryDate != nil {
			continue
		}
		date := *t.CompletionDate
		r.RecoveryDate = &date
		r.UpdatedAt = s.now().UTC()
		if err := s.repo.UpdateRecovery(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func refError(err error, field, msg string) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.InvalidField(field, "unknown_reference", msg)
	}
	return err
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func normDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}
