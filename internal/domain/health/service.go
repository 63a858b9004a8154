package health

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/platform/apperr"

	"github.com/google/uuid"
)

const (
	minWeightKgs = 10
	maxWeightKgs = 1500
	maxNotesLen  = 100
)

// CowStore es lo que salud necesita del módulo cows.
type CowStore interface {
	GetByID(ctx context.Context, id string) (cows.Cow, error)
	ApplyStatus(ctx context.Context, id string, ch cows.StatusChange) (cows.Cow, error)
}

type Service struct {
	repo Repository
	cows CowStore
	now  func() time.Time
}

func NewService(repo Repository, cowStore CowStore) *Service {
	return &Service{
		repo: repo,
		cows: cowStore,
		now:  time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) today() time.Time { return dateOnly(s.now()) }

func (s *Service) cow(ctx context.Context, id string) (cows.Cow, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cows.Cow{}, apperr.InvalidField("cow_id", "required", "cow is required")
	}
	c, err := s.cows.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return cows.Cow{}, apperr.InvalidField("cow_id", "unknown_cow", "cow does not exist")
		}
		return cows.Cow{}, err
	}
	return c, nil
}

// HasCowRecords implementa cows.DependencyChecker.
func (s *Service) HasCowRecords(ctx context.Context, cowID string) (bool, error) {
	weights, err := s.repo.ListWeights(ctx, WeightFilter{CowID: cowID})
	if err != nil || len(weights) > 0 {
		return len(weights) > 0, err
	}
	cullings, err := s.repo.ListCullings(ctx, CullingFilter{CowID: cowID})
	if err != nil || len(cullings) > 0 {
		return len(cullings) > 0, err
	}
	quarantines, err := s.repo.ListQuarantines(ctx, QuarantineFilter{CowID: cowID})
	if err != nil || len(quarantines) > 0 {
		return len(quarantines) > 0, err
	}
	diseases, err := s.repo.ListDiseases(ctx, DiseaseFilter{CowID: cowID})
	if err != nil || len(diseases) > 0 {
		return len(diseases) > 0, err
	}
	treatments, err := s.repo.ListTreatments(ctx, TreatmentFilter{CowID: cowID})
	if err != nil {
		return false, err
	}
	return len(treatments) > 0, nil
}

// -------------------------
// Weight records
// -------------------------

func validWeight(w float64) error {
	if w < minWeightKgs {
		return apperr.InvalidField("weight_in_kgs", "invalid_weight", "a cow cannot weigh less than 10 kgs")
	}
	if w > maxWeightKgs {
		return apperr.InvalidField("weight_in_kgs", "invalid_weight", "a cow's weight cannot exceed 1500 kgs")
	}
	return nil
}

func (s *Service) CreateWeight(ctx context.Context, cowID string, weightKgs float64) (WeightRecord, error) {
	c, err := s.cow(ctx, cowID)
	if err != nil {
		return WeightRecord{}, err
	}
	if c.Availability != cows.AvailabilityAlive {
		return WeightRecord{}, apperr.InvalidField("cow_id", "invalid_availability_status",
			"weight records are only allowed for cows present in the farm, this cow is marked as "+string(c.Availability))
	}
	if err := validWeight(weightKgs); err != nil {
		return WeightRecord{}, err
	}

	today := s.today()
	y, m, d := today.Date()
	same, err := s.repo.ListWeights(ctx, WeightFilter{CowID: c.ID, Year: y, Month: int(m), Day: d})
	if err != nil {
		return WeightRecord{}, err
	}
	if len(same) > 0 {
		return WeightRecord{}, apperr.Conflict("duplicate_weight_record", "this cow already has a weight record on this date")
	}

	now := s.now().UTC()
	w := WeightRecord{
		ID:          uuid.NewString(),
		CowID:       c.ID,
		WeightInKgs: weightKgs,
		DateTaken:   today,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateWeight(ctx, w); err != nil {
		return WeightRecord{}, err
	}
	return w, nil
}

func (s *Service) GetWeight(ctx context.Context, id string) (WeightRecord, error) {
	return s.repo.GetWeight(ctx, strings.TrimSpace(id))
}

func (s *Service) ListWeights(ctx context.Context, f WeightFilter) ([]WeightRecord, error) {
	return s.repo.ListWeights(ctx, f)
}

// UpdateWeight solo permite corregir el peso; la fecha no se edita.
func (s *Service) UpdateWeight(ctx context.Context, id string, weightKgs float64) (WeightRecord, error) {
	w, err := s.GetWeight(ctx, id)
	if err != nil {
		return WeightRecord{}, err
	}
	if err := validWeight(weightKgs); err != nil {
		return WeightRecord{}, err
	}
	w.WeightInKgs = weightKgs
	w.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateWeight(ctx, w); err != nil {
		return WeightRecord{}, err
	}
	return w, nil
}

func (s *Service) DeleteWeight(ctx context.Context, id string) error {
	w, err := s.GetWeight(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteWeight(ctx, w.ID)
}

// -------------------------
// Culling records
// -------------------------

type CullingInput struct {
	CowID  string
	Reason CullingReason
	Notes  string
}

// CreateCulling registra el descarte y deja la vaca como Culled/Unavailable.
func (s *Service) CreateCulling(ctx context.Context, in CullingInput) (CullingRecord, error) {
	c, err := s.cow(ctx, in.CowID)
	if err != nil {
		return CullingRecord{}, err
	}
	if !slices.Contains(CullingReasons, in.Reason) {
		return CullingRecord{}, apperr.InvalidField("reason", "invalid_choice", "unknown culling reason")
	}
	notes := strings.TrimSpace(in.Notes)
	if len([]rune(notes)) > maxNotesLen {
		return CullingRecord{}, apperr.InvalidField("notes", "too_long", "notes must have at most 100 characters")
	}

	existing, err := s.repo.ListCullings(ctx, CullingFilter{CowID: c.ID})
	if err != nil {
		return CullingRecord{}, err
	}
	if len(existing) > 0 {
		return CullingRecord{}, apperr.Conflict("duplicate_culling_record", "this cow already has a culling record")
	}

	rec := CullingRecord{
		ID:          uuid.NewString(),
		CowID:       c.ID,
		Reason:      in.Reason,
		Notes:       notes,
		DateCarried: s.today(),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateCulling(ctx, rec); err != nil {
		return CullingRecord{}, err
	}

	culled, unavailable := cows.ProductionCulled, cows.PregnancyUnavailable
	updated, err := s.cows.ApplyStatus(ctx, c.ID, cows.StatusChange{
		ProductionStatus: &culled,
		PregnancyStatus:  &unavailable,
	})
	if err != nil {
		// Sin vaca devuelta el cambio no se guardó: el registro no puede quedar.
		if updated.ID == "" {
			if derr := s.repo.DeleteCulling(ctx, rec.ID); derr != nil {
				return CullingRecord{}, errors.Join(err, derr)
			}
		}
		return CullingRecord{}, err
	}
	return rec, nil
}

func (s *Service) GetCulling(ctx context.Context, id string) (CullingRecord, error) {
	return s.repo.GetCulling(ctx, strings.TrimSpace(id))
}

func (s *Service) ListCullings(ctx context.Context, f CullingFilter) ([]CullingRecord, error) {
	return s.repo.ListCullings(ctx, f)
}

func (s *Service) DeleteCulling(ctx context.Context, id string) error {
	rec, err := s.GetCulling(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteCulling(ctx, rec.ID)
}

// -------------------------
// Quarantine records
// -------------------------

type QuarantineInput struct {
	CowID     string
	Reason    QuarantineReason
	StartDate *time.Time
	EndDate   *time.Time
	Notes     string
}

func (s *Service) CreateQuarantine(ctx context.Context, in QuarantineInput) (QuarantineRecord, error) {
	c, err := s.cow(ctx, in.CowID)
	if err != nil {
		return QuarantineRecord{}, err
	}
	if !c.InFarm() {
		return QuarantineRecord{}, apperr.InvalidField("cow_id", "invalid_availability_status", "only cows present in the farm can be quarantined")
	}

	now := s.now().UTC()
	q := QuarantineRecord{
		ID:        uuid.NewString(),
		CowID:     c.ID,
		Reason:    in.Reason,
		StartDate: s.today(),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.StartDate != nil {
		q.StartDate = dateOnly(*in.StartDate)
	}
	if in.EndDate != nil {
		end := dateOnly(*in.EndDate)
		q.EndDate = &end
	}

	if err := s.validateQuarantine(q, c); err != nil {
		return QuarantineRecord{}, err
	}
	if err := s.repo.CreateQuarantine(ctx, q); err != nil {
		return QuarantineRecord{}, err
	}
	if err := s.syncQuarantine(ctx, c.ID); err != nil {
		return QuarantineRecord{}, err
	}
	return q, nil
}

type QuarantineUpdate struct {
	Reason    *QuarantineReason
	StartDate *time.Time
	EndDate   *time.Time
	Notes     *string
}

func (s *Service) UpdateQuarantine(ctx context.Context, id string, in QuarantineUpdate) (QuarantineRecord, error) {
	q, err := s.GetQuarantine(ctx, id)
	if err != nil {
		return QuarantineRecord{}, err
	}
	c, err := s.cow(ctx, q.CowID)
	if err != nil {
		return QuarantineRecord{}, err
	}

	if in.Reason != nil {
		q.Reason = *in.Reason
	}
	if in.StartDate != nil {
		q.StartDate = dateOnly(*in.StartDate)
	}
	if in.EndDate != nil {
		end := dateOnly(*in.EndDate)
		q.EndDate = &end
	}
	if in.Notes != nil {
		q.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.validateQuarantine(q, c); err != nil {
		return QuarantineRecord{}, err
	}
	q.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateQuarantine(ctx, q); err != nil {
		return QuarantineRecord{}, err
	}
	if err := s.syncQuarantine(ctx, c.ID); err != nil {
		return QuarantineRecord{}, err
	}
	return q, nil
}

func (s *Service) GetQuarantine(ctx context.Context, id string) (QuarantineRecord, error) {
	return s.repo.GetQuarantine(ctx, strings.TrimSpace(id))
}

func (s *Service) ListQuarantines(ctx context.Context, f QuarantineFilter) ([]QuarantineRecord, error) {
	return s.repo.ListQuarantines(ctx, f)
}

func (s *Service) DeleteQuarantine(ctx context.Context, id string) error {
	q, err := s.GetQuarantine(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteQuarantine(ctx, q.ID); err != nil {
		return err
	}
	return s.syncQuarantine(ctx, q.CowID)
}

func (s *Service) validateQuarantine(q QuarantineRecord, c cows.Cow) error {
	if !slices.Contains(QuarantineReasons, q.Reason) {
		return apperr.InvalidField("reason", "invalid_choice", "unknown quarantine reason")
	}
	if q.Reason == QuarantineCalving {
		if !c.IsFemale() {
			return apperr.InvalidField("reason", "invalid_quarantine_reason", "only female cows can be quarantined for calving")
		}
		if c.PregnancyStatus != cows.PregnancyPregnant {
			return apperr.InvalidField("reason", "invalid_quarantine_reason", "only pregnant cows can be quarantined for calving")
		}
	}
	if q.StartDate.After(s.today()) {
		return apperr.InvalidField("start_date", "future_date", "start date cannot be in the future")
	}
	if q.EndDate != nil && q.EndDate.Before(q.StartDate) {
		return apperr.InvalidField("end_date", "invalid_date_range", "end date must be equal to or after the start date")
	}
	if len([]rune(q.Notes)) > maxNotesLen {
		return apperr.InvalidField("notes", "too_long", "notes must have at most 100 characters")
	}
	return nil
}

// syncQuarantine alinea la disponibilidad de la vaca con sus cuarentenas activas.
func (s *Service) syncQuarantine(ctx context.Context, cowID string) error {
	c, err := s.cows.GetByID(ctx, cowID)
	if err != nil {
		return err
	}
	qs, err := s.repo.ListQuarantines(ctx, QuarantineFilter{CowID: cowID})
	if err != nil {
		return err
	}

	today := s.today()
	active := slices.ContainsFunc(qs, func(q QuarantineRecord) bool { return q.Active(today) })

	var target cows.Availability
	switch {
	case active && c.Availability == cows.AvailabilityAlive:
		target = cows.AvailabilityQuarantined
	case !active && c.Availability == cows.AvailabilityQuarantined:
		target = cows.AvailabilityAlive
	default:
		return nil
	}
	_, err = s.cows.ApplyStatus(ctx, cowID, cows.StatusChange{Availability: &target})
	return err
}
