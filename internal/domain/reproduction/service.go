package reproduction

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/domain/production"
	"dairy-farm-management/internal/platform/apperr"

	"github.com/google/uuid"
)

const (
	maxNameLen    = 15
	maxCompanyLen = 50
	maxLicenseLen = 25
	maxNotesLen   = 100
)

// CowStore es lo que reproducción necesita del módulo cows.
type CowStore interface {
	GetByID(ctx context.Context, id string) (cows.Cow, error)
	ApplyStatus(ctx context.Context, id string, ch cows.StatusChange) (cows.Cow, error)
}

// Lactations abre la lactancia que sigue a un parto.
type Lactations interface {
	StartFromCalving(ctx context.Context, cowID, pregnancyID string, calving time.Time) (production.Lactation, error)
}

type Service struct {
	repo       Repository
	cows       CowStore
	lactations Lactations
	now        func() time.Time
}

func NewService(repo Repository, cowStore CowStore, lactations Lactations) *Service {
	return &Service{
		repo:       repo,
		cows:       cowStore,
		lactations: lactations,
		now:        time.Now,
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

func (s *Service) setPregnancyStatus(ctx context.Context, cowID string, st cows.PregnancyStatus) error {
	_, err := s.cows.ApplyStatus(ctx, cowID, cows.StatusChange{PregnancyStatus: &st})
	return err
}

// HasCowRecords implementa cows.DependencyChecker.
func (s *Service) HasCowRecords(ctx context.Context, cowID string) (bool, error) {
	heats, err := s.repo.ListHeats(ctx, HeatFilter{CowID: cowID})
	if err != nil || len(heats) > 0 {
		return len(heats) > 0, err
	}
	inseminations, err := s.repo.ListInseminations(ctx, InseminationFilter{CowID: cowID})
	if err != nil || len(inseminations) > 0 {
		return len(inseminations) > 0, err
	}
	pregnancies, err := s.repo.ListPregnancies(ctx, PregnancyFilter{CowID: cowID})
	if err != nil {
		return false, err
	}
	return len(pregnancies) > 0, nil
}

// -------------------------
// Inseminators
// -------------------------

type InseminatorInput struct {
	FirstName     string
	LastName      string
	PhoneNumber   string
	Sex           cows.Sex
	Company       string
	LicenseNumber string
	Notes         string
}

func (in InseminatorInput) normalize() InseminatorInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Company = strings.TrimSpace(in.Company)
	in.LicenseNumber = strings.ToUpper(strings.TrimSpace(in.LicenseNumber))
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

func (s *Service) validateInseminator(ctx context.Context, id string, in InseminatorInput) error {
	fields := map[string]string{}
	if in.FirstName == "" {
		fields["first_name"] = "this field is required"
	} else if len(in.FirstName) > maxNameLen {
		fields["first_name"] = "must be at most 15 characters"
	}
	if in.LastName == "" {
		fields["last_name"] = "this field is required"
	} else if len(in.LastName) > maxNameLen {
		fields["last_name"] = "must be at most 15 characters"
	}
	if in.PhoneNumber == "" {
		fields["phone_number"] = "this field is required"
	}
	if !slices.Contains(cows.Sexes, in.Sex) {
		fields["sex"] = "must be one of: Male, Female"
	}
	if len(in.Company) > maxCompanyLen {
		fields["company"] = "must be at most 50 characters"
	}
	if in.LicenseNumber == "" {
		fields["license_number"] = "this field is required"
	} else if len(in.LicenseNumber) > maxLicenseLen {
		fields["license_number"] = "must be at most 25 characters"
	}
	if len(fields) > 0 {
		return apperr.InvalidFields(fields)
	}

	all, err := s.repo.ListInseminators(ctx)
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.ID != id && strings.EqualFold(other.LicenseNumber, in.LicenseNumber) {
			return apperr.Conflict("duplicate_license_number", "an inseminator with this license number already exists")
		}
	}
	return nil
}

func (s *Service) CreateInseminator(ctx context.Context, in InseminatorInput) (Inseminator, error) {
	in = in.normalize()
	if err := s.validateInseminator(ctx, "", in); err != nil {
		return Inseminator{}, err
	}

	now := s.now().UTC()
	i := Inseminator{
		ID:            uuid.NewString(),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		PhoneNumber:   in.PhoneNumber,
		Sex:           in.Sex,
		Company:       in.Company,
		LicenseNumber: in.LicenseNumber,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateInseminator(ctx, i); err != nil {
		return Inseminator{}, err
	}
	return i, nil
}

func (s *Service) GetInseminator(ctx context.Context, id string) (Inseminator, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Inseminator{}, apperr.Invalid("invalid_id", "id is required")
	}
	return s.repo.GetInseminator(ctx, id)
}

func (s *Service) ListInseminators(ctx context.Context) ([]Inseminator, error) {
	return s.repo.ListInseminators(ctx)
}

// UpdateInseminator reemplaza los datos (PUT y PATCH mandan el recurso completo
// después de mezclar en el handler).
func (s *Service) UpdateInseminator(ctx context.Context, id string, in InseminatorInput) (Inseminator, error) {
	i, err := s.GetInseminator(ctx, id)
	if err != nil {
		return Inseminator{}, err
	}
	in = in.normalize()
	if err := s.validateInseminator(ctx, i.ID, in); err != nil {
		return Inseminator{}, err
	}

	i.FirstName = in.FirstName
	i.LastName = in.LastName
	i.PhoneNumber = in.PhoneNumber
	i.Sex = in.Sex
	i.Company = in.Company
	i.LicenseNumber = in.LicenseNumber
	i.Notes = in.Notes
	i.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateInseminator(ctx, i); err != nil {
		return Inseminator{}, err
	}
	return i, nil
}

func (s *Service) DeleteInseminator(ctx context.Context, id string) error {
	i, err := s.GetInseminator(ctx, id)
	if err != nil {
		return err
	}
	used, err := s.repo.ListInseminations(ctx, InseminationFilter{InseminatorID: i.ID})
	if err != nil {
		return err
	}
	if len(used) > 0 {
		return apperr.Conflict("inseminator_in_use", "inseminator has insemination records and cannot be deleted")
	}
	return s.repo.DeleteInseminator(ctx, i.ID)
}

// -------------------------
// Heat records
// -------------------------

func (s *Service) CreateHeat(ctx context.Context, cowID string) (Heat, error) {
	c, err := s.cow(ctx, cowID)
	if err != nil {
		return Heat{}, err
	}
	now := s.now().UTC()
	if err := s.validateHeat(ctx, c, now); err != nil {
		return Heat{}, err
	}

	h := Heat{
		ID:              uuid.NewString(),
		CowID:           c.ID,
		ObservationTime: now,
	}
	if err := s.repo.CreateHeat(ctx, h); err != nil {
		return Heat{}, err
	}
	return h, nil
}

func (s *Service) validateHeat(ctx context.Context, c cows.Cow, at time.Time) error {
	if c.PregnancyStatus == cows.PregnancyPregnant {
		return apperr.InvalidField("cow_id", "pregnant_cow", "this cow is already pregnant")
	}
	if c.ProductionStatus == cows.ProductionCulled {
		return apperr.InvalidField("cow_id", "culled_cow", "heat records are not allowed for culled cows")
	}
	if c.Availability == cows.AvailabilityDead || c.Availability == cows.AvailabilitySold {
		return apperr.InvalidField("cow_id", "invalid_availability_status",
			"heat records are not allowed for cows marked as "+string(c.Availability))
	}
	if !c.IsFemale() {
		return apperr.InvalidField("cow_id", "invalid_gender", "heat records are only allowed for female cows")
	}

	calving, err := s.lastCalving(ctx, c.ID)
	if err != nil {
		return err
	}
	if calving != nil && daysBetween(*calving, at) < postCalvingRestDays {
		return apperr.InvalidField("cow_id", "recent_calving", "a cow cannot be in heat within 60 days after calving")
	}

	heats, err := s.repo.ListHeats(ctx, HeatFilter{CowID: c.ID})
	if err != nil {
		return err
	}
	for _, h := range heats {
		if absDays(h.ObservationTime, at) < heatIntervalDays {
			return apperr.InvalidField("cow_id", "recent_heat", "a cow cannot be in heat within 21 days of the previous heat")
		}
	}

	if c.AgeInMonths(at) < minBreedingAgeMonths {
		return apperr.InvalidField("cow_id", "too_young", "a cow must be at least 12 months old to be in heat")
	}
	return nil
}

// lastCalving es la fecha de parto más reciente de la vaca, o nil.
func (s *Service) lastCalving(ctx context.Context, cowID string) (*time.Time, error) {
	ps, err := s.repo.ListPregnancies(ctx, PregnancyFilter{CowID: cowID})
	if err != nil {
		return nil, err
	}
	var last *time.Time
	for _, p := range ps {
		if p.DateOfCalving == nil {
			continue
		}
		if last == nil || p.DateOfCalving.After(*last) {
			d := *p.DateOfCalving
			last = &d
		}
	}
	return last, nil
}

func (s *Service) GetHeat(ctx context.Context, id string) (Heat, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Heat{}, apperr.Invalid("invalid_id", "id is required")
	}
	return s.repo.GetHeat(ctx, id)
}

func (s *Service) ListHeats(ctx context.Context, f HeatFilter) ([]Heat, error) {
	return s.repo.ListHeats(ctx, f)
}

func (s *Service) DeleteHeat(ctx context.Context, id string) error {
	h, err := s.GetHeat(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteHeat(ctx, h.ID)
}

func absDays(a, b time.Time) int {
	if a.After(b) {
		a, b = b, a
	}
	return daysBetween(a, b)
}

func normDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}
