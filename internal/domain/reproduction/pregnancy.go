package reproduction

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

// -------------------------
// Inseminations
// -------------------------

type InseminationInput struct {
	CowID         string
	InseminatorID string
	Date          *time.Time // nil = ahora
	Success       bool
	Notes         string
}

type InseminationUpdate struct {
	InseminatorID *string
	Date          *time.Time
	Success       *bool
	Notes         *string
}

func (s *Service) CreateInsemination(ctx context.Context, in InseminationInput) (Insemination, error) {
	c, err := s.cow(ctx, in.CowID)
	if err != nil {
		return Insemination{}, err
	}
	if !c.IsFemale() {
		return Insemination{}, apperr.InvalidField("cow_id", "invalid_gender", "only female cows can be inseminated")
	}
	if c.PregnancyStatus == cows.PregnancyPregnant {
		return Insemination{}, apperr.InvalidField("cow_id", "pregnant_cow", "this cow is already pregnant")
	}

	now := s.now().UTC()
	i := Insemination{
		ID:            uuid.NewString(),
		CowID:         c.ID,
		InseminatorID: strings.TrimSpace(in.InseminatorID),
		Date:          now,
		Success:       in.Success,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Date != nil {
		i.Date = in.Date.UTC()
	}
	if err := s.validateInsemination(ctx, i); err != nil {
		return Insemination{}, err
	}

	if !i.Success {
		if err := s.repo.CreateInsemination(ctx, i); err != nil {
			return Insemination{}, err
		}
		return i, nil
	}

	p, err := s.pregnancyFor(ctx, c, i)
	if err != nil {
		return Insemination{}, err
	}
	i.PregnancyID = p.ID
	if err := s.savePregnancyWith(ctx, p, func() error { return s.repo.CreateInsemination(ctx, i) }); err != nil {
		return Insemination{}, err
	}
	return i, nil
}

func (s *Service) validateInsemination(ctx context.Context, i Insemination) error {
	if i.InseminatorID == "" {
		return apperr.InvalidField("inseminator_id", "required", "inseminator is required")
	}
	if _, err := s.repo.GetInseminator(ctx, i.InseminatorID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.InvalidField("inseminator_id", "unknown_inseminator", "inseminator does not exist")
		}
		return err
	}
	if dateOnly(i.Date).After(s.today()) {
		return apperr.InvalidField("date_of_insemination", "invalid_date", "date of insemination cannot be in the future")
	}
	if len(i.Notes) > maxNotesLen {
		return apperr.InvalidField("notes", "max_length", "must be at most 100 characters")
	}

	others, err := s.repo.ListInseminations(ctx, InseminationFilter{CowID: i.CowID})
	if err != nil {
		return err
	}
	for _, o := range others {
		if o.ID != i.ID && absDays(o.Date, i.Date) < inseminationGapDays {
			return apperr.InvalidField("date_of_insemination", "recent_insemination",
				"a cow cannot be inseminated within 21 days of a previous insemination")
		}
	}
	return nil
}

// pregnancyFor arma (sin guardar) la preñez de una inseminación exitosa.
func (s *Service) pregnancyFor(ctx context.Context, c cows.Cow, i Insemination) (Pregnancy, error) {
	now := s.now().UTC()
	p := Pregnancy{
		ID:        uuid.NewString(),
		CowID:     c.ID,
		StartDate: dateOnly(i.Date),
		Status:    PregnancyUnconfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.validatePregnancy(ctx, c, p, true); err != nil {
		return Pregnancy{}, err
	}
	return p, nil
}

// savePregnancyWith guarda la preñez y después la inseminación que la vincula.
// Si la inseminación falla la preñez se borra; el estado de la vaca se toca al final.
func (s *Service) savePregnancyWith(ctx context.Context, p Pregnancy, saveInsemination func() error) error {
	if err := s.repo.CreatePregnancy(ctx, p); err != nil {
		return err
	}
	if err := saveInsemination(); err != nil {
		if derr := s.repo.DeletePregnancy(ctx, p.ID); derr != nil {
			return errors.Join(err, derr)
		}
		return err
	}
	return s.pregnancyEffects(ctx, nil, p)
}

func (s *Service) GetInsemination(ctx context.Context, id string) (Insemination, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Insemination{}, apperr.Invalid("invalid_id", "id is required")
	}
	return s.repo.GetInsemination(ctx, id)
}

func (s *Service) ListInseminations(ctx context.Context, f InseminationFilter) ([]Insemination, error) {
	return s.repo.ListInseminations(ctx, f)
}

// UpdateInsemination: pasar success a true abre la preñez si todavía no hay una vinculada.
func (s *Service) UpdateInsemination(ctx context.Context, id string, in InseminationUpdate) (Insemination, error) {
	i, err := s.GetInsemination(ctx, id)
	if err != nil {
		return Insemination{}, err
	}

	if in.InseminatorID != nil {
		i.InseminatorID = strings.TrimSpace(*in.InseminatorID)
	}
	if in.Date != nil {
		i.Date = in.Date.UTC()
	}
	if in.Success != nil {
		i.Success = *in.Success
	}
	if in.Notes != nil {
		i.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := s.validateInsemination(ctx, i); err != nil {
		return Insemination{}, err
	}

	i.UpdatedAt = s.now().UTC()
	if !i.Success || i.PregnancyID != "" {
		if err := s.repo.UpdateInsemination(ctx, i); err != nil {
			return Insemination{}, err
		}
		return i, nil
	}

	c, err := s.cow(ctx, i.CowID)
	if err != nil {
		return Insemination{}, err
	}
	if c.PregnancyStatus == cows.PregnancyPregnant {
		return Insemination{}, apperr.InvalidField("cow_id", "pregnant_cow", "this cow is already pregnant")
	}
	p, err := s.pregnancyFor(ctx, c, i)
	if err != nil {
		return Insemination{}, err
	}
	i.PregnancyID = p.ID
	if err := s.savePregnancyWith(ctx, p, func() error { return s.repo.UpdateInsemination(ctx, i) }); err != nil {
		return Insemination{}, err
	}
	return i, nil
}

func (s *Service) DeleteInsemination(ctx context.Context, id string) error {
	i, err := s.GetInsemination(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteInsemination(ctx, i.ID)
}

// -------------------------
// Pregnancies
// -------------------------

type PregnancyInput struct {
	CowID         string
	StartDate     time.Time
	DateOfCalving *time.Time
	Status        PregnancyStatus
	Notes         string
	CalvingNotes  string
	ScanDate      *time.Time
	FailedDate    *time.Time
	Outcome       PregnancyOutcome
}

// PregnancyUpdate: nil = no tocar. Outcome vacío con puntero no nil lo limpia.
type PregnancyUpdate struct {
	StartDate     *time.Time
	DateOfCalving *time.Time
	Status        *PregnancyStatus
	Notes         *string
	CalvingNotes  *string
	ScanDate      *time.Time
	FailedDate    *time.Time
	Outcome       *PregnancyOutcome
}

func (s *Service) CreatePregnancy(ctx context.Context, in PregnancyInput) (Pregnancy, error) {
	c, err := s.cow(ctx, in.CowID)
	if err != nil {
		return Pregnancy{}, err
	}

	now := s.now().UTC()
	p := Pregnancy{
		ID:            uuid.NewString(),
		CowID:         c.ID,
		StartDate:     dateOnly(in.StartDate),
		DateOfCalving: normDate(in.DateOfCalving),
		Status:        in.Status,
		Notes:         strings.TrimSpace(in.Notes),
		CalvingNotes:  strings.TrimSpace(in.CalvingNotes),
		ScanDate:      normDate(in.ScanDate),
		FailedDate:    normDate(in.FailedDate),
		Outcome:       in.Outcome,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Status == "" {
		p.Status = PregnancyUnconfirmed
	}
	if err := s.validatePregnancy(ctx, c, p, true); err != nil {
		return Pregnancy{}, err
	}
	if err := s.repo.CreatePregnancy(ctx, p); err != nil {
		return Pregnancy{}, err
	}
	if err := s.pregnancyEffects(ctx, nil, p); err != nil {
		return Pregnancy{}, err
	}
	return p, nil
}

func (s *Service) GetPregnancy(ctx context.Context, id string) (Pregnancy, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pregnancy{}, apperr.Invalid("invalid_id", "id is required")
	}
	return s.repo.GetPregnancy(ctx, id)
}

func (s *Service) ListPregnancies(ctx context.Context, f PregnancyFilter) ([]Pregnancy, error) {
	return s.repo.ListPregnancies(ctx, f)
}

func (s *Service) UpdatePregnancy(ctx context.Context, id string, in PregnancyUpdate) (Pregnancy, error) {
	p, err := s.GetPregnancy(ctx, id)
	if err != nil {
		return Pregnancy{}, err
	}
	c, err := s.cow(ctx, p.CowID)
	if err != nil {
		return Pregnancy{}, err
	}
	before := p

	if in.StartDate != nil {
		p.StartDate = dateOnly(*in.StartDate)
	}
	if in.DateOfCalving != nil {
		p.DateOfCalving = normDate(in.DateOfCalving)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.CalvingNotes != nil {
		p.CalvingNotes = strings.TrimSpace(*in.CalvingNotes)
	}
	if in.ScanDate != nil {
		p.ScanDate = normDate(in.ScanDate)
	}
	if in.FailedDate != nil {
		p.FailedDate = normDate(in.FailedDate)
	}
	if in.Outcome != nil {
		p.Outcome = *in.Outcome
	}
	if err := s.validatePregnancy(ctx, c, p, false); err != nil {
		return Pregnancy{}, err
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdatePregnancy(ctx, p); err != nil {
		return Pregnancy{}, err
	}
	if err := s.pregnancyEffects(ctx, &before, p); err != nil {
		return Pregnancy{}, err
	}
	return p, nil
}

// DeletePregnancy falla si una inseminación la referencia.
func (s *Service) DeletePregnancy(ctx context.Context, id string) error {
	p, err := s.GetPregnancy(ctx, id)
	if err != nil {
		return err
	}
	ins, err := s.repo.ListInseminations(ctx, InseminationFilter{CowID: p.CowID})
	if err != nil {
		return err
	}
	for _, i := range ins {
		if i.PregnancyID == p.ID {
			return apperr.Conflict("pregnancy_in_use", "pregnancy is linked to an insemination record and cannot be deleted")
		}
	}
	if err := s.repo.DeletePregnancy(ctx, p.ID); err != nil {
		return err
	}
	if p.Open() {
		return s.setPregnancyStatus(ctx, p.CowID, cows.PregnancyOpen)
	}
	return nil
}

// validatePregnancy. creating exige vaca Alive; en updates alcanza con que
// siga en la granja (una vaca en cuarentena de parto puede parir).
func (s *Service) validatePregnancy(ctx context.Context, c cows.Cow, p Pregnancy, creating bool) error {
	today := s.today()

	if !c.IsFemale() {
		return apperr.InvalidField("cow_id", "invalid_gender", "only female cows can be pregnant")
	}
	if (creating && c.Availability != cows.AvailabilityAlive) || (!creating && !c.InFarm()) {
		return apperr.InvalidField("cow_id", "invalid_availability_status",
			"pregnancy records are only allowed for cows present in the farm, this cow is marked as "+string(c.Availability))
	}
	if p.StartDate.IsZero() {
		return apperr.InvalidField("start_date", "required", "start date is required")
	}
	if p.StartDate.After(today) {
		return apperr.InvalidField("start_date", "invalid_date", "start date cannot be in the future")
	}
	if c.AgeInMonths(p.StartDate) < minBreedingAgeMonths {
		return apperr.InvalidField("start_date", "too_young", "a cow must be at least 12 months old to be pregnant")
	}

	if !slices.Contains(PregnancyStatuses, p.Status) {
		return apperr.InvalidField("pregnancy_status", "invalid_choice", "must be one of: Unconfirmed, Confirmed, Failed")
	}
	if p.Outcome != "" && !slices.Contains(PregnancyOutcomes, p.Outcome) {
		return apperr.InvalidField("pregnancy_outcome", "invalid_choice", "must be one of: Live, Stillborn, Miscarriage")
	}

	if p.DateOfCalving != nil {
		if p.DateOfCalving.Before(p.StartDate) {
			return apperr.InvalidField("date_of_calving", "invalid_date", "date of calving cannot be before the start date")
		}
		if p.DateOfCalving.After(today) {
			return apperr.InvalidField("date_of_calving", "invalid_date", "date of calving cannot be in the future")
		}
	}
	if p.ScanDate != nil && (p.ScanDate.Before(p.StartDate) || p.ScanDate.After(today)) {
		return apperr.InvalidField("pregnancy_scan_date", "invalid_date", "scan date must be between the start date and today")
	}

	if p.Status == PregnancyFailed {
		if p.FailedDate == nil {
			return apperr.InvalidField("pregnancy_failed_date", "required", "a failed pregnancy requires the date it failed")
		}
		if p.Outcome == OutcomeLive || p.Outcome == OutcomeStillborn {
			return apperr.InvalidField("pregnancy_outcome", "invalid_outcome", "a failed pregnancy cannot have a calving outcome")
		}
	} else if p.FailedDate != nil {
		return apperr.InvalidField("pregnancy_failed_date", "invalid_date", "only failed pregnancies can have a failed date")
	}
	if p.FailedDate != nil && (p.FailedDate.Before(p.StartDate) || p.FailedDate.After(today)) {
		return apperr.InvalidField("pregnancy_failed_date", "invalid_date", "failed date must be between the start date and today")
	}

	switch p.Outcome {
	case OutcomeLive, OutcomeStillborn:
		if p.DateOfCalving == nil {
			return apperr.InvalidField("date_of_calving", "required", "a "+strings.ToLower(string(p.Outcome))+" outcome requires the date of calving")
		}
	default:
		if p.DateOfCalving != nil {
			return apperr.InvalidField("pregnancy_outcome", "required", "a calving requires a Live or Stillborn outcome")
		}
	}

	if p.Open() {
		others, err := s.repo.ListPregnancies(ctx, PregnancyFilter{CowID: c.ID})
		if err != nil {
			return err
		}
		for _, o := range others {
			if o.ID != p.ID && o.Open() {
				return apperr.Conflict("open_pregnancy", "this cow already has an open pregnancy")
			}
		}
	}
	return nil
}

type pregnancyState int

const (
	stateOpen pregnancyState = iota
	stateCalved
	stateEnded
)

func stateOf(p Pregnancy) pregnancyState {
	switch {
	case p.Calved():
		return stateCalved
	case p.Status == PregnancyFailed || p.Outcome == OutcomeMiscarriage:
		return stateEnded
	default:
		return stateOpen
	}
}

// latestPregnancy: ninguna otra preñez de la vaca empezó después que p.
func (s *Service) latestPregnancy(ctx context.Context, p Pregnancy) (bool, error) {
	all, err := s.repo.ListPregnancies(ctx, PregnancyFilter{CowID: p.CowID})
	if err != nil {
		return false, err
	}
	for _, o := range all {
		if o.ID == p.ID {
			continue
		}
		if o.StartDate.After(p.StartDate) || (o.StartDate.Equal(p.StartDate) && o.CreatedAt.After(p.CreatedAt)) {
			return false, nil
		}
	}
	return true, nil
}

// pregnancyEffects lleva el estado de la vaca (y la lactancia) al de la preñez.
// Solo actúa cuando cambia el estado (parto, falla o aborto) y p es la preñez
// más reciente de la vaca; before es nil al crear.
func (s *Service) pregnancyEffects(ctx context.Context, before *Pregnancy, p Pregnancy) error {
	if before != nil && stateOf(*before) == stateOf(p) {
		return nil
	}
	latest, err := s.latestPregnancy(ctx, p)
	if err != nil || !latest {
		return err
	}

	switch stateOf(p) {
	case stateCalved:
		if err := s.setPregnancyStatus(ctx, p.CowID, cows.PregnancyCalved); err != nil {
			return err
		}
		if s.lactations == nil {
			return nil
		}
		_, err := s.lactations.StartFromCalving(ctx, p.CowID, p.ID, *p.DateOfCalving)
		return err
	case stateEnded:
		return s.setPregnancyStatus(ctx, p.CowID, cows.PregnancyOpen)
	default:
		return s.setPregnancyStatus(ctx, p.CowID, cows.PregnancyPregnant)
	}
}
