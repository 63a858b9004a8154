package production

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

const maxMilkKgs = 100

// CowLookup es lo único que producción necesita del módulo cows.
type CowLookup interface {
	GetByID(ctx context.Context, id string) (cows.Cow, error)
}

// Observer recibe aviso cuando cambian los registros de leche.
type Observer interface {
	MilkChanged(ctx context.Context) error
}

type Service struct {
	repo      Repository
	cows      CowLookup
	observers []Observer
	now       func() time.Time
}

func NewService(repo Repository, cowLookup CowLookup) *Service {
	return &Service{
		repo: repo,
		cows: cowLookup,
		now:  time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) AddObserver(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

func (s *Service) notify(ctx context.Context) error {
	var errs []error
	for _, o := range s.observers {
		if err := o.MilkChanged(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) today() time.Time { return dateOnly(s.now()) }

// cow resuelve la vaca y traduce not found a error de validación del campo.
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
	ls, err := s.repo.ListLactations(ctx, LactationFilter{CowID: cowID})
	if err != nil {
		return false, err
	}
	if len(ls) > 0 {
		return true, nil
	}
	ms, err := s.repo.ListMilk(ctx, MilkFilter{CowID: cowID})
	if err != nil {
		return false, err
	}
	return len(ms) > 0, nil
}

// -------------------------
// Lactations
// -------------------------

type LactationInput struct {
	CowID       string
	StartDate   *time.Time
	PregnancyID string
}

func (s *Service) CreateLactation(ctx context.Context, in LactationInput) (Lactation, error) {
	c, err := s.cow(ctx, in.CowID)
	if err != nil {
		return Lactation{}, err
	}
	if !c.IsFemale() {
		return Lactation{}, apperr.InvalidField("cow_id", "invalid_sex", "only female cows can have lactations")
	}

	start := s.today()
	if in.StartDate != nil {
		start = dateOnly(*in.StartDate)
	}
	if start.After(s.today()) {
		return Lactation{}, apperr.InvalidField("start_date", "future_date", "start date cannot be in the future")
	}
	if start.Before(dateOnly(c.DateOfBirth)) {
		return Lactation{}, apperr.InvalidField("start_date", "invalid_date", "start date cannot be before the cow was born")
	}

	if open, err := s.openLactation(ctx, c.ID); err != nil {
		return Lactation{}, err
	} else if open != nil {
		return Lactation{}, apperr.Conflict("open_lactation", "this cow already has an open lactation")
	}

	last, err := s.lastLactation(ctx, c.ID)
	if err != nil {
		return Lactation{}, err
	}
	return s.openNew(ctx, c.ID, start, strings.TrimSpace(in.PregnancyID), last)
}

func (s *Service) openNew(ctx context.Context, cowID string, start time.Time, pregnancyID string, last *Lactation) (Lactation, error) {
	number := 1
	if last != nil {
		number = last.Number + 1
	}

	now := s.now().UTC()
	l := Lactation{
		ID:          uuid.NewString(),
		CowID:       cowID,
		StartDate:   start,
		Number:      number,
		PregnancyID: pregnancyID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateLactation(ctx, l); err != nil {
		return Lactation{}, err
	}
	return l, nil
}

// StartFromCalving cierra la lactancia abierta (end_date = parto - 1 día)
// y abre la siguiente a partir de la fecha de parto.
func (s *Service) StartFromCalving(ctx context.Context, cowID, pregnancyID string, calving time.Time) (Lactation, error) {
	calving = dateOnly(calving)

	// Un parto ya procesado (cualquier lactancia de la vaca) no abre otra.
	if pregnancyID != "" {
		ls, err := s.repo.ListLactations(ctx, LactationFilter{CowID: cowID})
		if err != nil {
			return Lactation{}, err
		}
		for _, l := range ls {
			if l.PregnancyID == pregnancyID {
				return l, nil
			}
		}
	}

	last, err := s.lastLactation(ctx, cowID)
	if err != nil {
		return Lactation{}, err
	}

	if last != nil && last.Open() {
		end := calving.AddDate(0, 0, -1)
		if end.Before(last.StartDate) {
			end = last.StartDate
		}
		last.EndDate = &end
		last.UpdatedAt = s.now().UTC()
		if err := s.repo.UpdateLactation(ctx, *last); err != nil {
			return Lactation{}, err
		}
	}

	return s.openNew(ctx, cowID, calving, pregnancyID, last)
}

func (s *Service) GetLactation(ctx context.Context, id string) (Lactation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Lactation{}, apperr.NotFound("lactation")
	}
	return s.repo.GetLactation(ctx, id)
}

func (s *Service) ListLactations(ctx context.Context, f LactationFilter) ([]Lactation, error) {
	return s.repo.ListLactations(ctx, f)
}

type LactationUpdate struct {
	StartDate   *time.Time
	EndDate     *time.Time
	PregnancyID *string
}

func (s *Service) UpdateLactation(ctx context.Context, id string, in LactationUpdate) (Lactation, error) {
	l, err := s.GetLactation(ctx, id)
	if err != nil {
		return Lactation{}, err
	}

	if in.StartDate != nil {
		l.StartDate = dateOnly(*in.StartDate)
	}
	if in.EndDate != nil {
		end := dateOnly(*in.EndDate)
		l.EndDate = &end
	}
	if in.PregnancyID != nil {
		l.PregnancyID = strings.TrimSpace(*in.PregnancyID)
	}

	today := s.today()
	if l.StartDate.After(today) {
		return Lactation{}, apperr.InvalidField("start_date", "future_date", "start date cannot be in the future")
	}
	if l.EndDate != nil {
		if l.EndDate.Before(l.StartDate) {
			return Lactation{}, apperr.InvalidField("end_date", "invalid_date", "end date cannot be before start date")
		}
		if l.EndDate.After(today) {
			return Lactation{}, apperr.InvalidField("end_date", "future_date", "end date cannot be in the future")
		}
	}

	l.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateLactation(ctx, l); err != nil {
		return Lactation{}, err
	}
	return l, nil
}

func (s *Service) DeleteLactation(ctx context.Context, id string) error {
	l, err := s.GetLactation(ctx, id)
	if err != nil {
		return err
	}
	ms, err := s.repo.ListMilk(ctx, MilkFilter{LactationID: l.ID})
	if err != nil {
		return err
	}
	if len(ms) > 0 {
		return apperr.Conflict("lactation_in_use", "this lactation has milk records and cannot be deleted")
	}
	return s.repo.DeleteLactation(ctx, l.ID)
}

func (s *Service) openLactation(ctx context.Context, cowID string) (*Lactation, error) {
	open := true
	ls, err := s.repo.ListLactations(ctx, LactationFilter{CowID: cowID, Open: &open})
	if err != nil {
		return nil, err
	}
	if len(ls) == 0 {
		return nil, nil
	}
	return &ls[len(ls)-1], nil
}

func (s *Service) lastLactation(ctx context.Context, cowID string) (*Lactation, error) {
	ls, err := s.repo.ListLactations(ctx, LactationFilter{CowID: cowID})
	if err != nil {
		return nil, err
	}
	if len(ls) == 0 {
		return nil, nil
	}
	last := slices.MaxFunc(ls, func(a, b Lactation) int { return a.Number - b.Number })
	return &last, nil
}

// -------------------------
// Milk
// -------------------------

type MilkInput struct {
	CowID       string
	MilkingDate *time.Time
	Session     Session
	AmountKgs   float64
	Notes       string
}

func (s *Service) CreateMilk(ctx context.Context, in MilkInput) (Milk, error) {
	c, err := s.cow(ctx, in.CowID)
	if err != nil {
		return Milk{}, err
	}
	if !c.IsFemale() {
		return Milk{}, apperr.InvalidField("cow_id", "invalid_sex", "only female cows can be milked")
	}
	if !c.InFarm() {
		return Milk{}, apperr.InvalidField("cow_id", "unavailable_cow", "the cow is not available in the farm")
	}

	now := s.now().UTC()
	m := Milk{
		ID:          uuid.NewString(),
		CowID:       c.ID,
		MilkingDate: dateOnly(now),
		Session:     in.Session,
		AmountKgs:   in.AmountKgs,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.MilkingDate != nil {
		m.MilkingDate = dateOnly(*in.MilkingDate)
	}
	if m.Session == "" {
		m.Session = SessionMorning
	}

	if err := s.validateMilk(ctx, c, m); err != nil {
		return Milk{}, err
	}

	l, err := s.lactationFor(ctx, c.ID, m.MilkingDate, true)
	if err != nil {
		return Milk{}, err
	}
	m.LactationID = l.ID

	if err := s.repo.CreateMilk(ctx, m); err != nil {
		return Milk{}, err
	}
	return m, s.notify(ctx)
}

func (s *Service) GetMilk(ctx context.Context, id string) (Milk, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Milk{}, apperr.NotFound("milk record")
	}
	return s.repo.GetMilk(ctx, id)
}

func (s *Service) ListMilk(ctx context.Context, f MilkFilter) ([]Milk, error) {
	return s.repo.ListMilk(ctx, f)
}

type MilkUpdate struct {
	MilkingDate *time.Time
	Session     *Session
	AmountKgs   *float64
	Notes       *string
}

func (s *Service) UpdateMilk(ctx context.Context, id string, in MilkUpdate) (Milk, error) {
	m, err := s.GetMilk(ctx, id)
	if err != nil {
		return Milk{}, err
	}

	if in.MilkingDate != nil {
		m.MilkingDate = dateOnly(*in.MilkingDate)
	}
	if in.Session != nil {
		m.Session = *in.Session
	}
	if in.AmountKgs != nil {
		m.AmountKgs = *in.AmountKgs
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}

	c, err := s.cow(ctx, m.CowID)
	if err != nil {
		return Milk{}, err
	}
	if err := s.validateMilk(ctx, c, m); err != nil {
		return Milk{}, err
	}
	if in.MilkingDate != nil {
		l, err := s.lactationFor(ctx, c.ID, m.MilkingDate, false)
		if err != nil {
			return Milk{}, err
		}
		m.LactationID = l.ID
	}

	m.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateMilk(ctx, m); err != nil {
		return Milk{}, err
	}
	return m, s.notify(ctx)
}

func (s *Service) DeleteMilk(ctx context.Context, id string) error {
	m, err := s.GetMilk(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteMilk(ctx, m.ID); err != nil {
		return err
	}
	return s.notify(ctx)
}

// lactationFor devuelve la lactancia que cubre date. Sin ninguna, y si date
// es posterior a todas, abre una nueva cuando canOpen.
func (s *Service) lactationFor(ctx context.Context, cowID string, date time.Time, canOpen bool) (Lactation, error) {
	ls, err := s.repo.ListLactations(ctx, LactationFilter{CowID: cowID})
	if err != nil {
		return Lactation{}, err
	}
	for _, l := range ls {
		if !date.Before(l.StartDate) && (l.EndDate == nil || !date.After(*l.EndDate)) {
			return l, nil
		}
	}

	last, err := s.lastLactation(ctx, cowID)
	if err != nil {
		return Lactation{}, err
	}
	if canOpen && (last == nil || (!last.Open() && date.After(*last.EndDate))) {
		return s.openNew(ctx, cowID, date, "", last)
	}
	return Lactation{}, apperr.InvalidField("milking_date", "outside_lactation",
		"milking date is outside every lactation of this cow")
}

func (s *Service) validateMilk(ctx context.Context, c cows.Cow, m Milk) error {
	if m.AmountKgs <= 0 || m.AmountKgs > maxMilkKgs {
		return apperr.InvalidField("amount_in_kgs", "invalid_amount", "amount must be greater than 0 and at most 100 kgs")
	}
	if !slices.Contains(Sessions, m.Session) {
		return apperr.InvalidField("session", "invalid_choice", "session must be Morning, Afternoon or Evening")
	}
	if m.MilkingDate.After(s.today()) {
		return apperr.InvalidField("milking_date", "future_date", "milking date cannot be in the future")
	}
	if m.MilkingDate.Before(dateOnly(c.DateOfBirth)) {
		return apperr.InvalidField("milking_date", "invalid_date", "milking date cannot be before the cow was born")
	}

	y, mo, d := m.MilkingDate.Date()
	same, err := s.repo.ListMilk(ctx, MilkFilter{CowID: m.CowID, Year: y, Month: int(mo), Day: d})
	if err != nil {
		return err
	}
	for _, other := range same {
		if other.ID != m.ID && other.Session == m.Session {
			return apperr.Conflict("duplicate_milk_record", "this cow was already milked in this session on this date")
		}
	}
	return nil
}
