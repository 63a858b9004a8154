package cows

import (
	"context"
	"errors"
	"strings"
	"time"

	"dairy-farm-management/internal/platform/apperr"

	"github.com/google/uuid"
)

const (
	maxCowNameLen   = 35
	maxBreedNameLen = 30
)

// Observer recibe aviso tras cada alta/cambio/baja de vacas (inventario).
type Observer interface {
	CowsChanged(ctx context.Context) error
}

// DependencyChecker responde si un módulo tiene registros de la vaca.
// Se usa para la política de borrado "restrict".
type DependencyChecker interface {
	HasCowRecords(ctx context.Context, cowID string) (bool, error)
}

type Service struct {
	repo   Repository
	breeds BreedRepository

	observers []Observer
	deps      []DependencyChecker

	now func() time.Time
}

func NewService(repo Repository, breeds BreedRepository) *Service {
	return &Service{
		repo:   repo,
		breeds: breeds,
		now:    time.Now,
	}
}

// SetClock fija el reloj (tests de otros módulos).
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

func (s *Service) AddDependencyChecker(d DependencyChecker) {
	if d != nil {
		s.deps = append(s.deps, d)
	}
}

func (s *Service) notify(ctx context.Context) error {
	var errs []error
	for _, o := range s.observers {
		if err := o.CowsChanged(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// -------------------------
// Breeds
// -------------------------

func (s *Service) CreateBreed(ctx context.Context, name string) (Breed, error) {
	name, err := s.checkBreedName(ctx, "", name)
	if err != nil {
		return Breed{}, err
	}

	b := Breed{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.breeds.CreateBreed(ctx, b); err != nil {
		return Breed{}, err
	}
	return b, nil
}

func (s *Service) GetBreed(ctx context.Context, id string) (Breed, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Breed{}, apperr.NotFound("breed")
	}
	return s.breeds.GetBreedByID(ctx, id)
}

func (s *Service) ListBreeds(ctx context.Context) ([]Breed, error) {
	return s.breeds.ListBreeds(ctx)
}

func (s *Service) UpdateBreed(ctx context.Context, id, name string) (Breed, error) {
	b, err := s.GetBreed(ctx, id)
	if err != nil {
		return Breed{}, err
	}
	name, err = s.checkBreedName(ctx, b.ID, name)
	if err != nil {
		return Breed{}, err
	}

	b.Name = name
	if err := s.breeds.UpdateBreed(ctx, b); err != nil {
		return Breed{}, err
	}
	return b, nil
}

func (s *Service) DeleteBreed(ctx context.Context, id string) error {
	b, err := s.GetBreed(ctx, id)
	if err != nil {
		return err
	}
	inUse, err := s.repo.List(ctx, ListFilter{BreedID: b.ID})
	if err != nil {
		return err
	}
	if len(inUse) > 0 {
		return apperr.Conflict("breed_in_use", "this breed is referenced by existing cows")
	}
	return s.breeds.DeleteBreed(ctx, b.ID)
}

func (s *Service) checkBreedName(ctx context.Context, selfID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.InvalidField("name", "required", "breed name is required")
	}
	if len([]rune(name)) > maxBreedNameLen {
		return "", apperr.InvalidField("name", "too_long", "breed name must have at most 30 characters")
	}

	existing, err := s.breeds.GetBreedByName(ctx, name)
	switch {
	case err == nil && existing.ID != selfID:
		return "", apperr.Conflict("duplicate_breed", "a breed with this name already exists")
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return "", err
	}
	return name, nil
}

// -------------------------
// Cows
// -------------------------

type CreateInput struct {
	TagNumber            string
	Name                 string
	BreedID              string
	DateOfBirth          time.Time
	Gender               Sex
	Availability         Availability
	PregnancyStatus      PregnancyStatus
	Category             Category
	ProductionStatus     ProductionStatus
	DateOfDeath          *time.Time
	IsBought             bool
	DateIntroducedInFarm *time.Time
	SireID               string
	DamID                string
	Notes                string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Cow, error) {
	now := s.now().UTC()

	c := Cow{
		ID:               uuid.NewString(),
		TagNumber:        strings.TrimSpace(in.TagNumber),
		Name:             strings.TrimSpace(in.Name),
		BreedID:          strings.TrimSpace(in.BreedID),
		DateOfBirth:      dateOnly(in.DateOfBirth),
		Gender:           in.Gender,
		Availability:     in.Availability,
		PregnancyStatus:  in.PregnancyStatus,
		Category:         in.Category,
		ProductionStatus: in.ProductionStatus,
		DateOfDeath:      normDate(in.DateOfDeath),
		IsBought:         in.IsBought,
		SireID:           strings.TrimSpace(in.SireID),
		DamID:            strings.TrimSpace(in.DamID),
		Notes:            strings.TrimSpace(in.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	// Defaults
	if c.Availability == "" {
		c.Availability = AvailabilityAlive
	}
	if c.PregnancyStatus == "" {
		c.PregnancyStatus = PregnancyOpen
	}
	if c.ProductionStatus == "" {
		c.ProductionStatus = ProductionOpen
	}
	if in.DateIntroducedInFarm != nil {
		c.DateIntroducedInFarm = dateOnly(*in.DateIntroducedInFarm)
	} else {
		c.DateIntroducedInFarm = dateOnly(now)
	}

	breed, err := s.validate(ctx, c)
	if err != nil {
		return Cow{}, err
	}

	if c.TagNumber == "" {
		c.TagNumber = generateTag(breed.Name, c.ID)
	}
	if err := s.checkTagUnique(ctx, c); err != nil {
		return Cow{}, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Cow{}, err
	}
	return c, s.notify(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Cow, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Cow{}, apperr.NotFound("cow")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Cow, error) {
	return s.repo.List(ctx, f)
}

// UpdateInput usa punteros para PATCH real: nil = no tocar.
type UpdateInput struct {
	TagNumber            *string
	Name                 *string
	BreedID              *string
	DateOfBirth          *time.Time
	Gender               *Sex
	Availability         *Availability
	PregnancyStatus      *PregnancyStatus
	Category             *Category
	ProductionStatus     *ProductionStatus
	DateOfDeath          *time.Time
	IsBought             *bool
	DateIntroducedInFarm *time.Time
	SireID               *string
	DamID                *string
	Notes                *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Cow, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Cow{}, err
	}

	if in.TagNumber != nil {
		c.TagNumber = strings.TrimSpace(*in.TagNumber)
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.BreedID != nil {
		c.BreedID = strings.TrimSpace(*in.BreedID)
	}
	if in.DateOfBirth != nil {
		c.DateOfBirth = dateOnly(*in.DateOfBirth)
	}
	if in.Gender != nil {
		c.Gender = *in.Gender
	}
	if in.Availability != nil {
		c.Availability = *in.Availability
	}
	if in.PregnancyStatus != nil {
		c.PregnancyStatus = *in.PregnancyStatus
	}
	if in.Category != nil {
		c.Category = *in.Category
	}
	if in.ProductionStatus != nil {
		c.ProductionStatus = *in.ProductionStatus
	}
	if in.DateOfDeath != nil {
		c.DateOfDeath = normDate(in.DateOfDeath)
	}
	// Una vaca que deja de estar muerta pierde la fecha de muerte.
	if c.Availability != AvailabilityDead && in.DateOfDeath == nil {
		c.DateOfDeath = nil
	}
	if in.IsBought != nil {
		c.IsBought = *in.IsBought
	}
	if in.DateIntroducedInFarm != nil {
		c.DateIntroducedInFarm = dateOnly(*in.DateIntroducedInFarm)
	}
	if in.SireID != nil {
		c.SireID = strings.TrimSpace(*in.SireID)
	}
	if in.DamID != nil {
		c.DamID = strings.TrimSpace(*in.DamID)
	}
	if in.Notes != nil {
		c.Notes = strings.TrimSpace(*in.Notes)
	}

	breed, err := s.validate(ctx, c)
	if err != nil {
		return Cow{}, err
	}
	if c.TagNumber == "" {
		c.TagNumber = generateTag(breed.Name, c.ID)
	}
	if err := s.checkTagUnique(ctx, c); err != nil {
		return Cow{}, err
	}

	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return Cow{}, err
	}
	return c, s.notify(ctx)
}

// ApplyStatus lo usan health/reproduction (culling, cuarentena, preñez, parto).
// No revalida el resto del registro.
func (s *Service) ApplyStatus(ctx context.Context, id string, ch StatusChange) (Cow, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Cow{}, err
	}

	changed := false
	if ch.Availability != nil && c.Availability != *ch.Availability {
		c.Availability = *ch.Availability
		changed = true
	}
	if ch.PregnancyStatus != nil && c.PregnancyStatus != *ch.PregnancyStatus {
		if *ch.PregnancyStatus == PregnancyPregnant && !c.IsFemale() {
			return Cow{}, apperr.Invalid("invalid_pregnancy_status", "a male cow cannot be pregnant")
		}
		c.PregnancyStatus = *ch.PregnancyStatus
		changed = true
	}
	if ch.ProductionStatus != nil && c.ProductionStatus != *ch.ProductionStatus {
		c.ProductionStatus = *ch.ProductionStatus
		changed = true
	}
	if !changed {
		return c, nil
	}

	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return Cow{}, err
	}
	return c, s.notify(ctx)
}

// Delete aplica política restrict: no se borra una vaca con registros asociados
// ni una que figure como madre/padre de otra.
func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, d := range s.deps {
		has, err := d.HasCowRecords(ctx, c.ID)
		if err != nil {
			return err
		}
		if has {
			return apperr.Conflict("cow_in_use", "this cow has related records and cannot be deleted")
		}
	}

	all, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.SireID == c.ID || other.DamID == c.ID {
			return apperr.Conflict("cow_in_use", "this cow is registered as a parent of another cow")
		}
	}

	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return err
	}
	return s.notify(ctx)
}

func (s *Service) checkTagUnique(ctx context.Context, c Cow) error {
	existing, err := s.repo.GetByTagNumber(ctx, c.TagNumber)
	switch {
	case err == nil && existing.ID != c.ID:
		return apperr.Conflict("duplicate_tag_number", "a cow with this tag number already exists")
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return err
	}
	return nil
}

func normDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}

// generateTag arma "<2 letras de la raza>-<8 chars del id>", p.ej. "HO-1a2b3c4d".
func generateTag(breedName, id string) string {
	prefix := strings.ToUpper(strings.ReplaceAll(breedName, " ", ""))
	if len([]rune(prefix)) > 2 {
		prefix = string([]rune(prefix)[:2])
	}
	if prefix == "" {
		prefix = "CW"
	}
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return prefix + "-" + short
}
