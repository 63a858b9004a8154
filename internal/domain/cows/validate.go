package cows

import (
	"context"
	"errors"
	"slices"

	"dairy-farm-management/internal/platform/apperr"
)

// validate revisa reglas de la vaca completa y devuelve su raza.
func (s *Service) validate(ctx context.Context, c Cow) (Breed, error) {
	today := dateOnly(s.now())

	if c.Name == "" {
		return Breed{}, apperr.InvalidField("name", "required", "cow name is required")
	}
	if len([]rune(c.Name)) > maxCowNameLen {
		return Breed{}, apperr.InvalidField("name", "too_long", "cow name must have at most 35 characters")
	}

	if c.BreedID == "" {
		return Breed{}, apperr.InvalidField("breed_id", "required", "breed is required")
	}
	breed, err := s.breeds.GetBreedByID(ctx, c.BreedID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Breed{}, apperr.InvalidField("breed_id", "unknown_breed", "breed does not exist")
		}
		return Breed{}, err
	}

	if c.DateOfBirth.IsZero() {
		return Breed{}, apperr.InvalidField("date_of_birth", "required", "date of birth is required")
	}
	if c.DateOfBirth.After(today) {
		return Breed{}, apperr.InvalidField("date_of_birth", "future_date", "date of birth cannot be in the future")
	}
	if c.DateIntroducedInFarm.Before(c.DateOfBirth) {
		return Breed{}, apperr.InvalidField("date_introduced_in_farm", "invalid_date", "a cow cannot be introduced before it was born")
	}
	if c.DateIntroducedInFarm.After(today) {
		return Breed{}, apperr.InvalidField("date_introduced_in_farm", "future_date", "date introduced cannot be in the future")
	}

	if !slices.Contains(Sexes, c.Gender) {
		return Breed{}, apperr.InvalidField("gender", "invalid_choice", "gender must be Male or Female")
	}
	if !slices.Contains(Availabilities, c.Availability) {
		return Breed{}, apperr.InvalidField("availability_status", "invalid_choice", "unknown availability status")
	}
	if !slices.Contains(PregnancyStatuses, c.PregnancyStatus) {
		return Breed{}, apperr.InvalidField("current_pregnancy_status", "invalid_choice", "unknown pregnancy status")
	}
	if !slices.Contains(Categories, c.Category) {
		return Breed{}, apperr.InvalidField("category", "invalid_choice", "unknown category")
	}
	if !slices.Contains(ProductionStatuses, c.ProductionStatus) {
		return Breed{}, apperr.InvalidField("current_production_status", "invalid_choice", "unknown production status")
	}

	if c.Gender == SexMale {
		if c.PregnancyStatus == PregnancyPregnant || c.PregnancyStatus == PregnancyCalved {
			return Breed{}, apperr.InvalidField("current_pregnancy_status", "invalid_pregnancy_status", "a male cow cannot be pregnant or calved")
		}
		if c.Category == CategoryMilkingCow {
			return Breed{}, apperr.InvalidField("category", "invalid_category", "a male cow cannot be a milking cow")
		}
	}

	if c.Availability == AvailabilityDead {
		if c.DateOfDeath == nil {
			return Breed{}, apperr.InvalidField("date_of_death", "required", "date of death is required for dead cows")
		}
		if c.DateOfDeath.Before(c.DateOfBirth) || c.DateOfDeath.After(today) {
			return Breed{}, apperr.InvalidField("date_of_death", "invalid_date", "date of death must be between birth and today")
		}
	} else if c.DateOfDeath != nil {
		return Breed{}, apperr.InvalidField("date_of_death", "invalid_date", "only dead cows can have a date of death")
	}

	if err := s.validateParent(ctx, c, c.SireID, "sire_id", SexMale); err != nil {
		return Breed{}, err
	}
	if err := s.validateParent(ctx, c, c.DamID, "dam_id", SexFemale); err != nil {
		return Breed{}, err
	}

	return breed, nil
}

func (s *Service) validateParent(ctx context.Context, c Cow, parentID, field string, want Sex) error {
	if parentID == "" {
		return nil
	}
	if parentID == c.ID {
		return apperr.InvalidField(field, "invalid_parent", "a cow cannot be its own parent")
	}
	p, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.InvalidField(field, "unknown_parent", "parent cow does not exist")
		}
		return err
	}
	if p.Gender != want {
		return apperr.InvalidField(field, "invalid_parent", "parent must be "+string(want))
	}
	return nil
}
