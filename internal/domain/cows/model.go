package cows

import (
	"fmt"
	"time"
)

// Sex define el sexo del animal.
// @Enum Male, Female
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// Availability indica si la vaca sigue en la granja.
type Availability string

const (
	AvailabilityAlive       Availability = "Alive"
	AvailabilitySold        Availability = "Sold"
	AvailabilityDead        Availability = "Dead"
	AvailabilityQuarantined Availability = "Quarantined"
)

type PregnancyStatus string

const (
	PregnancyOpen        PregnancyStatus = "Open"
	PregnancyPregnant    PregnancyStatus = "Pregnant"
	PregnancyCalved      PregnancyStatus = "Calved"
	PregnancyUnavailable PregnancyStatus = "Unavailable"
)

type Category string

const (
	CategoryCalf       Category = "Calf"
	CategoryWeaner     Category = "Weaner"
	CategoryHeifer     Category = "Heifer"
	CategoryBull       Category = "Bull"
	CategoryMilkingCow Category = "Milking Cow"
)

type ProductionStatus string

const (
	ProductionOpen                 ProductionStatus = "Open"
	ProductionPregnantNotLactating ProductionStatus = "Pregnant not Lactating"
	ProductionPregnantAndLactating ProductionStatus = "Pregnant and Lactating"
	ProductionDry                  ProductionStatus = "Dry"
	ProductionCulled               ProductionStatus = "Culled"
	ProductionQuarantined          ProductionStatus = "Quarantined"
	ProductionBull                 ProductionStatus = "Bull"
	ProductionYoungBull            ProductionStatus = "Young Bull"
	ProductionOldBull              ProductionStatus = "Old Bull"
	ProductionCalf                 ProductionStatus = "Calf"
	ProductionHeifer               ProductionStatus = "Heifer"
)

var (
	Sexes              = []Sex{SexMale, SexFemale}
	Availabilities     = []Availability{AvailabilityAlive, AvailabilitySold, AvailabilityDead, AvailabilityQuarantined}
	PregnancyStatuses  = []PregnancyStatus{PregnancyOpen, PregnancyPregnant, PregnancyCalved, PregnancyUnavailable}
	Categories         = []Category{CategoryCalf, CategoryWeaner, CategoryHeifer, CategoryBull, CategoryMilkingCow}
	ProductionStatuses = []ProductionStatus{
		ProductionOpen, ProductionPregnantNotLactating, ProductionPregnantAndLactating, ProductionDry,
		ProductionCulled, ProductionQuarantined, ProductionBull, ProductionYoungBull, ProductionOldBull,
		ProductionCalf, ProductionHeifer,
	}
)

// Breed es la raza (p.ej. Holstein, Jersey).
type Breed struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Cow struct {
	ID        string
	TagNumber string
	Name      string
	BreedID   string

	DateOfBirth time.Time
	Gender      Sex

	Availability     Availability
	PregnancyStatus  PregnancyStatus
	Category         Category
	ProductionStatus ProductionStatus

	DateOfDeath          *time.Time
	IsBought             bool
	DateIntroducedInFarm time.Time

	SireID string
	DamID  string
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgeInDays a la fecha now (nunca negativo).
func (c Cow) AgeInDays(now time.Time) int {
	d := int(dateOnly(now).Sub(dateOnly(c.DateOfBirth)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// AgeInMonths cuenta meses calendario completos.
func (c Cow) AgeInMonths(now time.Time) int {
	return monthsBetween(c.DateOfBirth, now)
}

// Age devuelve "2y 3m" / "5m" / "12d".
func (c Cow) Age(now time.Time) string {
	return humanSpan(c.DateOfBirth, now)
}

func (c Cow) AgeInFarm(now time.Time) string {
	return humanSpan(c.DateIntroducedInFarm, now)
}

func (c Cow) IsFemale() bool { return c.Gender == SexFemale }

// InFarm: viva o en cuarentena.
func (c Cow) InFarm() bool {
	return c.Availability == AvailabilityAlive || c.Availability == AvailabilityQuarantined
}

// StatusChange aplica cambios de estado desde otros módulos (culling, cuarentena, preñez).
// nil = no tocar.
type StatusChange struct {
	Availability     *Availability
	PregnancyStatus  *PregnancyStatus
	ProductionStatus *ProductionStatus
}

// ListFilter: campos vacíos = sin filtro.
type ListFilter struct {
	BreedID      string
	Gender       Sex
	Availability Availability
	Category     Category
	BirthYear    int
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthsBetween(from, to time.Time) int {
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()-from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func humanSpan(from, to time.Time) string {
	months := monthsBetween(from, to)
	if months == 0 {
		days := int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
		if days < 0 {
			days = 0
		}
		return fmt.Sprintf("%dd", days)
	}
	y, m := months/12, months%12
	switch {
	case y == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dy", y)
	default:
		return fmt.Sprintf("%dy %dm", y, m)
	}
}
