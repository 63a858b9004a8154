package reproduction

import (
	"time"

	"dairy-farm-management/internal/domain/cows"
)

// Reglas de tiempo del ciclo reproductivo.
const (
	gestationDays        = 283
	heatIntervalDays     = 21
	postCalvingRestDays  = 60
	inseminationGapDays  = 21
	minBreedingAgeMonths = 12
)

type Inseminator struct {
	ID            string
	FirstName     string
	LastName      string
	PhoneNumber   string
	Sex           cows.Sex
	Company       string
	LicenseNumber string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Heat struct {
	ID              string
	CowID           string
	ObservationTime time.Time
}

type HeatFilter struct {
	CowID string
	Year  int
	Month int
}

type Insemination struct {
	ID            string
	CowID         string
	InseminatorID string
	Date          time.Time
	Success       bool
	Notes         string
	PregnancyID   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (i Insemination) DaysSince(now time.Time) int {
	return daysBetween(i.Date, now)
}

type InseminationFilter struct {
	CowID         string
	InseminatorID string
	Success       *bool
	Year          int
	Month         int
}

type PregnancyStatus string

const (
	PregnancyUnconfirmed PregnancyStatus = "Unconfirmed"
	PregnancyConfirmed   PregnancyStatus = "Confirmed"
	PregnancyFailed      PregnancyStatus = "Failed"
)

var PregnancyStatuses = []PregnancyStatus{PregnancyUnconfirmed, PregnancyConfirmed, PregnancyFailed}

type PregnancyOutcome string

const (
	OutcomeLive        PregnancyOutcome = "Live"
	OutcomeStillborn   PregnancyOutcome = "Stillborn"
	OutcomeMiscarriage PregnancyOutcome = "Miscarriage"
)

var PregnancyOutcomes = []PregnancyOutcome{OutcomeLive, OutcomeStillborn, OutcomeMiscarriage}

type Pregnancy struct {
	ID            string
	CowID         string
	StartDate     time.Time
	DateOfCalving *time.Time
	Status        PregnancyStatus
	Notes         string
	CalvingNotes  string
	ScanDate      *time.Time
	FailedDate    *time.Time
	Outcome       PregnancyOutcome
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Open: preñez en curso (sin parto, sin falla, sin desenlace).
func (p Pregnancy) Open() bool {
	return p.DateOfCalving == nil && p.Status != PregnancyFailed && p.Outcome == ""
}

// Calved: hubo parto con cría viva o mortinato.
func (p Pregnancy) Calved() bool {
	return p.DateOfCalving != nil && (p.Outcome == OutcomeLive || p.Outcome == OutcomeStillborn)
}

func (p Pregnancy) DueDate() time.Time {
	return dateOnly(p.StartDate).AddDate(0, 0, gestationDays)
}

// Duration en días hasta el parto, la falla o hoy.
func (p Pregnancy) Duration(now time.Time) int {
	switch {
	case p.DateOfCalving != nil:
		return daysBetween(p.StartDate, *p.DateOfCalving)
	case p.FailedDate != nil:
		return daysBetween(p.StartDate, *p.FailedDate)
	default:
		return daysBetween(p.StartDate, now)
	}
}

type PregnancyFilter struct {
	CowID   string
	Status  PregnancyStatus
	Outcome PregnancyOutcome
	Year    int
	Month   int
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	d := int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
