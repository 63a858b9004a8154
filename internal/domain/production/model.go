package production

import "time"

type LactationStage string

const (
	StageEarly LactationStage = "Early"
	StageMid   LactationStage = "Mid"
	StageLate  LactationStage = "Late"
	StageDry   LactationStage = "Dry"
	StageEnded LactationStage = "Ended"
)

// Límites de cada etapa en días de lactancia.
const (
	earlyDays = 100
	midDays   = 200
	lateDays  = 305
)

type Lactation struct {
	ID          string
	CowID       string
	StartDate   time.Time
	EndDate     *time.Time
	Number      int
	PregnancyID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l Lactation) Open() bool { return l.EndDate == nil }

// DaysInLactation cuenta hasta end_date o hasta hoy si sigue abierta.
func (l Lactation) DaysInLactation(now time.Time) int {
	until := dateOnly(now)
	if l.EndDate != nil {
		until = dateOnly(*l.EndDate)
	}
	d := int(until.Sub(dateOnly(l.StartDate)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func (l Lactation) Stage(now time.Time) LactationStage {
	if !l.Open() {
		return StageEnded
	}
	switch d := l.DaysInLactation(now); {
	case d <= earlyDays:
		return StageEarly
	case d <= midDays:
		return StageMid
	case d <= lateDays:
		return StageLate
	default:
		return StageDry
	}
}

type Session string

const (
	SessionMorning   Session = "Morning"
	SessionAfternoon Session = "Afternoon"
	SessionEvening   Session = "Evening"
)

var Sessions = []Session{SessionMorning, SessionAfternoon, SessionEvening}

// Milk es un ordeñe de una vaca en una sesión del día.
type Milk struct {
	ID          string
	CowID       string
	LactationID string
	MilkingDate time.Time
	Session     Session
	AmountKgs   float64
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LactationFilter struct {
	CowID string
	Open  *bool
}

type MilkFilter struct {
	CowID       string
	LactationID string
	Year        int
	Month       int
	Day         int
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
