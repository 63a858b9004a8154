package health

import "time"

// -------------------------
// Peso
// -------------------------

type WeightRecord struct {
	ID          string
	CowID       string
	WeightInKgs float64
	DateTaken   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WeightFilter struct {
	CowID string
	Year  int
	Month int
	Day   int
}

// -------------------------
// Descarte
// -------------------------

type CullingReason string

const (
	CullingInjuries                  CullingReason = "Injuries"
	CullingChronicHealthIssues       CullingReason = "Chronic Health Issues"
	CullingCostOfCare                CullingReason = "Cost Of Care"
	CullingUnprofitable              CullingReason = "Unprofitable"
	CullingLowMarketDemand           CullingReason = "Low Market Demand"
	CullingAge                       CullingReason = "Age"
	CullingConsistentLowProduction   CullingReason = "Consistent Low Production"
	CullingLowQuality                CullingReason = "Low Quality"
	CullingInefficientFeedConversion CullingReason = "Inefficient Feed Conversion"
	CullingInheritedDiseases         CullingReason = "Inherited Diseases"
	CullingInbreeding                CullingReason = "Inbreeding"
	CullingUnwantedTraits            CullingReason = "Unwanted Traits"
	CullingClimateChange             CullingReason = "Climate Change"
	CullingNaturalDisaster           CullingReason = "Natural Disaster"
	CullingOverpopulation            CullingReason = "Overpopulation"
	CullingGovernmentRegulations     CullingReason = "Government Regulations"
	CullingAnimalWelfareStandards    CullingReason = "Animal Welfare Standards"
	CullingEnvironmentalProtection   CullingReason = "Environmental Protection Laws"
)

var CullingReasons = []CullingReason{
	CullingInjuries, CullingChronicHealthIssues, CullingCostOfCare, CullingUnprofitable,
	CullingLowMarketDemand, CullingAge, CullingConsistentLowProduction, CullingLowQuality,
	CullingInefficientFeedConversion, CullingInheritedDiseases, CullingInbreeding, CullingUnwantedTraits,
	CullingClimateChange, CullingNaturalDisaster, CullingOverpopulation, CullingGovernmentRegulations,
	CullingAnimalWelfareStandards, CullingEnvironmentalProtection,
}

type CullingRecord struct {
	ID          string
	CowID       string
	Reason      CullingReason
	Notes       string
	DateCarried time.Time
	CreatedAt   time.Time
}

type CullingFilter struct {
	CowID  string
	Reason CullingReason
	Year   int
	Month  int
}

// -------------------------
// Cuarentena
// -------------------------

type QuarantineReason string

const (
	QuarantineSickCow   QuarantineReason = "Sick Cow"
	QuarantineBoughtCow QuarantineReason = "Bought Cow"
	QuarantineNewCow    QuarantineReason = "New Cow"
	QuarantineCalving   QuarantineReason = "Calving"
)

var QuarantineReasons = []QuarantineReason{QuarantineSickCow, QuarantineBoughtCow, QuarantineNewCow, QuarantineCalving}

type QuarantineRecord struct {
	ID        string
	CowID     string
	Reason    QuarantineReason
	StartDate time.Time
	EndDate   *time.Time
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active: sin fecha de fin o con fin posterior a today.
func (q QuarantineRecord) Active(today time.Time) bool {
	return q.EndDate == nil || q.EndDate.After(today)
}

type QuarantineFilter struct {
	CowID  string
	Reason QuarantineReason
	Year   int
	Month  int
}

// -------------------------
// Taxonomía
// -------------------------

type PathogenName string

const (
	PathogenBacteria PathogenName = "Bacteria"
	PathogenVirus    PathogenName = "Virus"
	PathogenFungi    PathogenName = "Fungi"
	PathogenUnknown  PathogenName = "Unknown"
)

var PathogenNames = []PathogenName{PathogenBacteria, PathogenVirus, PathogenFungi, PathogenUnknown}

type Pathogen struct {
	ID        string
	Name      PathogenName
	CreatedAt time.Time
}

type CategoryName string

const (
	CategoryNutrition     CategoryName = "Nutrition"
	CategoryInfectious    CategoryName = "Infectious"
	CategoryPhysiological CategoryName = "Physiological"
	CategoryGenetic       CategoryName = "Genetic"
)

var CategoryNames = []CategoryName{CategoryNutrition, CategoryInfectious, CategoryPhysiological, CategoryGenetic}

type DiseaseCategory struct {
	ID        string
	Name      CategoryName
	CreatedAt time.Time
}

type SymptomType string

const (
	SymptomRespiratory     SymptomType = "Respiratory"
	SymptomDigestive       SymptomType = "Digestive"
	SymptomReproductive    SymptomType = "Reproductive"
	SymptomPhysical        SymptomType = "Physical"
	SymptomMusculoskeletal SymptomType = "Musculoskeletal"
	SymptomMetabolic       SymptomType = "Metabolic"
	SymptomOther           SymptomType = "Other"
)

var SymptomTypes = []SymptomType{
	SymptomRespiratory, SymptomDigestive, SymptomReproductive, SymptomPhysical,
	SymptomMusculoskeletal, SymptomMetabolic, SymptomOther,
}

type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

var Severities = []Severity{SeverityMild, SeverityModerate, SeveritySevere}

type Location string

const (
	LocationHead      Location = "Head"
	LocationNeck      Location = "Neck"
	LocationChest     Location = "Chest"
	LocationAbdomen   Location = "Abdomen"
	LocationBack      Location = "Back"
	LocationLegs      Location = "Legs"
	LocationTail      Location = "Tail"
	LocationWholeBody Location = "Whole body"
	LocationOther     Location = "Other"
)

var Locations = []Location{
	LocationHead, LocationNeck, LocationChest, LocationAbdomen, LocationBack,
	LocationLegs, LocationTail, LocationWholeBody, LocationOther,
}

// respiratoryLocations: un síntoma respiratorio solo puede estar aquí.
var respiratoryLocations = []Location{LocationHead, LocationNeck, LocationChest, LocationWholeBody}

type Symptom struct {
	ID           string
	Name         string
	Type         SymptomType
	Description  string
	Severity     Severity
	Location     Location
	DateObserved time.Time
	CreatedAt    time.Time
}

// -------------------------
// Enfermedades
// -------------------------

type Disease struct {
	ID             string
	Name           string
	PathogenID     string
	CategoryID     string
	DateReported   time.Time
	OccurrenceDate time.Time
	Notes          string
	CowIDs         []string
	SymptomIDs     []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type DiseaseFilter struct {
	Name       string
	PathogenID string
	CategoryID string
	CowID      string
	SymptomID  string
	Year       int
	Month      int
}

// Recovery se crea al asociar una vaca a una enfermedad.
type Recovery struct {
	ID            string
	CowID         string
	DiseaseID     string
	DiagnosisDate time.Time
	RecoveryDate  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RecoveryFilter struct {
	CowID     string
	DiseaseID string
}

type TreatmentStatus string

const (
	TreatmentScheduled  TreatmentStatus = "Scheduled"
	TreatmentInProgress TreatmentStatus = "In Progress"
	TreatmentCompleted  TreatmentStatus = "Completed"
	TreatmentCancelled  TreatmentStatus = "Cancelled"
	TreatmentPostponed  TreatmentStatus = "Postponed"
)

var TreatmentStatuses = []TreatmentStatus{
	TreatmentScheduled, TreatmentInProgress, TreatmentCompleted, TreatmentCancelled, TreatmentPostponed,
}

type Treatment struct {
	ID              string
	DiseaseID       string
	CowID           string
	DateOfTreatment time.Time
	Method          string
	Notes           string
	Status          TreatmentStatus
	CompletionDate  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type TreatmentFilter struct {
	CowID     string
	DiseaseID string
	Status    TreatmentStatus
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
