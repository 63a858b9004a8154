package capabilities

// Recursos protegidos por la matriz de roles.
const (
	ResourceUsers             = "users"
	ResourceBreeds            = "breeds"
	ResourceCows              = "cows"
	ResourceInseminators      = "inseminators"
	ResourceWeights           = "weights"
	ResourceCullings          = "cullings"
	ResourceQuarantines       = "quarantines"
	ResourcePathogens         = "pathogens"
	ResourceDiseaseCategories = "disease_categories"
	ResourceSymptoms          = "symptoms"
	ResourceDiseases          = "diseases"
	ResourceRecoveries        = "recoveries"
	ResourceTreatments        = "treatments"
	ResourceLactations        = "lactations"
	ResourceMilk              = "milk"
	ResourceHeats             = "heats"
	ResourceInseminations     = "inseminations"
	ResourcePregnancies       = "pregnancies"
	ResourceInventory         = "inventory"
)

// AllResources se usa para expandir wildcards por rol.
var AllResources = []string{
	ResourceUsers,
	ResourceBreeds,
	ResourceCows,
	ResourceInseminators,
	ResourceWeights,
	ResourceCullings,
	ResourceQuarantines,
	ResourcePathogens,
	ResourceDiseaseCategories,
	ResourceSymptoms,
	ResourceDiseases,
	ResourceRecoveries,
	ResourceTreatments,
	ResourceLactations,
	ResourceMilk,
	ResourceHeats,
	ResourceInseminations,
	ResourcePregnancies,
	ResourceInventory,
}
