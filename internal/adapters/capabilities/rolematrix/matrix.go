package rolematrix

import (
	"dairy-farm-management/internal/domain/users"
	c "dairy-farm-management/internal/ports/capabilities"
)

// Matrix asocia cada rol con sus capabilities. Soporta "*" y "<recurso>:*".
type Matrix map[users.Role][]c.Capability

func all(resource string) c.Capability  { return c.Capability(resource + ":*") }
func read(resource string) c.Capability { return c.For(resource, c.ActionRead) }

// Default es la matriz de la granja.
// Inventario y recuperaciones quedan solo para owner y manager.
func Default() Matrix {
	manager := []c.Capability{read(c.ResourceUsers)}
	for _, res := range c.AllResources {
		if res == c.ResourceUsers {
			continue
		}
		manager = append(manager, all(res))
	}

	return Matrix{
		users.RoleFarmOwner:   {"*"},
		users.RoleFarmManager: manager,
		users.RoleAssistantFarmManager: {
			read(c.ResourceBreeds),
			read(c.ResourceCows),
			read(c.ResourceInseminators),
			read(c.ResourcePathogens),
			read(c.ResourceDiseaseCategories),
			read(c.ResourceSymptoms),
			read(c.ResourceDiseases),
			read(c.ResourceTreatments),
			read(c.ResourceLactations),
			read(c.ResourceInseminations),
			read(c.ResourcePregnancies),
			all(c.ResourceWeights),
			all(c.ResourceQuarantines),
			all(c.ResourceMilk),
			all(c.ResourceHeats),
		},
		users.RoleTeamLeader: {
			read(c.ResourceBreeds),
			read(c.ResourceCows),
			read(c.ResourceWeights),
			read(c.ResourceQuarantines),
			read(c.ResourceLactations),
			read(c.ResourceMilk),
			read(c.ResourceHeats),
			c.For(c.ResourceMilk, c.ActionCreate),
			c.For(c.ResourceMilk, c.ActionUpdate),
			c.For(c.ResourceHeats, c.ActionCreate),
		},
		users.RoleFarmWorker: {
			read(c.ResourceBreeds),
			read(c.ResourceCows),
			read(c.ResourceMilk),
			c.For(c.ResourceMilk, c.ActionCreate),
		},
	}
}
