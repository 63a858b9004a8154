package rolematrix

import (
	"context"
	"strings"

	"dairy-farm-management/internal/domain/users"
	"dairy-farm-management/internal/ports/auth"
	"dairy-farm-management/internal/ports/capabilities"
)

// Resolver implementa capabilities.Resolver con una matriz estática por rol.
type Resolver struct {
	grants map[users.Role]map[capabilities.Capability]struct{}
}

func NewResolver(m Matrix) *Resolver {
	if m == nil {
		m = Default()
	}
	grants := make(map[users.Role]map[capabilities.Capability]struct{}, len(m))
	for role, caps := range m {
		set := make(map[capabilities.Capability]struct{}, len(caps))
		for _, c := range caps {
			set[capabilities.Capability(strings.TrimSpace(string(c)))] = struct{}{}
		}
		grants[role] = set
	}
	return &Resolver{grants: grants}
}

func (r *Resolver) Has(_ context.Context, claims auth.Claims, capability capabilities.Capability) bool {
	if r == nil || strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	set, ok := r.grants[users.Role(claims.Role)]
	if !ok {
		return false
	}
	if _, ok := set["*"]; ok {
		return true
	}
	if _, ok := set[capability]; ok {
		return true
	}

	resource, _, found := strings.Cut(string(capability), ":")
	if !found {
		return false
	}
	_, ok = set[capabilities.Capability(resource+":*")]
	return ok
}
