package capabilities

import (
	"context"

	"dairy-farm-management/internal/ports/auth"
)

// Capability tiene la forma "<recurso>:<acción>", p.ej. "cows:create".
type Capability string

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// For arma la capability de un recurso + acción.
func For(resource, action string) Capability {
	return Capability(resource + ":" + action)
}

type Resolver interface {
	Has(ctx context.Context, claims auth.Claims, capability Capability) bool
}
