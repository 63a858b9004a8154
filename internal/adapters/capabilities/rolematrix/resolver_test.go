package rolematrix

import (
	"context"
	"testing"

	"dairy-farm-management/internal/domain/users"
	"dairy-farm-management/internal/ports/auth"
	c "dairy-farm-management/internal/ports/capabilities"

	"github.com/stretchr/testify/assert"
)

func claimsFor(role users.Role) auth.Claims {
	return auth.Claims{UserID: "u-" + string(role), Role: string(role)}
}

func TestResolver_DefaultMatrix(t *testing.T) {
	r := NewResolver(nil)
	ctx := context.Background()

	cases := []struct {
		role users.Role
		cap  c.Capability
		want bool
	}{
		{users.RoleFarmOwner, c.For(c.ResourceUsers, c.ActionDelete), true},
		{users.RoleFarmManager, c.For(c.ResourceCows, c.ActionDelete), true},
		{users.RoleFarmManager, c.For(c.ResourceUsers, c.ActionRead), true},
		{users.RoleFarmManager, c.For(c.ResourceUsers, c.ActionUpdate), false},
		{users.RoleAssistantFarmManager, c.For(c.ResourceWeights, c.ActionCreate), true},
		{users.RoleAssistantFarmManager, c.For(c.ResourceCullings, c.ActionCreate), false},
		{users.RoleAssistantFarmManager, c.For(c.ResourceInventory, c.ActionRead), false},
		{users.RoleTeamLeader, c.For(c.ResourceMilk, c.ActionUpdate), true},
		{users.RoleTeamLeader, c.For(c.ResourceMilk, c.ActionDelete), false},
		{users.RoleFarmWorker, c.For(c.ResourceCows, c.ActionRead), true},
		{users.RoleFarmWorker, c.For(c.ResourceCows, c.ActionCreate), false},
		{users.RoleFarmWorker, c.For(c.ResourceMilk, c.ActionCreate), true},
	}

	for _, tc := range cases {
		got := r.Has(ctx, claimsFor(tc.role), tc.cap)
		assert.Equalf(t, tc.want, got, "%s %s", tc.role, tc.cap)
	}
}

func TestResolver_UnknownRoleOrAnonymous(t *testing.T) {
	r := NewResolver(nil)
	ctx := context.Background()

	assert.False(t, r.Has(ctx, auth.Claims{UserID: "x", Role: "vet"}, c.For(c.ResourceCows, c.ActionRead)))
	assert.False(t, r.Has(ctx, auth.Claims{Role: string(users.RoleFarmOwner)}, c.For(c.ResourceCows, c.ActionRead)))
}
