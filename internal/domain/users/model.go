package users

import "time"

// Role define el rol del usuario dentro de la granja.
// @Enum farm_owner, farm_manager, assistant_farm_manager, team_leader, farm_worker
type Role string

const (
	RoleFarmOwner            Role = "farm_owner"
	RoleFarmManager          Role = "farm_manager"
	RoleAssistantFarmManager Role = "assistant_farm_manager"
	RoleTeamLeader           Role = "team_leader"
	RoleFarmWorker           Role = "farm_worker"
)

var Roles = []Role{
	RoleFarmOwner,
	RoleFarmManager,
	RoleAssistantFarmManager,
	RoleTeamLeader,
	RoleFarmWorker,
}

func (r Role) Valid() bool {
	for _, x := range Roles {
		if x == r {
			return true
		}
	}
	return false
}

type User struct {
	ID string

	Email     string // único, en minúsculas
	Username  string
	FirstName string
	LastName  string

	PasswordHash string
	Role         Role
	IsActive     bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// Session guarda solo el hash del token; el token plano se entrega una vez.
type Session struct {
	TokenHash string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}
