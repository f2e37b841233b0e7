package permissions

import (
	"context"
	"errors"

	"github.com/charlesng35/bizsuite/internal/models"
)

var (
	// ErrNotFound is returned by write operations that reference a missing row.
	// Read lookups never return it; they return nil for absent rows.
	ErrNotFound = errors.New("permissions: record not found")
	// ErrDuplicate signals a uniqueness violation (e.g. repeated team membership).
	ErrDuplicate = errors.New("permissions: record already exists")
	// ErrCatalogExists is returned by SeedCatalog when modules are already
	// stored, including when a concurrent seeder inserts them first.
	ErrCatalogExists = errors.New("permissions: module catalog already seeded")
)

// RoleChange is one role policy write, keyed by stored module ID.
type RoleChange struct {
	ModuleID uint
	Action   Action
	Allowed  bool
}

// ModuleLookup resolves a module by exact name, returning nil when absent.
type ModuleLookup interface {
	GetModuleByName(ctx context.Context, name string) (*models.Module, error)
}

// PolicyStore persists the module catalog, role policies and user overrides.
type PolicyStore interface {
	ModuleLookup

	CountModules(ctx context.Context) (int64, error)
	ListModules(ctx context.Context) ([]models.Module, error)
	// SeedCatalog stores modules and their policy rows atomically. It returns
	// ErrCatalogExists when any module row is already present.
	SeedCatalog(ctx context.Context, modules []models.Module, policies []PolicySeed) error

	GetRolePermission(ctx context.Context, role Role, moduleID uint, action Action) (*models.RolePermission, error)
	SetRolePermission(ctx context.Context, role Role, moduleID uint, action Action, allowed bool) (*models.RolePermission, error)
	// SetRolePermissions applies changes as one unit; on error no row is
	// modified.
	SetRolePermissions(ctx context.Context, role Role, changes []RoleChange) ([]models.RolePermission, error)
	ListRolePermissions(ctx context.Context, role Role) ([]models.RolePermission, error)

	GetUserPermission(ctx context.Context, userID, moduleID uint, action Action) (*models.UserPermission, error)
	SetUserPermission(ctx context.Context, override models.UserPermission) (*models.UserPermission, error)
	DeleteUserPermission(ctx context.Context, userID, moduleID uint, action Action) (bool, error)
	ListUserPermissions(ctx context.Context, userID uint) ([]models.UserPermission, error)
}

// TeamStore persists teams and their members.
type TeamStore interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id uint) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	DeleteTeam(ctx context.Context, id uint) (bool, error)
	AddTeamMember(ctx context.Context, teamID, userID uint) (*models.TeamMember, error)
	RemoveTeamMember(ctx context.Context, teamID, userID uint) (bool, error)
	ListTeamMembers(ctx context.Context, teamID uint) ([]models.TeamMember, error)
	ListUserTeamIDs(ctx context.Context, userID uint) ([]uint, error)
}

// AssignmentStore persists explicit entity grants to users and teams.
type AssignmentStore interface {
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	GetAssignment(ctx context.Context, id uint) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, id uint) (bool, error)
	ListAssignments(ctx context.Context, entityType string, entityID uint) ([]models.Assignment, error)
	HasUserAssignment(ctx context.Context, userID uint, entityType string, entityID uint) (bool, error)
	HasTeamAssignment(ctx context.Context, teamIDs []uint, entityType string, entityID uint) (bool, error)
}

// Store is the full repository implemented by the in-memory and GORM backends.
type Store interface {
	PolicyStore
	TeamStore
	AssignmentStore
}

// AccessStore is the read surface the entity resolver depends on.
type AccessStore interface {
	ListUserTeamIDs(ctx context.Context, userID uint) ([]uint, error)
	HasUserAssignment(ctx context.Context, userID uint, entityType string, entityID uint) (bool, error)
	HasTeamAssignment(ctx context.Context, teamIDs []uint, entityType string, entityID uint) (bool, error)
}
