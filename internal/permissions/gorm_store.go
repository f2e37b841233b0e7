package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/bizsuite/internal/models"
)

// GormStore persists the authorization tables through GORM.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore constructs a GormStore backed by the provided database.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("permission store: db is required")
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ensureContext(ctx))
}

func (s *GormStore) CountModules(ctx context.Context) (int64, error) {
	var count int64
	if err := s.conn(ctx).Model(&models.Module{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("permission store: count modules: %w", err)
	}
	return count, nil
}

func (s *GormStore) ListModules(ctx context.Context) ([]models.Module, error) {
	var modules []models.Module
	if err := s.conn(ctx).Order("order_index ASC, name ASC").Find(&modules).Error; err != nil {
		return nil, fmt.Errorf("permission store: list modules: %w", err)
	}
	return modules, nil
}

func (s *GormStore) GetModuleByName(ctx context.Context, name string) (*models.Module, error) {
	var module models.Module
	err := s.conn(ctx).Where("name = ?", name).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("permission store: get module %q: %w", name, err)
	}
	// Some collations compare case-insensitively; names must match exactly.
	if module.Name != name {
		return nil, nil
	}
	return &module, nil
}

func (s *GormStore) SeedCatalog(ctx context.Context, modules []models.Module, policies []PolicySeed) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Module{}).Count(&existing).Error; err != nil {
			return fmt.Errorf("permission store: probe modules: %w", err)
		}
		if existing > 0 {
			return ErrCatalogExists
		}

		if len(modules) == 0 {
			return nil
		}
		if err := tx.Create(&modules).Error; err != nil {
			if isUniqueConstraintError(err) {
				// A concurrent seeder committed first.
				return ErrCatalogExists
			}
			return fmt.Errorf("permission store: insert modules: %w", err)
		}

		byName := make(map[string]uint, len(modules))
		for _, m := range modules {
			byName[m.Name] = m.ID
		}

		rows := make([]models.RolePermission, 0, len(policies))
		for _, seed := range policies {
			moduleID, ok := byName[seed.Module]
			if !ok {
				return fmt.Errorf("permission store: policy references unknown module %q", seed.Module)
			}
			rows = append(rows, models.RolePermission{
				Role:      string(seed.Role),
				ModuleID:  moduleID,
				Action:    string(seed.Action),
				IsAllowed: seed.IsAllowed,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, 200).Error; err != nil {
			return fmt.Errorf("permission store: insert role policies: %w", mapWriteError(err))
		}
		return nil
	})
}

func (s *GormStore) GetRolePermission(ctx context.Context, role Role, moduleID uint, action Action) (*models.RolePermission, error) {
	var row models.RolePermission
	err := s.conn(ctx).
		Where("role = ? AND module_id = ? AND action = ?", string(role), moduleID, string(action)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("permission store: get role policy: %w", err)
	}
	return &row, nil
}

func (s *GormStore) SetRolePermission(ctx context.Context, role Role, moduleID uint, action Action, allowed bool) (*models.RolePermission, error) {
	rows, err := s.SetRolePermissions(ctx, role, []RoleChange{{ModuleID: moduleID, Action: action, Allowed: allowed}})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *GormStore) SetRolePermissions(ctx context.Context, role Role, changes []RoleChange) ([]models.RolePermission, error) {
	rows := make([]models.RolePermission, 0, len(changes))
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, change := range changes {
			row, err := upsertRolePermission(tx, role, change)
			if err != nil {
				return err
			}
			rows = append(rows, *row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func upsertRolePermission(tx *gorm.DB, role Role, change RoleChange) (*models.RolePermission, error) {
	if err := requireModule(tx, change.ModuleID); err != nil {
		return nil, err
	}

	row := models.RolePermission{
		Role:      string(role),
		ModuleID:  change.ModuleID,
		Action:    string(change.Action),
		IsAllowed: change.Allowed,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role"}, {Name: "module_id"}, {Name: "action"}},
		DoUpdates: clause.Assignments(map[string]any{"is_allowed": change.Allowed, "updated_at": time.Now()}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("permission store: upsert role policy: %w", err)
	}

	var stored models.RolePermission
	err = tx.Where("role = ? AND module_id = ? AND action = ?", string(role), change.ModuleID, string(change.Action)).
		First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("permission store: role policy vanished after upsert")
	}
	if err != nil {
		return nil, fmt.Errorf("permission store: get role policy: %w", err)
	}
	return &stored, nil
}

func (s *GormStore) ListRolePermissions(ctx context.Context, role Role) ([]models.RolePermission, error) {
	var rows []models.RolePermission
	if err := s.conn(ctx).Where("role = ?", string(role)).Order("module_id ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("permission store: list role policies: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetUserPermission(ctx context.Context, userID, moduleID uint, action Action) (*models.UserPermission, error) {
	var row models.UserPermission
	err := s.conn(ctx).
		Where("user_id = ? AND module_id = ? AND action = ?", userID, moduleID, string(action)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("permission store: get user override: %w", err)
	}
	return &row, nil
}

func (s *GormStore) SetUserPermission(ctx context.Context, override models.UserPermission) (*models.UserPermission, error) {
	if err := requireModule(s.conn(ctx), override.ModuleID); err != nil {
		return nil, err
	}

	override.ID = 0
	override.Module = nil
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "module_id"}, {Name: "action"}},
		DoUpdates: clause.Assignments(map[string]any{
			"is_allowed": override.IsAllowed,
			"granted_by": override.GrantedBy,
			"updated_at": time.Now(),
		}),
	}).Create(&override).Error
	if err != nil {
		return nil, fmt.Errorf("permission store: upsert user override: %w", err)
	}

	stored, err := s.GetUserPermission(ctx, override.UserID, override.ModuleID, Action(override.Action))
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("permission store: user override vanished after upsert")
	}
	return stored, nil
}

func (s *GormStore) DeleteUserPermission(ctx context.Context, userID, moduleID uint, action Action) (bool, error) {
	res := s.conn(ctx).
		Where("user_id = ? AND module_id = ? AND action = ?", userID, moduleID, string(action)).
		Delete(&models.UserPermission{})
	if res.Error != nil {
		return false, fmt.Errorf("permission store: delete user override: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListUserPermissions(ctx context.Context, userID uint) ([]models.UserPermission, error) {
	var rows []models.UserPermission
	if err := s.conn(ctx).Preload("Module").Where("user_id = ?", userID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("permission store: list user overrides: %w", err)
	}
	return rows, nil
}

func (s *GormStore) CreateTeam(ctx context.Context, team *models.Team) error {
	team.ID = 0
	team.Members = nil
	if err := s.conn(ctx).Create(team).Error; err != nil {
		return fmt.Errorf("permission store: create team: %w", mapWriteError(err))
	}
	return nil
}

func (s *GormStore) GetTeam(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	err := s.conn(ctx).First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("permission store: get team: %w", err)
	}
	return &team, nil
}

func (s *GormStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.conn(ctx).Order("name ASC").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("permission store: list teams: %w", err)
	}
	return teams, nil
}

func (s *GormStore) DeleteTeam(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assigned_to_type = ? AND assigned_to_id = ?", models.AssigneeTeam, id).
			Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Team{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("permission store: delete team: %w", err)
	}
	return deleted, nil
}

func (s *GormStore) AddTeamMember(ctx context.Context, teamID, userID uint) (*models.TeamMember, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrNotFound
	}

	member := &models.TeamMember{TeamID: teamID, UserID: userID}
	if err := s.conn(ctx).Create(member).Error; err != nil {
		return nil, fmt.Errorf("permission store: add team member: %w", mapWriteError(err))
	}
	return member, nil
}

func (s *GormStore) RemoveTeamMember(ctx context.Context, teamID, userID uint) (bool, error) {
	res := s.conn(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMember{})
	if res.Error != nil {
		return false, fmt.Errorf("permission store: remove team member: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListTeamMembers(ctx context.Context, teamID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := s.conn(ctx).Where("team_id = ?", teamID).Order("user_id ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("permission store: list team members: %w", err)
	}
	return members, nil
}

func (s *GormStore) ListUserTeamIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := s.conn(ctx).Model(&models.TeamMember{}).
		Where("user_id = ?", userID).
		Order("team_id ASC").
		Pluck("team_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("permission store: list user teams: %w", err)
	}
	return ids, nil
}

func (s *GormStore) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = 0
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now()
	}
	if err := s.conn(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("permission store: create assignment: %w", mapWriteError(err))
	}
	return nil
}

func (s *GormStore) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	var a models.Assignment
	err := s.conn(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("permission store: get assignment: %w", err)
	}
	return &a, nil
}

func (s *GormStore) DeleteAssignment(ctx context.Context, id uint) (bool, error) {
	res := s.conn(ctx).Delete(&models.Assignment{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("permission store: delete assignment: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListAssignments(ctx context.Context, entityType string, entityID uint) ([]models.Assignment, error) {
	var rows []models.Assignment
	if err := s.conn(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("permission store: list assignments: %w", err)
	}
	return rows, nil
}

func (s *GormStore) HasUserAssignment(ctx context.Context, userID uint, entityType string, entityID uint) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Assignment{}).
		Where("entity_type = ? AND entity_id = ? AND assigned_to_type = ? AND assigned_to_id = ?",
			entityType, entityID, models.AssigneeUser, userID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("permission store: check user assignment: %w", err)
	}
	return count > 0, nil
}

// HasTeamAssignment matches against every team in teamIDs, not just the first.
func (s *GormStore) HasTeamAssignment(ctx context.Context, teamIDs []uint, entityType string, entityID uint) (bool, error) {
	if len(teamIDs) == 0 {
		return false, nil
	}

	var count int64
	err := s.conn(ctx).Model(&models.Assignment{}).
		Where("entity_type = ? AND entity_id = ? AND assigned_to_type = ? AND assigned_to_id IN ?",
			entityType, entityID, models.AssigneeTeam, teamIDs).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("permission store: check team assignment: %w", err)
	}
	return count > 0, nil
}

func requireModule(db *gorm.DB, moduleID uint) error {
	var count int64
	if err := db.Model(&models.Module{}).Where("id = ?", moduleID).Count(&count).Error; err != nil {
		return fmt.Errorf("permission store: load module: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// isUniqueConstraintError matches translated duplicate-key errors as well as
// raw driver messages from connections opened without TranslateError.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "duplicate key") ||
		strings.Contains(lower, "duplicate entry")
}
