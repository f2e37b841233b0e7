package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
	apperrors "github.com/charlesng35/bizsuite/pkg/errors"
)

// PolicyChange sets one module/action decision.
type PolicyChange struct {
	Module  string
	Action  string
	Allowed bool
}

// PermissionService administers role policies and per-user overrides.
type PermissionService struct {
	store        permissions.PolicyStore
	users        *UserService
	auditService *AuditService
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(store permissions.PolicyStore, users *UserService, audit *AuditService) (*PermissionService, error) {
	if store == nil {
		return nil, errors.New("permission service: store is required")
	}
	if users == nil {
		return nil, errors.New("permission service: user service is required")
	}
	return &PermissionService{store: store, users: users, auditService: audit}, nil
}

// ListModules returns the stored module catalog.
func (s *PermissionService) ListModules(ctx context.Context) ([]models.Module, error) {
	ctx = ensureContext(ctx)

	modules, err := s.store.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("permission service: list modules: %w", err)
	}
	return modules, nil
}

// ListRolePermissions returns every policy row for role.
func (s *PermissionService) ListRolePermissions(ctx context.Context, role string) ([]models.RolePermission, error) {
	ctx = ensureContext(ctx)

	parsed, ok := permissions.ParseRole(role)
	if !ok {
		return nil, ErrInvalidRole
	}
	rows, err := s.store.ListRolePermissions(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("permission service: list role policies: %w", err)
	}
	return rows, nil
}

// SetRolePermissions applies changes to role's policy rows. All changes are
// validated first and written in a single store transaction.
func (s *PermissionService) SetRolePermissions(ctx context.Context, role string, changes []PolicyChange) ([]models.RolePermission, error) {
	ctx = ensureContext(ctx)

	parsed, ok := permissions.ParseRole(role)
	if !ok {
		return nil, ErrInvalidRole
	}
	if len(changes) == 0 {
		return nil, apperrors.NewBadRequest("at least one change is required")
	}

	type resolved struct {
		module  *models.Module
		action  permissions.Action
		allowed bool
	}
	plan := make([]resolved, 0, len(changes))
	for _, change := range changes {
		module, action, err := s.resolve(ctx, change.Module, change.Action)
		if err != nil {
			return nil, err
		}
		plan = append(plan, resolved{module: module, action: action, allowed: change.Allowed})
	}

	batch := make([]permissions.RoleChange, 0, len(plan))
	for _, step := range plan {
		batch = append(batch, permissions.RoleChange{ModuleID: step.module.ID, Action: step.action, Allowed: step.allowed})
	}
	rows, err := s.store.SetRolePermissions(ctx, parsed, batch)
	if err != nil {
		return nil, fmt.Errorf("permission service: set role policy: %w", err)
	}

	for _, step := range plan {
		recordAudit(s.auditService, ctx, AuditEntry{
			Action:   "permission.role.set",
			Resource: "role:" + string(parsed),
			Result:   AuditSuccess,
			Metadata: map[string]any{
				"module":  step.module.Name,
				"action":  string(step.action),
				"allowed": step.allowed,
			},
		})
	}

	return rows, nil
}

// ListOverrides returns the overrides held by userID.
func (s *PermissionService) ListOverrides(ctx context.Context, userID uint) ([]models.UserPermission, error) {
	ctx = ensureContext(ctx)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.store.ListUserPermissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("permission service: list overrides: %w", err)
	}
	return rows, nil
}

// SetOverride grants or revokes module/action for userID regardless of role.
func (s *PermissionService) SetOverride(ctx context.Context, userID uint, change PolicyChange) (*models.UserPermission, error) {
	ctx = ensureContext(ctx)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	module, action, err := s.resolve(ctx, change.Module, change.Action)
	if err != nil {
		return nil, err
	}

	row, err := s.store.SetUserPermission(ctx, models.UserPermission{
		UserID:    userID,
		ModuleID:  module.ID,
		Action:    string(action),
		IsAllowed: change.Allowed,
		GrantedBy: actorID(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("permission service: set override: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "permission.override.set",
		Resource: fmt.Sprintf("user:%d", userID),
		Result:   AuditSuccess,
		Metadata: map[string]any{
			"module":  module.Name,
			"action":  string(action),
			"allowed": change.Allowed,
		},
	})

	return row, nil
}

// RevokeOverride removes the override so the role policy applies again.
func (s *PermissionService) RevokeOverride(ctx context.Context, userID uint, moduleName, actionName string) error {
	ctx = ensureContext(ctx)

	module, action, err := s.resolve(ctx, moduleName, actionName)
	if err != nil {
		return err
	}

	removed, err := s.store.DeleteUserPermission(ctx, userID, module.ID, action)
	if err != nil {
		return fmt.Errorf("permission service: revoke override: %w", err)
	}
	if !removed {
		return ErrOverrideNotFound
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "permission.override.revoke",
		Resource: fmt.Sprintf("user:%d", userID),
		Result:   AuditSuccess,
		Metadata: map[string]any{
			"module": module.Name,
			"action": string(action),
		},
	})
	return nil
}

func (s *PermissionService) resolve(ctx context.Context, moduleName, actionName string) (*models.Module, permissions.Action, error) {
	action, ok := permissions.ParseAction(strings.TrimSpace(actionName))
	if !ok {
		return nil, "", ErrInvalidAction
	}

	module, err := s.store.GetModuleByName(ctx, strings.TrimSpace(moduleName))
	if err != nil {
		return nil, "", fmt.Errorf("permission service: load module: %w", err)
	}
	if module == nil {
		return nil, "", ErrModuleNotFound
	}
	return module, action, nil
}

func (s *PermissionService) requireUser(ctx context.Context, userID uint) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}
