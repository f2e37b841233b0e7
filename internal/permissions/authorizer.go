package permissions

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/charlesng35/bizsuite/pkg/logger"
	"github.com/charlesng35/bizsuite/pkg/metrics"
)

// Authorizer combines role policies, user overrides and entity grants into
// the two decisions route guards consume. Decisions are plain booleans: any
// storage failure is logged and resolves to false.
type Authorizer struct {
	store               PolicyStore
	modules             ModuleLookup
	resolver            *Resolver
	log                 *zap.Logger
	managerEntityAccess bool
}

// Option configures an Authorizer.
type Option func(*Authorizer)

// WithLogger overrides the logger used for swallowed lookup failures.
func WithLogger(log *zap.Logger) Option {
	return func(a *Authorizer) {
		if log != nil {
			a.log = log
		}
	}
}

// WithManagerEntityAccess toggles the blanket entity grant for Managers.
func WithManagerEntityAccess(enabled bool) Option {
	return func(a *Authorizer) {
		a.managerEntityAccess = enabled
	}
}

// WithModuleCache routes module lookups through cache instead of the store.
func WithModuleCache(cache *ModuleCache) Option {
	return func(a *Authorizer) {
		if cache != nil {
			a.modules = cache
		}
	}
}

// NewAuthorizer constructs the facade. Managers keep blanket entity access
// unless WithManagerEntityAccess(false) is supplied.
func NewAuthorizer(store PolicyStore, resolver *Resolver, opts ...Option) (*Authorizer, error) {
	if store == nil {
		return nil, errors.New("authorizer: store is required")
	}
	if resolver == nil {
		return nil, errors.New("authorizer: resolver is required")
	}

	a := &Authorizer{
		store:               store,
		modules:             store,
		resolver:            resolver,
		log:                 logger.WithModule("authz"),
		managerEntityAccess: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ManagerEntityAccess reports whether Managers bypass entity checks.
func (a *Authorizer) ManagerEntityAccess() bool {
	return a.managerEntityAccess
}

// HasPermission reports whether the caller in ctx may perform action on module.
func (a *Authorizer) HasPermission(ctx context.Context, module string, action Action) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		a.recordPermission(module, action, metrics.ResultDenied)
		return false
	}

	allowed, err := a.CheckPermission(ctx, principal, module, action)
	if err != nil {
		a.log.Error("permission check failed",
			zap.Uint("user_id", principal.UserID),
			zap.String("module", module),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		a.recordPermission(module, action, metrics.ResultError)
		return false
	}

	if allowed {
		a.recordPermission(module, action, metrics.ResultAllowed)
	} else {
		a.recordPermission(module, action, metrics.ResultDenied)
	}
	return allowed
}

// CheckPermission evaluates a module/action for principal, surfacing storage
// errors to the caller. Resolution order: admin bypass, user override, role
// policy, then deny.
func (a *Authorizer) CheckPermission(ctx context.Context, principal Principal, module string, action Action) (bool, error) {
	ctx = ensureContext(ctx)

	if !principal.Authenticated() {
		return false, nil
	}
	if principal.Role == RoleAdmin {
		return true, nil
	}
	if _, ok := ParseAction(string(action)); !ok {
		return false, nil
	}

	mod, err := a.modules.GetModuleByName(ctx, module)
	if err != nil {
		return false, fmt.Errorf("load module: %w", err)
	}
	if mod == nil {
		return false, nil
	}

	override, err := a.store.GetUserPermission(ctx, principal.UserID, mod.ID, action)
	if err != nil {
		return false, fmt.Errorf("load user override: %w", err)
	}
	if override != nil {
		return override.IsAllowed, nil
	}

	policy, err := a.store.GetRolePermission(ctx, principal.Role, mod.ID, action)
	if err != nil {
		return false, fmt.Errorf("load role policy: %w", err)
	}
	if policy != nil {
		return policy.IsAllowed, nil
	}
	return false, nil
}

// HasEntityAccess reports whether the caller in ctx may access the entity.
func (a *Authorizer) HasEntityAccess(ctx context.Context, entityType string, entityID uint) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		a.recordEntity(entityType, metrics.ResultDenied)
		return false
	}

	allowed, err := a.CheckEntityAccess(ctx, principal, entityType, entityID)
	if err != nil {
		a.log.Error("entity access check failed",
			zap.Uint("user_id", principal.UserID),
			zap.String("entity_type", entityType),
			zap.Uint("entity_id", entityID),
			zap.Error(err),
		)
		a.recordEntity(entityType, metrics.ResultError)
		return false
	}

	if allowed {
		a.recordEntity(entityType, metrics.ResultAllowed)
	} else {
		a.recordEntity(entityType, metrics.ResultDenied)
	}
	return allowed
}

// CheckEntityAccess evaluates entity access for principal. Resolution order:
// admin bypass, ownership or direct assignment, team assignment, manager
// grant, then deny.
func (a *Authorizer) CheckEntityAccess(ctx context.Context, principal Principal, entityType string, entityID uint) (bool, error) {
	ctx = ensureContext(ctx)

	if !principal.Authenticated() {
		return false, nil
	}
	if principal.Role == RoleAdmin {
		return true, nil
	}

	direct, err := a.resolver.CheckUserEntityAccess(ctx, principal.UserID, entityType, entityID)
	if err != nil {
		return false, err
	}
	if direct {
		return true, nil
	}

	viaTeam, err := a.resolver.CheckTeamEntityAccess(ctx, principal.UserID, entityType, entityID)
	if err != nil {
		return false, err
	}
	if viaTeam {
		return true, nil
	}

	if principal.Role == RoleManager && a.managerEntityAccess {
		return true, nil
	}
	return false, nil
}

// EffectivePermissions lists the allowed actions per module for the caller
// in ctx, applying the same precedence as CheckPermission.
func (a *Authorizer) EffectivePermissions(ctx context.Context) (map[string][]Action, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return map[string][]Action{}, nil
	}
	return a.EffectivePermissionsFor(ctx, principal)
}

// EffectivePermissionsFor is EffectivePermissions for an explicit principal.
func (a *Authorizer) EffectivePermissionsFor(ctx context.Context, principal Principal) (map[string][]Action, error) {
	ctx = ensureContext(ctx)
	result := make(map[string][]Action)
	if !principal.Authenticated() {
		return result, nil
	}

	modules, err := a.store.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("effective permissions: list modules: %w", err)
	}

	if principal.Role == RoleAdmin {
		for _, mod := range modules {
			result[mod.Name] = AllActions()
		}
		return result, nil
	}

	policies, err := a.store.ListRolePermissions(ctx, principal.Role)
	if err != nil {
		return nil, fmt.Errorf("effective permissions: role policies: %w", err)
	}
	overrides, err := a.store.ListUserPermissions(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("effective permissions: user overrides: %w", err)
	}

	type key struct {
		moduleID uint
		action   Action
	}
	decisions := make(map[key]bool, len(policies)+len(overrides))
	for _, p := range policies {
		decisions[key{p.ModuleID, Action(p.Action)}] = p.IsAllowed
	}
	for _, o := range overrides {
		decisions[key{o.ModuleID, Action(o.Action)}] = o.IsAllowed
	}

	for _, mod := range modules {
		var allowed []Action
		for _, action := range allActions {
			if decisions[key{mod.ID, action}] {
				allowed = append(allowed, action)
			}
		}
		if len(allowed) > 0 {
			result[mod.Name] = allowed
		}
	}
	return result, nil
}

func (a *Authorizer) recordPermission(module string, action Action, result string) {
	if _, ok := LookupModule(module); !ok {
		module = "unknown"
	}
	label := string(action)
	if _, ok := ParseAction(label); !ok {
		label = "unknown"
	}
	metrics.PermissionChecks.WithLabelValues(module, label, result).Inc()
}

func (a *Authorizer) recordEntity(entityType, result string) {
	if !a.resolver.Entities().Has(entityType) {
		entityType = "unknown"
	}
	metrics.EntityAccessChecks.WithLabelValues(entityType, result).Inc()
}
