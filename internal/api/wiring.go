package api

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	iauth "github.com/charlesng35/bizsuite/internal/auth"
	"github.com/charlesng35/bizsuite/internal/crm"
	"github.com/charlesng35/bizsuite/internal/monitoring"
	"github.com/charlesng35/bizsuite/internal/monitoring/checks"
	"github.com/charlesng35/bizsuite/internal/permissions"
	"github.com/charlesng35/bizsuite/internal/security"
	"github.com/charlesng35/bizsuite/internal/services"
)

// EngineOptions tunes the authorization engine built by Wire.
type EngineOptions struct {
	ManagerEntityAccess bool
	ModuleCacheSize     int
	MetricsEnabled      bool
	Logger              *zap.Logger
}

// Wire builds the permission store, entity registry, authorizer and
// services on top of db.
func Wire(db *gorm.DB, jwt *iauth.JWTService, opts EngineOptions) (Dependencies, error) {
	store, err := permissions.NewGormStore(db)
	if err != nil {
		return Dependencies{}, err
	}

	registry := permissions.NewEntityRegistry()
	records, err := crm.RegisterEntities(registry, db)
	if err != nil {
		return Dependencies{}, fmt.Errorf("register entities: %w", err)
	}

	resolver, err := permissions.NewResolver(registry, store)
	if err != nil {
		return Dependencies{}, err
	}

	cache, err := permissions.NewModuleCache(store, opts.ModuleCacheSize)
	if err != nil {
		return Dependencies{}, err
	}

	authzOpts := []permissions.Option{
		permissions.WithManagerEntityAccess(opts.ManagerEntityAccess),
		permissions.WithModuleCache(cache),
	}
	if opts.Logger != nil {
		authzOpts = append(authzOpts, permissions.WithLogger(opts.Logger))
	}
	authorizer, err := permissions.NewAuthorizer(store, resolver, authzOpts...)
	if err != nil {
		return Dependencies{}, err
	}

	audit, err := services.NewAuditService(db)
	if err != nil {
		return Dependencies{}, err
	}
	users, err := services.NewUserService(db, audit)
	if err != nil {
		return Dependencies{}, err
	}
	perms, err := services.NewPermissionService(store, users, audit)
	if err != nil {
		return Dependencies{}, err
	}
	teams, err := services.NewTeamService(store, users, audit)
	if err != nil {
		return Dependencies{}, err
	}
	assignments, err := services.NewAssignmentService(store, registry, users, audit)
	if err != nil {
		return Dependencies{}, err
	}

	jobs := monitoring.NewJobTracker()
	health := monitoring.NewHealthManager(
		checks.Database(db, 0),
		checks.Catalog(store, len(permissions.Modules())),
		checks.Maintenance(jobs, 0),
	)

	return Dependencies{
		DB:             db,
		JWT:            jwt,
		Authorizer:     authorizer,
		Records:        records,
		Users:          users,
		Audit:          audit,
		Permissions:    perms,
		Teams:          teams,
		Assignments:    assignments,
		Security:       security.NewAuditor(db, jwt, opts.ManagerEntityAccess),
		Health:         health,
		Jobs:           jobs,
		MetricsEnabled: opts.MetricsEnabled,
	}, nil
}
