package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/charlesng35/bizsuite/internal/auth"
	"github.com/charlesng35/bizsuite/internal/crm"
	"github.com/charlesng35/bizsuite/internal/handlers"
	"github.com/charlesng35/bizsuite/internal/middleware"
	"github.com/charlesng35/bizsuite/internal/monitoring"
	"github.com/charlesng35/bizsuite/internal/permissions"
	"github.com/charlesng35/bizsuite/internal/security"
	"github.com/charlesng35/bizsuite/internal/services"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	DB          *gorm.DB
	JWT         *iauth.JWTService
	Authorizer  *permissions.Authorizer
	Records     *crm.Repositories
	Users       *services.UserService
	Audit       *services.AuditService
	Permissions *services.PermissionService
	Teams       *services.TeamService
	Assignments *services.AssignmentService

	Security *security.Auditor
	Health   *monitoring.HealthManager
	Jobs     *monitoring.JobTracker

	// MetricsEnabled exposes /metrics.
	MetricsEnabled bool
}

func (d Dependencies) validate() error {
	switch {
	case d.DB == nil:
		return errors.New("database handle must be provided")
	case d.JWT == nil:
		return errors.New("jwt service must be provided")
	case d.Authorizer == nil:
		return errors.New("authorizer must be provided")
	case d.Records == nil:
		return errors.New("record repositories must be provided")
	case d.Health == nil || d.Security == nil:
		return errors.New("health manager and security auditor must be provided")
	case d.Users == nil || d.Audit == nil || d.Permissions == nil || d.Teams == nil || d.Assignments == nil:
		return errors.New("all services must be provided")
	}
	return nil
}

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())

	r.GET("/health", handlers.Health(deps.Health))
	if deps.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.Auth(deps.JWT, deps.Users))

	authHandler := handlers.NewAuthHandler(deps.Users, deps.JWT, deps.Authorizer)
	registerAuthRoutes(api, protected, authHandler)

	registerPermissionRoutes(protected, handlers.NewPermissionHandler(deps.Permissions, deps.Authorizer), deps.Authorizer)
	registerTeamRoutes(protected, handlers.NewTeamHandler(deps.Teams), deps.Authorizer)
	registerAssignmentRoutes(protected, handlers.NewAssignmentHandler(deps.Assignments, deps.Authorizer))
	registerAuditRoutes(protected, handlers.NewAuditHandler(deps.Audit), handlers.NewSecurityHandler(deps.Security), deps.Authorizer)

	if err := registerCRMRoutes(protected, deps); err != nil {
		return nil, err
	}

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
