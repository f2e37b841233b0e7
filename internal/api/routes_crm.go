package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"

	"github.com/charlesng35/bizsuite/internal/handlers"
	"github.com/charlesng35/bizsuite/internal/middleware"
	"github.com/charlesng35/bizsuite/internal/permissions"
	"github.com/charlesng35/bizsuite/internal/services"
)

func registerCRMRoutes(api *gin.RouterGroup, deps Dependencies) error {
	leads, errLeads := services.NewRecordService(deps.Records.Leads, deps.Authorizer, deps.Users, deps.Audit)
	contacts, errContacts := services.NewRecordService(deps.Records.Contacts, deps.Authorizer, deps.Users, deps.Audit)
	accounts, errAccounts := services.NewRecordService(deps.Records.Accounts, deps.Authorizer, deps.Users, deps.Audit)
	opportunities, errOpportunities := services.NewRecordService(deps.Records.Opportunities, deps.Authorizer, deps.Users, deps.Audit)
	if err := multierr.Combine(errLeads, errContacts, errAccounts, errOpportunities); err != nil {
		return err
	}

	registerRecordRoutes(api, "/leads", leads, deps.Authorizer)
	registerRecordRoutes(api, "/contacts", contacts, deps.Authorizer)
	registerRecordRoutes(api, "/accounts", accounts, deps.Authorizer)
	registerRecordRoutes(api, "/opportunities", opportunities, deps.Authorizer)
	return nil
}

func registerRecordRoutes[T any](api *gin.RouterGroup, path string, svc *services.RecordService[T], authz middleware.Evaluator) {
	handler := handlers.NewRecordHandler(svc)
	module, entityType := svc.Module(), svc.EntityType()
	owns := middleware.RequireEntityAccess(authz, entityType, "id")

	group := api.Group(path)
	{
		group.GET("", middleware.RequirePermission(authz, module, permissions.ActionView), handler.List)
		group.POST("", middleware.RequirePermission(authz, module, permissions.ActionCreate), handler.Create)
		group.GET("/:id", middleware.RequirePermission(authz, module, permissions.ActionView), owns, handler.Get)
		group.PATCH("/:id/owner", middleware.RequirePermission(authz, module, permissions.ActionUpdate), owns, handler.Reassign)
	}
}
