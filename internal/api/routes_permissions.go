package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/handlers"
	"github.com/charlesng35/bizsuite/internal/middleware"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

func registerPermissionRoutes(api *gin.RouterGroup, handler *handlers.PermissionHandler, authz middleware.Evaluator) {
	settingsView := middleware.RequirePermission(authz, permissions.ModuleSettings, permissions.ActionView)
	usersView := middleware.RequirePermission(authz, permissions.ModuleUsers, permissions.ActionView)
	// Policy tables are administrator-only; module grants alone would let a
	// Manager raise its own role or overrides.
	adminOnly := middleware.RequireAdmin()

	perms := api.Group("/permissions")
	{
		perms.GET("/modules", settingsView, handler.Modules)
		perms.GET("/me", handler.Mine)
		perms.GET("/check", handler.Check)
		perms.GET("/roles/:role", settingsView, handler.RolePolicies)
		perms.PUT("/roles/:role", adminOnly, handler.SetRolePolicies)
		perms.GET("/users/:id/overrides", usersView, handler.Overrides)
		perms.PUT("/users/:id/overrides", adminOnly, handler.SetOverride)
		perms.DELETE("/users/:id/overrides", adminOnly, handler.RevokeOverride)
	}
}
