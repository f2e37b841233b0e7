package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/handlers"
	"github.com/charlesng35/bizsuite/internal/middleware"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

func registerAuditRoutes(api *gin.RouterGroup, handler *handlers.AuditHandler, security *handlers.SecurityHandler, authz middleware.Evaluator) {
	settingsView := middleware.RequirePermission(authz, permissions.ModuleSettings, permissions.ActionView)

	api.GET("/audit", settingsView, handler.List)
	api.GET("/security/audit", settingsView, security.Audit)
}
