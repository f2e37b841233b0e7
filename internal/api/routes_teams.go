package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/handlers"
	"github.com/charlesng35/bizsuite/internal/middleware"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

func registerTeamRoutes(api *gin.RouterGroup, teamHandler *handlers.TeamHandler, authz middleware.Evaluator) {
	view := middleware.RequirePermission(authz, permissions.ModuleTeams, permissions.ActionView)
	manage := middleware.RequirePermission(authz, permissions.ModuleTeams, permissions.ActionUpdate)

	teams := api.Group("/teams")
	{
		teams.GET("", view, teamHandler.List)
		teams.GET("/:id", view, teamHandler.Get)
		teams.POST("", middleware.RequirePermission(authz, permissions.ModuleTeams, permissions.ActionCreate), teamHandler.Create)
		teams.DELETE("/:id", middleware.RequirePermission(authz, permissions.ModuleTeams, permissions.ActionDelete), teamHandler.Delete)
		teams.POST("/:id/members", manage, teamHandler.AddMember)
		teams.DELETE("/:id/members/:user_id", manage, teamHandler.RemoveMember)
	}
}
