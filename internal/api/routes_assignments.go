package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/handlers"
)

// Assignment guards depend on the entity type in the request and are
// enforced by the handler.
func registerAssignmentRoutes(api *gin.RouterGroup, handler *handlers.AssignmentHandler) {
	assignments := api.Group("/assignments")
	{
		assignments.POST("", handler.Create)
		assignments.GET("", handler.List)
		assignments.DELETE("/:id", handler.Delete)
	}
}
