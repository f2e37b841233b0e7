package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/handlers"
)

func registerAuthRoutes(public, protected *gin.RouterGroup, handler *handlers.AuthHandler) {
	public.POST("/auth/login", handler.Login)
	protected.GET("/auth/me", handler.Me)
}
