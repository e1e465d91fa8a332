package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"liveerd/internal/handlers"
)

func RegisterRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	googleAuthHandler *handlers.GoogleAuthHandler,
	userHandler *handlers.UserHandler,
	diagramHandler *handlers.DiagramHandler,
	realtimeHandler *handlers.RealtimeHandler,
) {
	api := router.Group("/api/v1")

	NewAuthRoutes(authHandler, googleAuthHandler).RegisterRoutes(api)
	NewUserRoutes(userHandler).RegisterRoutes(api)
	NewDiagramRoutes(diagramHandler, realtimeHandler).RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
