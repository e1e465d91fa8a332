package routes

import (
	"github.com/gin-gonic/gin"

	"liveerd/internal/handlers"
	"liveerd/internal/middlewares"
)

type AuthRoutes struct {
	handler       *handlers.AuthHandler
	googleHandler *handlers.GoogleAuthHandler
}

func NewAuthRoutes(handler *handlers.AuthHandler, googleHandler *handlers.GoogleAuthHandler) *AuthRoutes {
	return &AuthRoutes{handler: handler, googleHandler: googleHandler}
}

func (r *AuthRoutes) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		// Public routes
		auth.POST("/register", r.handler.Register)
		auth.POST("/login", r.handler.Login)
		auth.POST("/refresh", r.handler.Refresh)
		auth.GET("/google/login", r.googleHandler.Login)
		auth.GET("/google/callback", r.googleHandler.Callback)

		// Protected routes
		protected := auth.Group("/")
		protected.Use(middlewares.Authenticate)
		protected.POST("/logout", r.handler.Logout)
	}
}
