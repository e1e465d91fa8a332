package routes

import (
	"github.com/gin-gonic/gin"

	"liveerd/internal/handlers"
	"liveerd/internal/middlewares"
)

type DiagramRoutes struct {
	handler         *handlers.DiagramHandler
	realtimeHandler *handlers.RealtimeHandler
}

func NewDiagramRoutes(handler *handlers.DiagramHandler, realtimeHandler *handlers.RealtimeHandler) *DiagramRoutes {
	return &DiagramRoutes{handler: handler, realtimeHandler: realtimeHandler}
}

func (r *DiagramRoutes) RegisterRoutes(router *gin.RouterGroup) {
	diagrams := router.Group("/diagrams")
	diagrams.Use(middlewares.Authenticate)
	{
		diagrams.POST("", r.handler.Create)
		diagrams.GET("", r.handler.List)
		diagrams.GET("/:id", r.handler.Get)
		diagrams.PUT("/:id", r.handler.Save)
		diagrams.PATCH("/:id", r.handler.Rename)
		diagrams.DELETE("/:id", r.handler.Delete)

		diagrams.POST("/:id/ops", r.handler.ApplyOperation)
		diagrams.POST("/:id/undo", r.handler.Undo)
		diagrams.POST("/:id/redo", r.handler.Redo)

		diagrams.GET("/:id/export", r.handler.Export)
		diagrams.POST("/:id/import", r.handler.Import)
		diagrams.POST("/:id/generate", r.handler.Generate)
	}

	// The websocket dial authenticates via query token, not the Bearer
	// middleware.
	router.GET("/ws/diagrams/:id", r.realtimeHandler.Serve)
}
