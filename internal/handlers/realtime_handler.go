package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"liveerd/internal/realtime"
	"liveerd/internal/responses"
	"liveerd/internal/services"
	"liveerd/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is handled by the CORS middleware; the editor
	// frontend is served from a different origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type RealtimeHandler struct {
	hub            *realtime.Hub
	userService    *services.UserService
	diagramService *services.DiagramService
}

func NewRealtimeHandler(hub *realtime.Hub, userService *services.UserService, diagramService *services.DiagramService) *RealtimeHandler {
	return &RealtimeHandler{
		hub:            hub,
		userService:    userService,
		diagramService: diagramService,
	}
}

// Serve handles GET /ws/diagrams/:id. Browsers cannot set an Authorization
// header on a websocket dial, so the access token rides a query parameter.
func (h *RealtimeHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		responses.Fail(c, http.StatusUnauthorized, nil, "Missing token")
		return
	}
	claims, err := utils.VerifyJWT(token, utils.AccessTokenSecret)
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, err, "Invalid or expired token")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, err, "Invalid token subject")
		return
	}

	diagramID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid diagram id")
		return
	}

	// Presence identity is the user's email, same as comment authorship.
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, err, "Unknown user")
		return
	}

	exists, err := h.diagramService.Exists(c.Request.Context(), diagramID)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not open diagram")
		return
	}
	if !exists {
		responses.Fail(c, http.StatusNotFound, nil, "Diagram not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	client := realtime.NewClient(h.hub.Room(diagramID), conn, user.Email)
	client.Run()
}
