package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"liveerd/internal/diagram"
	"liveerd/internal/export"
	"liveerd/internal/responses"
	"liveerd/internal/services"
	"liveerd/internal/utils"
)

// maxImportBytes bounds an imported {nodes, edges} document.
const maxImportBytes = 4 << 20

type DiagramHandler struct {
	diagramService *services.DiagramService
	userService    *services.UserService
}

func NewDiagramHandler(diagramService *services.DiagramService, userService *services.UserService) *DiagramHandler {
	return &DiagramHandler{
		diagramService: diagramService,
		userService:    userService,
	}
}

func (h *DiagramHandler) ids(c *gin.Context) (diagramID, userID uuid.UUID, ok bool) {
	userID, ok = currentUserID(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	diagramID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid diagram id")
		return uuid.Nil, uuid.Nil, false
	}
	return diagramID, userID, true
}

func failDiagram(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrDiagramNotFound):
		responses.Fail(c, http.StatusNotFound, err, "Diagram not found")
	case errors.Is(err, services.ErrNotOwner):
		responses.Fail(c, http.StatusForbidden, err, "Diagram belongs to another user")
	case errors.Is(err, diagram.ErrNoOp):
		responses.Fail(c, http.StatusConflict, err, "Nothing to undo or redo")
	default:
		responses.Fail(c, http.StatusInternalServerError, err, message)
	}
}

func (h *DiagramHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	d, err := h.diagramService.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not create diagram")
		return
	}
	responses.Success(c, http.StatusCreated, d, "Diagram created")
}

func (h *DiagramHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	list, err := h.diagramService.List(c.Request.Context(), userID)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not list diagrams")
		return
	}
	responses.Success(c, http.StatusOK, list, "")
}

func (h *DiagramHandler) Get(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	d, err := h.diagramService.Get(c.Request.Context(), diagramID, userID)
	if err != nil {
		failDiagram(c, err, "Could not load diagram")
		return
	}
	responses.Success(c, http.StatusOK, d, "")
}

// Save replaces the full document (explicit save from the editor).
func (h *DiagramHandler) Save(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	var req diagram.State
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid diagram document")
		return
	}
	if req.Nodes == nil || req.Edges == nil {
		responses.Fail(c, http.StatusBadRequest, export.ErrInvalidDocument, "Invalid diagram document")
		return
	}

	state, err := h.diagramService.Save(c.Request.Context(), diagramID, userID, req)
	if err != nil {
		failDiagram(c, err, "Could not save diagram")
		return
	}
	responses.Success(c, http.StatusOK, state, "Diagram saved")
}

func (h *DiagramHandler) Rename(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if err := h.diagramService.Rename(c.Request.Context(), diagramID, userID, req.Name); err != nil {
		failDiagram(c, err, "Could not rename diagram")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Diagram renamed")
}

func (h *DiagramHandler) Delete(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.diagramService.Delete(c.Request.Context(), diagramID, userID); err != nil {
		failDiagram(c, err, "Could not delete diagram")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Diagram deleted")
}

// ApplyOperation commits one mutation and returns the resulting state.
func (h *DiagramHandler) ApplyOperation(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	var op services.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid operation body")
		return
	}
	if err := op.Validate(); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid operation")
		return
	}

	// Comments carry the caller's email as author.
	author := ""
	if op.Op == services.OpAppendComment {
		user, err := h.userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			responses.Fail(c, http.StatusInternalServerError, err, "Could not resolve author")
			return
		}
		author = user.Email
	}

	state, err := h.diagramService.Apply(c.Request.Context(), diagramID, userID, op, author)
	if err != nil {
		failDiagram(c, err, "Could not apply operation")
		return
	}
	responses.Success(c, http.StatusOK, state, "")
}

func (h *DiagramHandler) Undo(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	state, err := h.diagramService.Undo(c.Request.Context(), diagramID, userID)
	if err != nil {
		failDiagram(c, err, "Could not undo")
		return
	}
	responses.Success(c, http.StatusOK, state, "")
}

func (h *DiagramHandler) Redo(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	state, err := h.diagramService.Redo(c.Request.Context(), diagramID, userID)
	if err != nil {
		failDiagram(c, err, "Could not redo")
		return
	}
	responses.Success(c, http.StatusOK, state, "")
}

// Export streams the rendered document as a download.
func (h *DiagramHandler) Export(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	format := export.Format(c.DefaultQuery("format", string(export.FormatJSON)))
	content, filename, err := h.diagramService.Export(c.Request.Context(), diagramID, userID, format)
	if err != nil {
		if errors.Is(err, services.ErrDiagramNotFound) || errors.Is(err, services.ErrNotOwner) {
			failDiagram(c, err, "")
			return
		}
		responses.Fail(c, http.StatusBadRequest, err, "Could not export diagram")
		return
	}

	contentType := "text/plain; charset=utf-8"
	if format == export.FormatJSON {
		contentType = "application/json"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, content)
}

// Import replaces the diagram with an uploaded {nodes, edges} document.
func (h *DiagramHandler) Import(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Could not read request body")
		return
	}

	state, err := h.diagramService.Import(c.Request.Context(), diagramID, userID, raw)
	if err != nil {
		if errors.Is(err, export.ErrInvalidDocument) {
			responses.Fail(c, http.StatusBadRequest, err, "Invalid diagram document")
			return
		}
		failDiagram(c, err, "Could not import diagram")
		return
	}
	responses.Success(c, http.StatusOK, state, "Diagram imported")
}

// Generate replaces the diagram with an AI-generated schema.
func (h *DiagramHandler) Generate(c *gin.Context) {
	diagramID, userID, ok := h.ids(c)
	if !ok {
		return
	}

	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Prompt is required")
		return
	}

	state, err := h.diagramService.Generate(c.Request.Context(), diagramID, userID, req.Prompt)
	if err != nil {
		failDiagram(c, err, "Schema generation failed")
		return
	}
	responses.Success(c, http.StatusOK, state, "Schema generated")
}
