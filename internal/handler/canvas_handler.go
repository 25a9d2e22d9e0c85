package handler

import (
	"errors"
	"io"
	"net/http"

	"lemonspace/internal/canvas"
	"lemonspace/internal/middleware"
	"lemonspace/internal/model"

	"github.com/gin-gonic/gin"
)

// CanvasHandler exposes the caller's canvas: its state, drops, block edits and deletes.
type CanvasHandler struct {
	sessions *canvas.Sessions
}

func NewCanvasHandler(sessions *canvas.Sessions) *CanvasHandler {
	return &CanvasHandler{sessions: sessions}
}

type CanvasResponse struct {
	canvas.State
	Viewport   model.Viewport    `json:"viewport"`
	BlockTypes []model.BlockType `json:"block_types"`
}

type LoadBoardRequest struct {
	// BoardID of the board to edit; empty unloads the current board.
	BoardID string `json:"board_id"`
}

type SelectBlockRequest struct {
	BlockID string `json:"block_id"`
}

type DropAreaRequest struct {
	Show *bool `json:"show" binding:"required"`
}

func (h *CanvasHandler) session(c *gin.Context) (*canvas.Session, bool) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return nil, false
	}
	return h.sessions.Get(principal.ID), true
}

func (h *CanvasHandler) respondState(c *gin.Context, sess *canvas.Session) {
	c.JSON(http.StatusOK, CanvasResponse{
		State:      sess.Editor.Store().State(),
		Viewport:   model.ViewportByName(c.Query("viewport")),
		BlockTypes: model.BlockTypes(),
	})
}

// Get godoc
// @Summary      Canvas state
// @Tags         Canvas
// @Produce      json
// @Param        viewport  query     string  false  "desktop, tablet or mobile"
// @Success      200       {object}  CanvasResponse
// @Security     BearerAuth
// @Router       /canvas [get]
func (h *CanvasHandler) Get(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.respondState(c, sess)
}

// LoadBoard godoc
// @Summary      Open a board on the canvas
// @Tags         Canvas
// @Accept       json
// @Produce      json
// @Param        board  body      LoadBoardRequest  true  "Board"
// @Success      200    {object}  CanvasResponse
// @Failure      403,404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /canvas/board [put]
func (h *CanvasHandler) LoadBoard(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req LoadBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if _, err := sess.Editor.Load(c.Request.Context(), req.BoardID); err != nil {
		if errors.Is(err, canvas.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this board"})
			return
		}
		respondStoreError(c, err, "Failed to load board")
		return
	}

	h.respondState(c, sess)
}

// Drop godoc
// @Summary      Drop a block onto the canvas
// @Description  The payload is the dragged item: {"type": "...", "data": {...}}. Malformed
// @Description  fields are replaced by defaults; an empty payload adds nothing (204).
// @Tags         Canvas
// @Accept       json
// @Produce      json
// @Success      201  {object}  model.Block
// @Success      204
// @Failure      502  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /canvas/blocks [post]
func (h *CanvasHandler) Drop(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	// an empty body is a drop without an item
	var payload any
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	block, err := sess.Editor.Drop(c.Request.Context(), payload)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save board", "block": block})
		return
	}
	if block == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, block)
}

// UpdateBlock godoc
// @Summary      Change a block
// @Tags         Canvas
// @Accept       json
// @Produce      json
// @Param        id     path      string            true  "Block ID"
// @Param        patch  body      model.BlockPatch  true  "Fields to merge"
// @Success      200    {object}  CanvasResponse
// @Security     BearerAuth
// @Router       /canvas/blocks/{id} [patch]
func (h *CanvasHandler) UpdateBlock(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var patch model.BlockPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if patch.Type != nil && !patch.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid block type"})
		return
	}

	if err := sess.Editor.UpdateBlock(c.Request.Context(), c.Param("id"), patch); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save board"})
		return
	}

	h.respondState(c, sess)
}

// DeleteBlock godoc
// @Summary      Delete a block
// @Description  The block disappears at once; if saving the board fails it is put back and
// @Description  the dialog should stay open.
// @Tags         Canvas
// @Produce      json
// @Param        id   path      string  true  "Block ID"
// @Success      200  {object}  canvas.DeleteResult
// @Failure      502  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /canvas/blocks/{id} [delete]
func (h *CanvasHandler) DeleteBlock(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	res, err := sess.Editor.DeleteBlock(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":       "Failed to delete block",
			"outcome":     res.Outcome,
			"dialog_open": res.DialogOpen,
		})
		return
	}

	c.JSON(http.StatusOK, res)
}

// SelectBlock godoc
// @Summary      Select a block
// @Tags         Canvas
// @Accept       json
// @Param        selection  body  SelectBlockRequest  true  "Empty block_id clears the selection"
// @Success      200  {object}  CanvasResponse
// @Security     BearerAuth
// @Router       /canvas/selection [put]
func (h *CanvasHandler) SelectBlock(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req SelectBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sess.Editor.Store().SelectBlock(req.BlockID)
	h.respondState(c, sess)
}

// SetDropArea godoc
// @Summary      Show or hide the drop area
// @Tags         Canvas
// @Accept       json
// @Param        drop_area  body  DropAreaRequest  true  "Visibility"
// @Success      200  {object}  CanvasResponse
// @Security     BearerAuth
// @Router       /canvas/drop-area [put]
func (h *CanvasHandler) SetDropArea(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req DropAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sess.Editor.Store().SetShowDropArea(*req.Show)
	h.respondState(c, sess)
}

// Reset godoc
// @Summary      Clear the canvas
// @Tags         Canvas
// @Success      200  {object}  CanvasResponse
// @Security     BearerAuth
// @Router       /canvas/reset [post]
func (h *CanvasHandler) Reset(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	sess.Editor.Store().Reset()
	h.respondState(c, sess)
}

// Notifications godoc
// @Summary      Collect pending notifications
// @Tags         Canvas
// @Produce      json
// @Success      200  {array}  canvas.Notification
// @Security     BearerAuth
// @Router       /canvas/notifications [get]
func (h *CanvasHandler) Notifications(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sess.Inbox.Drain())
}
