package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lemonspace/internal/board"
	"lemonspace/internal/middleware"
	"lemonspace/internal/model"
	"lemonspace/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// BoardQueries is the cached board API the handlers work against.
type BoardQueries interface {
	Board(ctx context.Context, boardID string) (*model.Board, error)
	Boards(ctx context.Context, userID string) ([]model.Board, error)
	CreateBoard(ctx context.Context, userID string, p model.BoardPatch) (*model.Board, error)
	UpdateBoard(ctx context.Context, boardID string, p model.BoardPatch) (*model.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
}

var _ BoardQueries = (*board.Queries)(nil)

type BoardHandler struct {
	boards BoardQueries
}

func NewBoardHandler(boards BoardQueries) *BoardHandler {
	return &BoardHandler{boards: boards}
}

type CreateBoardRequest struct {
	ID         *string           `json:"id"`
	Title      string            `json:"title" binding:"required"`
	Slug       string            `json:"slug"`
	GridConfig *model.GridConfig `json:"grid_config"`
	Blocks     []model.Block     `json:"blocks"`
	TemplateID *string           `json:"template_id"`
	IsTemplate *bool             `json:"is_template"`
	ExpiresAt  *time.Time        `json:"expires_at"`
}

type UpdateBoardRequest struct {
	Title      *string           `json:"title"`
	Slug       *string           `json:"slug"`
	GridConfig *model.GridConfig `json:"grid_config"`
	Blocks     []model.Block     `json:"blocks"`
	TemplateID *string           `json:"template_id"`
	IsTemplate *bool             `json:"is_template"`
	ExpiresAt  *time.Time        `json:"expires_at"`
}

type SetPasswordRequest struct {
	// Password is the new board password; empty removes the protection.
	Password string `json:"password" binding:"omitempty,min=4"`
}

type BoardResponse struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	GridConfig  model.GridConfig `json:"grid_config"`
	Blocks      []model.Block    `json:"blocks"`
	TemplateID  *string          `json:"template_id"`
	IsTemplate  bool             `json:"is_template"`
	HasPassword bool             `json:"has_password"`
	ExpiresAt   *time.Time       `json:"expires_at"`
	PublishedAt *time.Time       `json:"published_at"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func toBoardResponse(b *model.Board) BoardResponse {
	blocks := b.Blocks
	if blocks == nil {
		blocks = []model.Block{}
	}
	return BoardResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		Title:       b.Title,
		Slug:        b.Slug,
		GridConfig:  b.GridConfig,
		Blocks:      blocks,
		TemplateID:  b.TemplateID,
		IsTemplate:  b.IsTemplate,
		HasPassword: b.HasPassword(),
		ExpiresAt:   b.ExpiresAt,
		PublishedAt: b.PublishedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func validBlocks(blocks []model.Block) bool {
	for _, b := range blocks {
		if b.ID == "" || !b.Type.Valid() {
			return false
		}
	}
	return true
}

// Create godoc
// @Summary      Create a board
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Param        board  body      CreateBoardRequest  true  "Board"
// @Success      201    {object}  BoardResponse
// @Failure      400,401,409,500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !validBlocks(req.Blocks) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid block type"})
		return
	}

	patch := model.BoardPatch{
		ID:         req.ID,
		Title:      &req.Title,
		Slug:       &req.Slug,
		GridConfig: req.GridConfig,
		Blocks:     req.Blocks,
		TemplateID: req.TemplateID,
		IsTemplate: req.IsTemplate,
		ExpiresAt:  req.ExpiresAt,
	}
	if patch.IsTemplate == nil {
		isTemplate := false
		patch.IsTemplate = &isTemplate
	}

	b, err := h.boards.CreateBoard(c.Request.Context(), principal.ID, patch)
	if err != nil {
		respondStoreError(c, err, "Failed to create board")
		return
	}

	c.JSON(http.StatusCreated, toBoardResponse(b))
}

// GetAll godoc
// @Summary      List the caller's boards
// @Tags         Boards
// @Produce      json
// @Success      200  {array}   BoardResponse
// @Security     BearerAuth
// @Router       /boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	boards, err := h.boards.Boards(c.Request.Context(), principal.ID)
	if err != nil {
		respondStoreError(c, err, "Failed to retrieve boards")
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary      Get a board
// @Tags         Boards
// @Produce      json
// @Param        id   path      string  true  "Board ID"
// @Success      200  {object}  BoardResponse
// @Failure      403,404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	b, ok := h.ownedBoard(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(b))
}

// Update godoc
// @Summary      Update board fields
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Param        id     path      string              true  "Board ID"
// @Param        board  body      UpdateBoardRequest  true  "Fields to change"
// @Success      200    {object}  BoardResponse
// @Security     BearerAuth
// @Router       /boards/{id} [patch]
func (h *BoardHandler) Update(c *gin.Context) {
	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !validBlocks(req.Blocks) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid block type"})
		return
	}

	b, ok := h.ownedBoard(c)
	if !ok {
		return
	}

	updated, err := h.boards.UpdateBoard(c.Request.Context(), b.ID, model.BoardPatch{
		Title:      req.Title,
		Slug:       req.Slug,
		GridConfig: req.GridConfig,
		Blocks:     req.Blocks,
		TemplateID: req.TemplateID,
		IsTemplate: req.IsTemplate,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		respondStoreError(c, err, "Failed to update board")
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(updated))
}

// Delete godoc
// @Summary      Delete a board
// @Tags         Boards
// @Param        id   path  string  true  "Board ID"
// @Success      200  {object}  map[string]string
// @Security     BearerAuth
// @Router       /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	b, ok := h.ownedBoard(c)
	if !ok {
		return
	}

	if err := h.boards.DeleteBoard(c.Request.Context(), b.ID); err != nil {
		respondStoreError(c, err, "Failed to delete board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

// SetPassword godoc
// @Summary      Set or remove the board password
// @Tags         Boards
// @Accept       json
// @Param        id        path  string              true  "Board ID"
// @Param        password  body  SetPasswordRequest  true  "Password"
// @Success      200  {object}  BoardResponse
// @Security     BearerAuth
// @Router       /boards/{id}/password [put]
func (h *BoardHandler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	b, ok := h.ownedBoard(c)
	if !ok {
		return
	}

	hash := ""
	if req.Password != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Hash error"})
			return
		}
		hash = string(raw)
	}

	updated, err := h.boards.UpdateBoard(c.Request.Context(), b.ID, model.BoardPatch{PasswordHash: &hash})
	if err != nil {
		respondStoreError(c, err, "Failed to update board")
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(updated))
}

// Publish godoc
// @Summary      Publish a board
// @Tags         Boards
// @Param        id   path  string  true  "Board ID"
// @Success      200  {object}  BoardResponse
// @Security     BearerAuth
// @Router       /boards/{id}/publish [post]
func (h *BoardHandler) Publish(c *gin.Context) {
	b, ok := h.ownedBoard(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	updated, err := h.boards.UpdateBoard(c.Request.Context(), b.ID, model.BoardPatch{PublishedAt: &now})
	if err != nil {
		respondStoreError(c, err, "Failed to publish board")
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(updated))
}

// ownedBoard loads the board named by the :id param and checks that the caller owns it.
// It writes the error response itself and reports false when the request should stop.
func (h *BoardHandler) ownedBoard(c *gin.Context) (*model.Board, bool) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	b, err := h.boards.Board(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Failed to retrieve board")
		return nil, false
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return nil, false
	}

	if b.UserID != principal.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this board"})
		return nil, false
	}

	return b, true
}

// respondStoreError maps document store failures to status codes.
func respondStoreError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, board.ErrNotFound), errors.Is(err, store.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Board already exists"})
	case errors.Is(err, store.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this board"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
