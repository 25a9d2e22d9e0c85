package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lemonspace/internal/board"
	"lemonspace/internal/handler"
	"lemonspace/internal/middleware"
	"lemonspace/internal/model"
	"lemonspace/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockBoardQueries struct {
	mock.Mock
}

func (m *MockBoardQueries) Board(ctx context.Context, boardID string) (*model.Board, error) {
	args := m.Called(ctx, boardID)
	b := args.Get(0)
	if b == nil {
		return nil, args.Error(1)
	}
	return b.(*model.Board), args.Error(1)
}

func (m *MockBoardQueries) Boards(ctx context.Context, userID string) ([]model.Board, error) {
	args := m.Called(ctx, userID)
	b := args.Get(0)
	if b == nil {
		return nil, args.Error(1)
	}
	return b.([]model.Board), args.Error(1)
}

func (m *MockBoardQueries) CreateBoard(ctx context.Context, userID string, p model.BoardPatch) (*model.Board, error) {
	args := m.Called(ctx, userID, p)
	b := args.Get(0)
	if b == nil {
		return nil, args.Error(1)
	}
	return b.(*model.Board), args.Error(1)
}

func (m *MockBoardQueries) UpdateBoard(ctx context.Context, boardID string, p model.BoardPatch) (*model.Board, error) {
	args := m.Called(ctx, boardID, p)
	b := args.Get(0)
	if b == nil {
		return nil, args.Error(1)
	}
	return b.(*model.Board), args.Error(1)
}

func (m *MockBoardQueries) DeleteBoard(ctx context.Context, boardID string) error {
	return m.Called(ctx, boardID).Error(0)
}

const ownerID = "owner-1"

// signedIn stands in for RequireSession.
func signedIn(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.PrincipalKey, &model.Principal{ID: id})
		c.Set(middleware.UserIDKey, id)
	}
}

func setupBoardTest() (*gin.Engine, *MockBoardQueries) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	queries := new(MockBoardQueries)
	h := handler.NewBoardHandler(queries)

	authorized := r.Group("/", signedIn(ownerID))
	authorized.POST("/boards", h.Create)
	authorized.GET("/boards", h.GetAll)
	authorized.GET("/boards/:id", h.GetByID)
	authorized.PATCH("/boards/:id", h.Update)
	authorized.DELETE("/boards/:id", h.Delete)
	authorized.PUT("/boards/:id/password", h.SetPassword)
	authorized.POST("/boards/:id/publish", h.Publish)

	return r, queries
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestBoardCreate_Success(t *testing.T) {
	// Arrange
	router, queries := setupBoardTest()
	queries.On("CreateBoard", mock.Anything, ownerID, mock.MatchedBy(func(p model.BoardPatch) bool {
		return *p.Title == "Launch" && len(p.Blocks) == 1 && p.IsTemplate != nil && !*p.IsTemplate
	})).Return(&model.Board{ID: "b1", UserID: ownerID, Title: "Launch", GridConfig: model.DefaultGridConfig}, nil)

	// Act
	resp := doJSON(router, "POST", "/boards", gin.H{
		"title":  "Launch",
		"blocks": []gin.H{{"id": "h", "type": "heading", "data": gin.H{"text": "Hi"}}},
	})

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	var response handler.BoardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "b1", response.ID)
	assert.Equal(t, model.DefaultGridConfig, response.GridConfig)
	assert.Equal(t, []model.Block{}, response.Blocks)
	queries.AssertExpectations(t)
}

func TestBoardCreate_RejectsUnknownBlockType(t *testing.T) {
	router, queries := setupBoardTest()

	resp := doJSON(router, "POST", "/boards", gin.H{
		"title":  "Launch",
		"blocks": []gin.H{{"id": "x", "type": "carousel"}},
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	queries.AssertNotCalled(t, "CreateBoard", mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardCreate_Conflict(t *testing.T) {
	router, queries := setupBoardTest()
	queries.On("CreateBoard", mock.Anything, ownerID, mock.Anything).Return(nil, store.Conflict("create", "b1"))

	resp := doJSON(router, "POST", "/boards", gin.H{"id": "b1", "title": "Dup"})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestBoardGetAll(t *testing.T) {
	router, queries := setupBoardTest()
	queries.On("Boards", mock.Anything, ownerID).Return([]model.Board{{ID: "b1", UserID: ownerID}, {ID: "b2", UserID: ownerID}}, nil)

	resp := doJSON(router, "GET", "/boards", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	var response []handler.BoardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Len(t, response, 2)
}

func TestBoardGetByID_NotFound(t *testing.T) {
	router, queries := setupBoardTest()
	queries.On("Board", mock.Anything, "missing").Return(nil, board.ErrNotFound)

	resp := doJSON(router, "GET", "/boards/missing", nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"error":"Board not found"}`, resp.Body.String())
}

func TestBoardGetByID_Forbidden(t *testing.T) {
	router, queries := setupBoardTest()
	queries.On("Board", mock.Anything, "b1").Return(&model.Board{ID: "b1", UserID: "someone-else"}, nil)

	resp := doJSON(router, "GET", "/boards/b1", nil)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestBoardGetByID_StoreFailure(t *testing.T) {
	router, queries := setupBoardTest()
	queries.On("Board", mock.Anything, "b1").Return(nil, assert.AnError)

	resp := doJSON(router, "GET", "/boards/b1", nil)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestBoardUpdate_PassesOnlySuppliedFields(t *testing.T) {
	router, queries := setupBoardTest()
	title := "Renamed"
	queries.On("Board", mock.Anything, "b1").Return(&model.Board{ID: "b1", UserID: ownerID}, nil)
	queries.On("UpdateBoard", mock.Anything, "b1", model.BoardPatch{Title: &title}).
		Return(&model.Board{ID: "b1", UserID: ownerID, Title: title}, nil)

	resp := doJSON(router, "PATCH", "/boards/b1", gin.H{"title": "Renamed"})

	assert.Equal(t, http.StatusOK, resp.Code)
	queries.AssertExpectations(t)
}

func TestBoardDelete(t *testing.T) {
	router, queries := setupBoardTest()
	queries.On("Board", mock.Anything, "b1").Return(&model.Board{ID: "b1", UserID: ownerID}, nil)
	queries.On("DeleteBoard", mock.Anything, "b1").Return(nil)

	resp := doJSON(router, "DELETE", "/boards/b1", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	queries.AssertExpectations(t)
}

func TestBoardSetPassword_StoresHash(t *testing.T) {
	router, queries := setupBoardTest()
	var stored string
	queries.On("Board", mock.Anything, "b1").Return(&model.Board{ID: "b1", UserID: ownerID}, nil)
	queries.On("UpdateBoard", mock.Anything, "b1", mock.AnythingOfType("model.BoardPatch")).
		Run(func(args mock.Arguments) {
			stored = *args.Get(2).(model.BoardPatch).PasswordHash
		}).
		Return(&model.Board{ID: "b1", UserID: ownerID}, nil)

	resp := doJSON(router, "PUT", "/boards/b1/password", gin.H{"password": "open-sesame"})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("open-sesame")))
	assert.NotContains(t, resp.Body.String(), stored)
}

func TestBoardPublish_SetsTimestamp(t *testing.T) {
	router, queries := setupBoardTest()
	queries.On("Board", mock.Anything, "b1").Return(&model.Board{ID: "b1", UserID: ownerID}, nil)
	queries.On("UpdateBoard", mock.Anything, "b1", mock.MatchedBy(func(p model.BoardPatch) bool {
		return p.PublishedAt != nil && p.Title == nil && p.Blocks == nil
	})).Return(&model.Board{ID: "b1", UserID: ownerID}, nil)

	resp := doJSON(router, "POST", "/boards/b1/publish", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	queries.AssertExpectations(t)
}
