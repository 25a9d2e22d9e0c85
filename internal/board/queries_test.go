package board_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"lemonspace/internal/board"
	"lemonspace/internal/cache"
	"lemonspace/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBoardAPI struct {
	mock.Mock
}

func (m *MockBoardAPI) Create(ctx context.Context, ownerID string, p model.BoardPatch) (*model.Board, error) {
	args := m.Called(ctx, ownerID, p)
	b := args.Get(0)
	if b == nil {
		return nil, args.Error(1)
	}
	return b.(*model.Board), args.Error(1)
}

func (m *MockBoardAPI) Get(ctx context.Context, boardID string) (*model.Board, error) {
	args := m.Called(ctx, boardID)
	b := args.Get(0)
	if b == nil {
		return nil, args.Error(1)
	}
	return b.(*model.Board), args.Error(1)
}

func (m *MockBoardAPI) Update(ctx context.Context, boardID string, p model.BoardPatch) (*model.Board, error) {
	args := m.Called(ctx, boardID, p)
	b := args.Get(0)
	if b == nil {
		return nil, args.Error(1)
	}
	return b.(*model.Board), args.Error(1)
}

func (m *MockBoardAPI) Delete(ctx context.Context, boardID string) error {
	return m.Called(ctx, boardID).Error(0)
}

func (m *MockBoardAPI) List(ctx context.Context, ownerID string) ([]model.Board, error) {
	args := m.Called(ctx, ownerID)
	b := args.Get(0)
	if b == nil {
		return nil, args.Error(1)
	}
	return b.([]model.Board), args.Error(1)
}

func setupQueries() (*board.Queries, *MockBoardAPI) {
	api := new(MockBoardAPI)
	return board.NewQueries(api, cache.NewClient()), api
}

func TestQueriesBoard_SkipsEmptyKey(t *testing.T) {
	q, api := setupQueries()

	b, err := q.Board(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, b)

	list, err := q.Boards(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, list)

	api.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestQueriesBoard_ConcurrentReadsShareOneRequest(t *testing.T) {
	q, api := setupQueries()
	api.On("Get", mock.Anything, "b1").
		After(50*time.Millisecond).
		Return(&model.Board{ID: "b1", UserID: "u1"}, nil).
		Once()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := q.Board(context.Background(), "b1")
			assert.NoError(t, err)
			assert.Equal(t, "b1", b.ID)
		}()
	}
	wg.Wait()

	b, err := q.Board(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)
	api.AssertNumberOfCalls(t, "Get", 1)
}

func TestQueriesUpdateBoard_WritesCacheAndInvalidatesList(t *testing.T) {
	// Arrange
	q, api := setupQueries()
	title := "New"
	api.On("List", mock.Anything, "u1").Return([]model.Board{{ID: "b1", Title: "Old"}}, nil).Once()
	api.On("Update", mock.Anything, "b1", model.BoardPatch{Title: &title}).
		Return(&model.Board{ID: "b1", UserID: "u1", Title: "New"}, nil)
	api.On("List", mock.Anything, "u1").Return([]model.Board{{ID: "b1", Title: "New"}}, nil).Once()

	_, err := q.Boards(context.Background(), "u1")
	require.NoError(t, err)

	// Act
	_, err = q.UpdateBoard(context.Background(), "b1", model.BoardPatch{Title: &title})
	require.NoError(t, err)

	// Assert
	b, err := q.Board(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "New", b.Title)
	api.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)

	list, err := q.Boards(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "New", list[0].Title)
	api.AssertNumberOfCalls(t, "List", 2)
}

func TestQueriesCreateBoard_FailureCachesNothing(t *testing.T) {
	q, api := setupQueries()
	api.On("Create", mock.Anything, "u1", mock.Anything).Return(nil, assert.AnError)
	api.On("Get", mock.Anything, "b1").Return(nil, board.ErrNotFound)

	_, err := q.CreateBoard(context.Background(), "u1", model.BoardPatch{ID: strPtr("b1")})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = q.Board(context.Background(), "b1")
	assert.ErrorIs(t, err, board.ErrNotFound)
}

func TestQueriesDeleteBoard_EvictsEntryAndInvalidatesOwnerList(t *testing.T) {
	// Arrange
	q, api := setupQueries()
	api.On("Create", mock.Anything, "u1", mock.Anything).Return(&model.Board{ID: "b1", UserID: "u1"}, nil)
	api.On("List", mock.Anything, "u1").Return([]model.Board{{ID: "b1"}}, nil).Once()
	api.On("List", mock.Anything, "u2").Return([]model.Board{{ID: "b9"}}, nil).Once()
	api.On("Delete", mock.Anything, "b1").Return(nil)
	api.On("Get", mock.Anything, "b1").Return(nil, board.ErrNotFound)
	api.On("List", mock.Anything, "u1").Return([]model.Board{}, nil).Once()

	_, err := q.CreateBoard(context.Background(), "u1", model.BoardPatch{})
	require.NoError(t, err)
	_, err = q.Boards(context.Background(), "u1")
	require.NoError(t, err)
	_, err = q.Boards(context.Background(), "u2")
	require.NoError(t, err)

	// Act
	err = q.DeleteBoard(context.Background(), "b1")
	require.NoError(t, err)

	// Assert
	_, err = q.Board(context.Background(), "b1")
	assert.ErrorIs(t, err, board.ErrNotFound)

	list, err := q.Boards(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	other, err := q.Boards(context.Background(), "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
	api.AssertNumberOfCalls(t, "List", 3)
}

func TestQueriesDeleteBoard_UnknownOwnerInvalidatesAllLists(t *testing.T) {
	q, api := setupQueries()
	api.On("List", mock.Anything, "u2").Return([]model.Board{{ID: "b9"}}, nil).Twice()
	api.On("Delete", mock.Anything, "b9").Return(nil)

	_, err := q.Boards(context.Background(), "u2")
	require.NoError(t, err)

	require.NoError(t, q.DeleteBoard(context.Background(), "b9"))

	_, err = q.Boards(context.Background(), "u2")
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "List", 2)
}
