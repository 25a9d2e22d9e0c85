package board

import (
	"context"

	"lemonspace/internal/cache"
	"lemonspace/internal/model"
)

// API is the set of board access functions the queries wrap.
type API interface {
	Create(ctx context.Context, ownerID string, p model.BoardPatch) (*model.Board, error)
	Get(ctx context.Context, boardID string) (*model.Board, error)
	Update(ctx context.Context, boardID string, p model.BoardPatch) (*model.Board, error)
	Delete(ctx context.Context, boardID string) error
	List(ctx context.Context, ownerID string) ([]model.Board, error)
}

var _ API = (*Service)(nil)

const (
	keyBoard  = "board"
	keyBoards = "boards"
)

func boardKey(boardID string) cache.Key { return cache.Key{keyBoard, boardID} }
func boardsKey(ownerID string) cache.Key { return cache.Key{keyBoards, ownerID} }

// Queries serves board reads from a shared cache and keeps it consistent after writes.
type Queries struct {
	api   API
	cache *cache.Client
}

func NewQueries(api API, c *cache.Client) *Queries {
	return &Queries{api: api, cache: c}
}

// Board returns the board with boardID. An empty boardID skips the read.
func (q *Queries) Board(ctx context.Context, boardID string) (*model.Board, error) {
	if boardID == "" {
		return nil, nil
	}
	return cache.Fetch(ctx, q.cache, boardKey(boardID), func(ctx context.Context) (*model.Board, error) {
		return q.api.Get(ctx, boardID)
	})
}

// Boards returns the boards owned by userID. An empty userID skips the read.
func (q *Queries) Boards(ctx context.Context, userID string) ([]model.Board, error) {
	if userID == "" {
		return nil, nil
	}
	return cache.Fetch(ctx, q.cache, boardsKey(userID), func(ctx context.Context) ([]model.Board, error) {
		return q.api.List(ctx, userID)
	})
}

func (q *Queries) CreateBoard(ctx context.Context, userID string, p model.BoardPatch) (*model.Board, error) {
	b, err := q.api.Create(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	q.cache.SetQueryData(boardKey(b.ID), b)
	q.cache.InvalidateQueries(boardsKey(b.UserID))
	return b, nil
}

func (q *Queries) UpdateBoard(ctx context.Context, boardID string, p model.BoardPatch) (*model.Board, error) {
	b, err := q.api.Update(ctx, boardID, p)
	if err != nil {
		return nil, err
	}
	q.cache.SetQueryData(boardKey(b.ID), b)
	q.cache.InvalidateQueries(boardsKey(b.UserID))
	return b, nil
}

// DeleteBoard removes the board and its cache entry. The owner's list is marked stale;
// every list is when the board was never cached.
func (q *Queries) DeleteBoard(ctx context.Context, boardID string) error {
	owner := ""
	if v, ok := q.cache.GetQueryData(boardKey(boardID)); ok {
		if b, ok := v.(*model.Board); ok && b != nil {
			owner = b.UserID
		}
	}

	if err := q.api.Delete(ctx, boardID); err != nil {
		return err
	}

	q.cache.RemoveQueries(boardKey(boardID))
	if owner != "" {
		q.cache.InvalidateQueries(boardsKey(owner))
	} else {
		q.cache.InvalidateQueries(cache.Key{keyBoards})
	}
	return nil
}
