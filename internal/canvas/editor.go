package canvas

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lemonspace/internal/model"
)

// saveTimeout bounds a board save that no longer follows the caller's context.
const saveTimeout = 30 * time.Second

// ErrForbidden is returned when an editor loads a board owned by someone else.
var ErrForbidden = errors.New("board belongs to another user")

// Boards is what the editor needs from the board queries.
type Boards interface {
	Board(ctx context.Context, boardID string) (*model.Board, error)
	UpdateBoard(ctx context.Context, boardID string, p model.BoardPatch) (*model.Board, error)
}

// Editor runs the canvas flows of one signed-in user against their state container.
type Editor struct {
	ownerID  string
	store    *Store
	boards   Boards
	notifier Notifier
	logger   *log.Logger
	locks    *boardLocks
}

func NewEditor(ownerID string, boards Boards, notifier Notifier, logger *log.Logger) *Editor {
	if logger == nil {
		logger = log.Default()
	}
	return &Editor{
		ownerID:  ownerID,
		store:    NewStore(),
		boards:   boards,
		notifier: notifier,
		logger:   logger,
		locks:    newBoardLocks(),
	}
}

func (e *Editor) Store() *Store {
	return e.store
}

// Load makes boardID the current board. An empty boardID unloads the board.
func (e *Editor) Load(ctx context.Context, boardID string) (*model.Board, error) {
	b, err := e.boards.Board(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if b != nil && b.UserID != e.ownerID {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, boardID)
	}
	e.store.SetCurrentBoard(b)
	return b, nil
}

// Drop adds the block described by payload and saves the board when one is loaded. It
// returns nil when the payload carries no block. A failed save keeps the block staged.
func (e *Editor) Drop(ctx context.Context, payload any) (*model.Block, error) {
	block, ok := SanitizeDropPayload(payload, e.logger)
	if !ok {
		return nil, nil
	}

	e.store.AddBlock(block)
	if err := e.save(ctx); err != nil {
		return &block, err
	}
	return &block, nil
}

// UpdateBlock merges patch into the block with id and saves the board when one is loaded.
func (e *Editor) UpdateBlock(ctx context.Context, id string, patch model.BlockPatch) error {
	e.store.UpdateBlock(id, patch)
	return e.save(ctx)
}

// save writes the staged block sequence to the current board.
func (e *Editor) save(ctx context.Context) error {
	st := e.store.State()
	if st.CurrentBoard == nil {
		return nil
	}

	saveCtx, cancel := detach(ctx)
	defer cancel()
	updated, err := e.boards.UpdateBoard(saveCtx, st.CurrentBoard.ID, model.BoardPatch{Blocks: st.Blocks})
	if err != nil {
		e.logger.Printf("❌ failed to save board %s: %v", st.CurrentBoard.ID, err)
		return fmt.Errorf("save board %s: %w", st.CurrentBoard.ID, err)
	}
	e.store.refreshBoard(updated)
	return nil
}

// detach keeps ctx values but drops its cancellation, so a save that has started finishes
// even when the request that issued it goes away.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
}
