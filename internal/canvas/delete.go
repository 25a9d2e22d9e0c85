package canvas

import (
	"context"
	"slices"
	"sync"

	"lemonspace/internal/model"

	"golang.org/x/sync/semaphore"
)

type DeleteOutcome string

const (
	// DeleteSkipped means the block was not on the canvas; nothing changed.
	DeleteSkipped DeleteOutcome = "skipped"
	// DeleteLocalOnly means no board is loaded, so only the canvas changed.
	DeleteLocalOnly DeleteOutcome = "local"
	DeleteCommitted DeleteOutcome = "committed"
	// DeleteRolledBack means saving failed and the block is back in place.
	DeleteRolledBack DeleteOutcome = "rolled_back"
)

// DeleteResult tells the caller what happened and whether the confirmation dialog stays open.
type DeleteResult struct {
	Outcome    DeleteOutcome `json:"outcome"`
	DialogOpen bool          `json:"dialog_open"`
}

// DeleteBlock removes a block from the canvas right away and then saves the board. When the
// save fails the block is restored where it was and the user is notified. Deletes on the
// same board run one at a time.
func (e *Editor) DeleteBlock(ctx context.Context, blockID string) (DeleteResult, error) {
	unlock, st, err := e.lockCurrentBoard(ctx)
	if err != nil {
		return DeleteResult{Outcome: DeleteSkipped, DialogOpen: true}, err
	}
	defer unlock()

	index := slices.IndexFunc(st.Blocks, func(b model.Block) bool { return b.ID == blockID })
	if index < 0 {
		return DeleteResult{Outcome: DeleteSkipped, DialogOpen: true}, nil
	}
	removed := st.Blocks[index]
	remaining := slices.Delete(slices.Clone(st.Blocks), index, index+1)
	wasSelected := st.SelectedBlockID == blockID
	current := st.CurrentBoard

	s := saga{
		apply: func() { e.store.RemoveBlock(blockID) },
		compensate: func() {
			e.store.restoreBlock(index, removed, wasSelected)
		},
	}
	if current != nil {
		s.commit = func(ctx context.Context) error {
			updated, err := e.boards.UpdateBoard(ctx, current.ID, model.BoardPatch{Blocks: remaining})
			if err != nil {
				return err
			}
			e.store.refreshBoard(updated)
			return nil
		}
	}

	if err := s.run(ctx); err != nil {
		e.logger.Printf("❌ failed to save board %s after deleting block %s: %v", current.ID, blockID, err)
		e.notifier.Notify(Notification{
			Level:       LevelError,
			Title:       "Failed to delete block",
			Description: "The block could not be deleted. Please try again.",
		})
		return DeleteResult{Outcome: DeleteRolledBack, DialogOpen: true}, err
	}

	if current == nil {
		return DeleteResult{Outcome: DeleteLocalOnly}, nil
	}
	return DeleteResult{Outcome: DeleteCommitted}, nil
}

// lockCurrentBoard takes the lock of the board on the canvas. When another board is loaded
// while waiting, the lock is released and the new board's lock is taken instead.
func (e *Editor) lockCurrentBoard(ctx context.Context) (func(), State, error) {
	boardID := currentBoardID(e.store.State())
	for {
		unlock, err := e.locks.lock(ctx, boardID)
		if err != nil {
			return nil, State{}, err
		}
		st := e.store.State()
		if id := currentBoardID(st); id != boardID {
			unlock()
			boardID = id
			continue
		}
		return unlock, st, nil
	}
}

func currentBoardID(st State) string {
	if st.CurrentBoard == nil {
		return ""
	}
	return st.CurrentBoard.ID
}

// boardLocks hands out one weighted semaphore per board id.
type boardLocks struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

func newBoardLocks() *boardLocks {
	return &boardLocks{sems: make(map[string]*semaphore.Weighted)}
}

func (l *boardLocks) lock(ctx context.Context, boardID string) (func(), error) {
	l.mu.Lock()
	sem, ok := l.sems[boardID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.sems[boardID] = sem
	}
	l.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}
