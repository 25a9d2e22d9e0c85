// Package canvas holds the editing state of one signed-in editor: the board being edited,
// its staged block sequence, the selection and the drop area, plus the flows that persist
// changes to that state.
package canvas

import (
	"slices"
	"sync"

	"lemonspace/internal/model"
)

// State is a snapshot of the canvas. Actions never modify a snapshot already handed out.
type State struct {
	CurrentBoard    *model.Board  `json:"current_board"`
	Blocks          []model.Block `json:"blocks"`
	SelectedBlockID string        `json:"selected_block_id,omitempty"`
	ShowDropArea    bool          `json:"show_drop_area"`
}

func initialState() State {
	return State{
		Blocks:       []model.Block{},
		ShowDropArea: true,
	}
}

// Store is the canvas state container. Each action replaces the affected fields as one step.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: initialState()}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Blocks = slices.Clone(s.state.Blocks)
	return out
}

func (s *Store) update(fn func(st State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fn(s.state)
}

// SetCurrentBoard replaces the board and stages its blocks. nil clears the board.
func (s *Store) SetCurrentBoard(b *model.Board) {
	s.update(func(st State) State {
		st.CurrentBoard = b
		st.Blocks = []model.Block{}
		if b != nil && b.Blocks != nil {
			st.Blocks = slices.Clone(b.Blocks)
		}
		st.ShowDropArea = true
		return st
	})
}

func (s *Store) AddBlock(block model.Block) {
	s.update(func(st State) State {
		st.Blocks = append(slices.Clone(st.Blocks), block)
		st.ShowDropArea = true
		return st
	})
}

// RemoveBlock drops the block with id and clears the selection if it pointed at it.
func (s *Store) RemoveBlock(id string) {
	s.update(func(st State) State {
		st.Blocks = slices.DeleteFunc(slices.Clone(st.Blocks), func(b model.Block) bool {
			return b.ID == id
		})
		if st.SelectedBlockID == id {
			st.SelectedBlockID = ""
		}
		st.ShowDropArea = true
		return st
	})
}

func (s *Store) UpdateBlock(id string, patch model.BlockPatch) {
	s.update(func(st State) State {
		blocks := make([]model.Block, len(st.Blocks))
		for i, b := range st.Blocks {
			if b.ID == id {
				b = patch.Apply(b)
			}
			blocks[i] = b
		}
		st.Blocks = blocks
		return st
	})
}

// SelectBlock sets the selection; "" selects nothing.
func (s *Store) SelectBlock(id string) {
	s.update(func(st State) State {
		st.SelectedBlockID = id
		return st
	})
}

func (s *Store) SetShowDropArea(show bool) {
	s.update(func(st State) State {
		st.ShowDropArea = show
		return st
	})
}

func (s *Store) Reset() {
	s.update(func(State) State {
		return initialState()
	})
}

// restoreBlock puts block back at index, clamped to the current sequence. The selection is
// restored when nothing else got selected in the meantime.
func (s *Store) restoreBlock(index int, block model.Block, selected bool) {
	s.update(func(st State) State {
		index = min(max(index, 0), len(st.Blocks))
		st.Blocks = slices.Insert(slices.Clone(st.Blocks), index, block)
		if selected && st.SelectedBlockID == "" {
			st.SelectedBlockID = block.ID
		}
		st.ShowDropArea = true
		return st
	})
}

// refreshBoard swaps in a newer copy of the current board without touching the staged
// blocks. Nothing happens when another board was loaded in the meantime.
func (s *Store) refreshBoard(b *model.Board) {
	s.update(func(st State) State {
		if b != nil && st.CurrentBoard != nil && st.CurrentBoard.ID == b.ID {
			st.CurrentBoard = b
		}
		return st
	})
}
