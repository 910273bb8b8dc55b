// Package history records pre-move board snapshots and restores them on undo.
//
// The snapshot stack and the undo budget are separate bounds: every applied
// move pushes a snapshot, but only MaxUndos of them may ever be consumed in a
// session, and the count of consumed undos never decreases.
package history

import (
	"errors"
	"fmt"

	"junglequest/rules"
	"junglequest/types"
)

// DefaultMaxUndos is the per-session undo budget.
const DefaultMaxUndos = 3

var (
	ErrUndoExhausted = errors.New("no undos remaining")
	ErrUndoEmpty     = errors.New("no moves to undo")
)

// Occupant is the recorded identity of a piece: what it is and who owns it.
type Occupant struct {
	Species rules.Species `json:"species"`
	Owner   types.Player  `json:"owner"`
}

// Snapshot is a point-in-time copy of every occupant and the player to move.
// Terrain is static and not part of it.
type Snapshot struct {
	Occupants map[types.Position]Occupant
	Turn      types.Player
}

// Take copies the occupants of b.
func Take(b *rules.Board, turn types.Player) Snapshot {
	occ := b.Occupants()
	s := Snapshot{Occupants: make(map[types.Position]Occupant, len(occ)), Turn: turn}
	for pos, p := range occ {
		s.Occupants[pos] = Occupant{Species: p.Species, Owner: p.Owner}
	}
	return s
}

// Pieces recreates the pieces of the snapshot keyed by position.
func (s Snapshot) Pieces() map[types.Position]rules.Piece {
	out := make(map[types.Position]rules.Piece, len(s.Occupants))
	for pos, o := range s.Occupants {
		out[pos] = rules.NewPiece(o.Species, o.Owner)
	}
	return out
}

// Apply clears b and places a fresh piece for each recorded occupant.
// The board is untouched if any occupant cannot be placed.
func (s Snapshot) Apply(b *rules.Board) error {
	if pos, ok := b.SetOccupants(s.Pieces()); !ok {
		return fmt.Errorf("snapshot occupant at %s cannot be placed", pos)
	}
	return nil
}

// Target is the game state an undo restores into.
type Target interface {
	Board() *rules.Board
	SetTurn(types.Player)
}

// Manager is the LIFO snapshot stack plus the session undo budget.
type Manager struct {
	stack     []Snapshot
	undoCount int
	maxUndos  int
}

// NewManager creates a manager allowing maxUndos undos. Negative values are treated as zero.
func NewManager(maxUndos int) *Manager {
	if maxUndos < 0 {
		maxUndos = 0
	}
	return &Manager{maxUndos: maxUndos}
}

// Restore creates a manager from persisted state.
func Restore(maxUndos, undoCount int, stack []Snapshot) (*Manager, error) {
	if undoCount < 0 {
		return nil, fmt.Errorf("negative undo count %d", undoCount)
	}
	m := NewManager(maxUndos)
	m.undoCount = undoCount
	m.stack = append([]Snapshot(nil), stack...)
	return m, nil
}

// Record pushes a snapshot of b before a move is applied.
func (m *Manager) Record(b *rules.Board, turn types.Player) {
	m.stack = append(m.stack, Take(b, turn))
}

// Undo pops the latest snapshot and restores it into t.
// It fails with ErrUndoExhausted once the budget is spent and with ErrUndoEmpty
// when no move has been recorded; in both cases nothing changes.
func (m *Manager) Undo(t Target) error {
	if m.undoCount >= m.maxUndos {
		return ErrUndoExhausted
	}
	if len(m.stack) == 0 {
		return ErrUndoEmpty
	}

	last := m.stack[len(m.stack)-1]
	if err := last.Apply(t.Board()); err != nil {
		return err
	}
	m.stack = m.stack[:len(m.stack)-1]
	t.SetTurn(last.Turn)
	m.undoCount++
	return nil
}

// UndoCount returns how many undos have been used.
func (m *Manager) UndoCount() int {
	return m.undoCount
}

// MaxUndos returns the session budget.
func (m *Manager) MaxUndos() int {
	return m.maxUndos
}

// Remaining returns how many undos are left.
func (m *Manager) Remaining() int {
	if r := m.maxUndos - m.undoCount; r > 0 {
		return r
	}
	return 0
}

// Depth returns the number of stored snapshots.
func (m *Manager) Depth() int {
	return len(m.stack)
}

// Snapshots returns the stack, oldest first.
func (m *Manager) Snapshots() []Snapshot {
	return append([]Snapshot(nil), m.stack...)
}
