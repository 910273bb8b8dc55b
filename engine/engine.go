// Package engine defines the interface for game engines.
package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"junglequest/history"
	"junglequest/rules"
	"junglequest/types"
)

// GameEngine drives one jungle game between two local players.
type GameEngine interface {
	// Board returns the live board. Callers must not mutate it.
	Board() *rules.Board

	// Players returns both players in index order.
	Players() [2]types.PlayerInfo

	// CurrentTurn returns the player to move.
	CurrentTurn() types.Player

	// PlayMove applies one ply for the current player.
	// Returns an *IllegalMoveError if the move is refused; the state is then unchanged.
	PlayMove(from, to types.Position) (MoveRecord, error)

	// Undo restores the state before the most recent ply and drops its log entry.
	Undo() error

	// Outcome reports the winner once the game is over.
	Outcome() (Outcome, bool)

	// UndosRemaining returns how many undos are left in this session.
	UndosRemaining() int

	// PiecesRemaining returns how many pieces p still has on the board.
	PiecesRemaining(p types.Player) int

	// MoveLog returns a copy of the applied moves, oldest first.
	MoveLog() []MoveRecord

	// OnMove registers a callback for every applied ply.
	OnMove(func(rec MoveRecord))

	// OnUndo registers a callback for every successful undo.
	OnUndo(func(undone MoveRecord))

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome Outcome))
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Players  [2]string          // display names, index 0 moves first
	MaxUndos int                // session undo budget
	Layout   rules.Layout       // terrain and starting pieces
	Now      func() time.Time   // clock for move timestamps
	Logger   *zap.SugaredLogger // nil disables logging
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Players:  [2]string{"Player 1", "Player 2"},
		MaxUndos: history.DefaultMaxUndos,
		Layout:   rules.StandardLayout(),
		Now:      time.Now,
	}
}

// MoveRecord is one entry of the move log.
type MoveRecord struct {
	Sequence   int            `json:"sequence_number" bson:"sequence_number"`
	MoverName  string         `json:"mover_name" bson:"mover_name"`
	MoverIndex types.Player   `json:"mover_index" bson:"mover_index"`
	Species    rules.Species  `json:"species" bson:"species"`
	From       types.Position `json:"from" bson:"from"`
	To         types.Position `json:"to" bson:"to"`
	Captured   rules.Species  `json:"captured" bson:"captured"`
	Time       time.Time      `json:"timestamp" bson:"timestamp"`
}

// MoveString renders the move the way a player types it.
func (m MoveRecord) MoveString() string {
	return types.MoveString(m.From, m.To)
}

// IsCapture reports whether the move removed an enemy piece.
func (m MoveRecord) IsCapture() bool {
	return m.Captured != rules.NoSpecies
}

// WinReason says how a game was won.
type WinReason string

const (
	WinByDen         WinReason = "den"
	WinByElimination WinReason = "elimination"
)

// Outcome is the result of a finished game.
type Outcome struct {
	Winner types.Player `json:"winner" bson:"winner"`
	Name   string       `json:"name" bson:"name"`
	Reason WinReason    `json:"reason" bson:"reason"`
}

func (o Outcome) String() string {
	switch o.Reason {
	case WinByDen:
		return fmt.Sprintf("%s wins by reaching the den", o.Name)
	case WinByElimination:
		return fmt.Sprintf("%s wins by capturing every piece", o.Name)
	}
	return fmt.Sprintf("%s wins", o.Name)
}

// ErrGameOver is returned for moves and undos after the game has ended.
var ErrGameOver = errors.New("game is over")

// Refusal reasons carried by IllegalMoveError.
const (
	ReasonNoPiece     = "no piece at source"
	ReasonNotYours    = "not your piece"
	ReasonOwnPiece    = "cannot capture your own piece"
	ReasonCantCapture = "cannot capture that piece"
)

// IllegalMoveError is a recoverable refusal of a ply.
type IllegalMoveError struct {
	From, To types.Position
	Reason   string
	Err      error // underlying rules.MoveViolation, if any
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", types.MoveString(e.From, e.To), e.Reason)
}

func (e *IllegalMoveError) Unwrap() error {
	return e.Err
}

// State is the complete mutable game state, used to save and restore a game.
type State struct {
	Players   [2]string
	Turn      types.Player
	UndoCount int
	MaxUndos  *int // nil keeps the budget of the restoring config
	Occupants map[types.Position]rules.Piece
	MoveLog   []MoveRecord
	Snapshots []history.Snapshot
	Outcome   *Outcome
}
