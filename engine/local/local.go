// Package local implements engine.GameEngine for two players sharing one terminal.
package local

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"junglequest/engine"
	"junglequest/history"
	"junglequest/rules"
	"junglequest/types"
)

// Engine owns the game state and applies plies in turn order.
type Engine struct {
	config  engine.GameConfig
	log     *zap.SugaredLogger
	board   *rules.Board
	players [2]types.PlayerInfo
	turn    types.Player
	undo    *history.Manager
	moves   []engine.MoveRecord
	outcome *engine.Outcome

	moveCallback func(rec engine.MoveRecord)
	undoCallback func(undone engine.MoveRecord)
	endCallback  func(outcome engine.Outcome)

	mu sync.Mutex
}

var _ engine.GameEngine = (*Engine)(nil)

// New starts a fresh game with the layout's starting pieces. Player 1 moves first.
func New(cfg engine.GameConfig) *Engine {
	cfg = withDefaults(cfg)
	e := &Engine{
		config: cfg,
		log:    cfg.Logger,
		board:  rules.NewBoard(cfg.Layout),
		turn:   types.Player1,
		undo:   history.NewManager(cfg.MaxUndos),
	}
	for i, name := range cfg.Players {
		e.players[i] = types.PlayerInfo{Name: name, Index: types.Player(i)}
	}
	return e
}

// NewFromState restores a game exported with Export or decoded from a save.
// Terrain is rebuilt from the layout; only occupants come from st.
func NewFromState(cfg engine.GameConfig, st engine.State) (*Engine, error) {
	if !st.Turn.Valid() {
		return nil, fmt.Errorf("invalid current turn %d", st.Turn)
	}
	cfg.Players = st.Players
	if st.MaxUndos != nil {
		cfg.MaxUndos = *st.MaxUndos
	}
	e := New(cfg)

	if pos, ok := e.board.SetOccupants(st.Occupants); !ok {
		return nil, fmt.Errorf("occupant at %s cannot be placed", pos)
	}
	undo, err := history.Restore(e.config.MaxUndos, st.UndoCount, st.Snapshots)
	if err != nil {
		return nil, err
	}
	e.undo = undo
	e.turn = st.Turn
	e.moves = append([]engine.MoveRecord(nil), st.MoveLog...)
	if st.Outcome != nil {
		o := *st.Outcome
		e.outcome = &o
	}
	return e, nil
}

func withDefaults(cfg engine.GameConfig) engine.GameConfig {
	def := engine.DefaultConfig()
	if cfg.Layout.Setup == nil && cfg.Layout.Water == nil {
		cfg.Layout = def.Layout
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	for i := range cfg.Players {
		if cfg.Players[i] == "" {
			cfg.Players[i] = def.Players[i]
		}
	}
	return cfg
}

// Board returns the live board.
func (e *Engine) Board() *rules.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// Players returns both players.
func (e *Engine) Players() [2]types.PlayerInfo {
	return e.players
}

// CurrentTurn returns the player to move.
func (e *Engine) CurrentTurn() types.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turn
}

// PlayMove runs one ply: validate, resolve any capture, snapshot, move, then check for a win.
func (e *Engine) PlayMove(from, to types.Position) (engine.MoveRecord, error) {
	e.mu.Lock()

	if e.outcome != nil {
		e.mu.Unlock()
		return engine.MoveRecord{}, engine.ErrGameOver
	}

	mover := e.turn
	attacker, ok := e.board.PieceAt(from)
	if !ok {
		e.mu.Unlock()
		return engine.MoveRecord{}, e.refuse(from, to, engine.ReasonNoPiece, nil)
	}
	if attacker.Owner != mover {
		e.mu.Unlock()
		return engine.MoveRecord{}, e.refuse(from, to, engine.ReasonNotYours, nil)
	}
	if err := rules.CheckMove(e.board, from, to, mover); err != nil {
		e.mu.Unlock()
		var mv *rules.MoveViolation
		reason := err.Error()
		if errors.As(err, &mv) {
			reason = mv.Reason()
		}
		return engine.MoveRecord{}, e.refuse(from, to, reason, err)
	}

	captured := rules.NoSpecies
	if defender, occupied := e.board.PieceAt(to); occupied {
		if defender.Owner == mover {
			e.mu.Unlock()
			return engine.MoveRecord{}, e.refuse(from, to, engine.ReasonOwnPiece, nil)
		}
		if !rules.CanCapture(attacker, e.board.Terrain(from), defender, e.board.Terrain(to)) {
			e.mu.Unlock()
			return engine.MoveRecord{}, e.refuse(from, to, engine.ReasonCantCapture, nil)
		}
		captured = defender.Species
	}

	e.undo.Record(e.board, mover)
	if captured != rules.NoSpecies {
		e.board.Remove(to)
	}
	e.board.Relocate(from, to)

	rec := engine.MoveRecord{
		Sequence:   len(e.moves) + 1,
		MoverName:  e.players[mover].Name,
		MoverIndex: mover,
		Species:    attacker.Species,
		From:       from,
		To:         to,
		Captured:   captured,
		Time:       e.config.Now().UTC().Truncate(time.Millisecond),
	}
	e.moves = append(e.moves, rec)

	opponent := mover.Opponent()
	switch {
	case to == e.board.Den(opponent):
		e.outcome = &engine.Outcome{Winner: mover, Name: e.players[mover].Name, Reason: engine.WinByDen}
	case e.board.Count(opponent) == 0:
		e.outcome = &engine.Outcome{Winner: mover, Name: e.players[mover].Name, Reason: engine.WinByElimination}
	default:
		e.turn = opponent
	}
	var outcome *engine.Outcome
	if e.outcome != nil {
		o := *e.outcome
		outcome = &o
	}
	e.mu.Unlock()

	if rec.IsCapture() {
		e.log.Infow("move applied", "seq", rec.Sequence, "player", rec.MoverName, "move", rec.MoveString(),
			"species", rec.Species, "captured", rec.Captured)
	} else {
		e.log.Infow("move applied", "seq", rec.Sequence, "player", rec.MoverName, "move", rec.MoveString(),
			"species", rec.Species)
	}

	// Notify callbacks outside the lock so they may query the engine.
	if e.moveCallback != nil {
		e.moveCallback(rec)
	}
	if outcome != nil {
		e.log.Infow("game over", "winner", outcome.Name, "reason", outcome.Reason)
		if e.endCallback != nil {
			e.endCallback(*outcome)
		}
	}
	return rec, nil
}

func (e *Engine) refuse(from, to types.Position, reason string, cause error) error {
	e.log.Debugw("move refused", "from", from, "to", to, "reason", reason)
	return &engine.IllegalMoveError{From: from, To: to, Reason: reason, Err: cause}
}

// restorer lets the undo manager write the turn without exposing a setter on Engine.
type restorer struct{ e *Engine }

func (r restorer) Board() *rules.Board { return r.e.board }
func (r restorer) SetTurn(p types.Player) { r.e.turn = p }

// Undo reverts the most recent ply. It is refused once the game is over.
func (e *Engine) Undo() error {
	e.mu.Lock()

	if e.outcome != nil {
		e.mu.Unlock()
		return engine.ErrGameOver
	}
	if err := e.undo.Undo(restorer{e}); err != nil {
		e.mu.Unlock()
		e.log.Debugw("undo refused", "err", err)
		return err
	}

	var undone engine.MoveRecord
	if n := len(e.moves); n > 0 {
		undone = e.moves[n-1]
		e.moves = e.moves[:n-1]
	}
	remaining := e.undo.Remaining()
	e.mu.Unlock()

	e.log.Infow("undo", "move", undone.MoveString(), "remaining", remaining)
	if e.undoCallback != nil {
		e.undoCallback(undone)
	}
	return nil
}

// Outcome reports the winner once the game is over.
func (e *Engine) Outcome() (engine.Outcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.outcome == nil {
		return engine.Outcome{}, false
	}
	return *e.outcome, true
}

// MaxUndos returns the undo budget this game was started with.
func (e *Engine) MaxUndos() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.MaxUndos()
}

// UndosRemaining returns the undo budget left.
func (e *Engine) UndosRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.Remaining()
}

// PiecesRemaining returns how many pieces p has left.
func (e *Engine) PiecesRemaining(p types.Player) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.Count(p)
}

// MoveLog returns a copy of the applied moves.
func (e *Engine) MoveLog() []engine.MoveRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.MoveRecord(nil), e.moves...)
}

// Export captures the complete state for saving.
func (e *Engine) Export() engine.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	maxUndos := e.undo.MaxUndos()
	st := engine.State{
		Players:   [2]string{e.players[0].Name, e.players[1].Name},
		Turn:      e.turn,
		UndoCount: e.undo.UndoCount(),
		MaxUndos:  &maxUndos,
		Occupants: e.board.Occupants(),
		MoveLog:   append([]engine.MoveRecord(nil), e.moves...),
		Snapshots: e.undo.Snapshots(),
	}
	if e.outcome != nil {
		o := *e.outcome
		st.Outcome = &o
	}
	return st
}

// OnMove registers a callback for applied plies.
func (e *Engine) OnMove(callback func(rec engine.MoveRecord)) {
	e.moveCallback = callback
}

// OnUndo registers a callback for successful undos.
func (e *Engine) OnUndo(callback func(undone engine.MoveRecord)) {
	e.undoCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (e *Engine) OnGameEnd(callback func(outcome engine.Outcome)) {
	e.endCallback = callback
}
