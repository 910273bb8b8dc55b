package record

import (
	"fmt"

	"junglequest/engine"
	"junglequest/engine/local"
	"junglequest/rules"
	"junglequest/types"
)

// ReplayDesyncError reports a logged move that does not fit the replayed position.
type ReplayDesyncError struct {
	Sequence int
	Reason   string
}

func (e *ReplayDesyncError) Error() string {
	return fmt.Sprintf("replay desync at move %d: %s", e.Sequence, e.Reason)
}

// ReplayOptions controls how a record is replayed.
type ReplayOptions struct {
	// Trust applies each logged move's side effects without checking legality.
	// A missing source piece is still reported.
	Trust bool

	// Layout is the starting position; the zero value means the standard board.
	Layout rules.Layout

	// Config seeds the engine Resume returns; nil means engine.DefaultConfig.
	// Its undo budget is taken as is. Players always come from the record
	// and the layout from Layout.
	Config *engine.GameConfig
}

// Replayed is the state reached by replaying a record prefix.
type Replayed struct {
	Board   *rules.Board
	Turn    types.Player
	Applied int
	Outcome *engine.Outcome
}

// Replay replays every move of f.
func Replay(f *File, opts ReplayOptions) (*Replayed, error) {
	return ReplayTo(f, len(f.Moves), opts)
}

// ReplayTo replays the first n moves of f from the starting position.
// n is clamped to the number of moves in the record.
func ReplayTo(f *File, n int, opts ReplayOptions) (*Replayed, error) {
	if n < 0 {
		n = 0
	}
	if n > len(f.Moves) {
		n = len(f.Moves)
	}
	if opts.Trust {
		return replayTrusted(f.Moves[:n], layoutOf(opts))
	}

	e, err := Resume(f.Moves[:n], f.Players, opts)
	if err != nil {
		return nil, err
	}
	pos := &Replayed{Board: e.Board(), Turn: e.CurrentTurn(), Applied: n}
	if o, over := e.Outcome(); over {
		pos.Outcome = &o
	}
	return pos, nil
}

// Resume replays moves through a fresh engine, checking every move with the
// same rules as live play, and returns the engine ready to continue the game.
func Resume(moves []Move, players [2]string, opts ReplayOptions) (*local.Engine, error) {
	cfg := engine.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	cfg.Players = players
	cfg.Layout = layoutOf(opts)
	e := local.New(cfg)

	for _, m := range moves {
		desync := func(format string, args ...interface{}) error {
			return &ReplayDesyncError{Sequence: m.Sequence, Reason: fmt.Sprintf(format, args...)}
		}
		if _, over := e.Outcome(); over {
			return nil, desync("game already ended")
		}
		if m.MoverIndex != e.CurrentTurn() {
			return nil, desync("logged mover %s but %s is to move", m.MoverIndex, e.CurrentTurn())
		}
		if p, ok := e.Board().PieceAt(m.From); ok && p.Species != m.Species {
			return nil, desync("logged %s but %s stands on %s", m.Species, p.Species, m.From)
		}
		if p, ok := e.Board().PieceAt(m.To); ok && p.Species != m.Captured && p.Owner != m.MoverIndex {
			return nil, desync("logged capture of %s but %s stands on %s", m.Captured, p.Species, m.To)
		}
		rec, err := e.PlayMove(m.From, m.To)
		if err != nil {
			return nil, desync("%v", err)
		}
		if rec.Captured != m.Captured {
			return nil, desync("logged capture of %s but move captured %s", m.Captured, rec.Captured)
		}
	}
	return e, nil
}

// replayTrusted applies side effects only: locate the source piece, remove
// any logged capture at the destination, move, and pass the turn.
func replayTrusted(moves []Move, layout rules.Layout) (*Replayed, error) {
	b := rules.NewBoard(layout)
	pos := &Replayed{Board: b, Turn: types.Player1}
	for _, m := range moves {
		if _, ok := b.PieceAt(m.From); !ok {
			return nil, &ReplayDesyncError{Sequence: m.Sequence, Reason: fmt.Sprintf("no piece on %s", m.From)}
		}
		if m.Captured != rules.NoSpecies {
			b.Remove(m.To)
		}
		b.Relocate(m.From, m.To)
		pos.Turn = pos.Turn.Opponent()
		pos.Applied++
	}
	return pos, nil
}

func layoutOf(opts ReplayOptions) rules.Layout {
	if opts.Layout.Setup == nil && opts.Layout.Water == nil {
		return rules.StandardLayout()
	}
	return opts.Layout
}
