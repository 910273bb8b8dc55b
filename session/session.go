// Package session routes the lines a player types into the game, its undo
// budget, and the configured store.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"junglequest/engine"
	"junglequest/engine/local"
	"junglequest/history"
	"junglequest/persist"
	"junglequest/record"
	"junglequest/types"
)

// Config holds what a session needs to start and restart games.
type Config struct {
	Players    [2]string
	MaxUndos   int    // zero allows no undos
	AutoRecord bool   // keep a live record file of every game
	RecordDir  string // where live records go
	Logger     *zap.SugaredLogger
	Now        func() time.Time
}

// Reply is the answer to one line of input.
type Reply struct {
	Message string
	Quit    bool
}

// Session owns the current game and everything attached to it.
type Session struct {
	cfg      Config
	log      *zap.SugaredLogger
	store    persist.Store
	game     *local.Engine
	gameID   string
	recorder *record.Recorder
	events   []string

	onChange func()
}

// New starts a session with a fresh game. store may be nil, in which case
// save, load, record and replay are reported as unavailable.
func New(cfg Config, store persist.Store) (*Session, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Session{cfg: cfg, log: cfg.Logger, store: store}
	if err := s.start(local.New(s.gameConfig()), uuid.NewString()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) gameConfig() engine.GameConfig {
	cfg := engine.DefaultConfig()
	cfg.Players = s.cfg.Players
	cfg.MaxUndos = s.cfg.MaxUndos
	cfg.Now = s.cfg.Now
	cfg.Logger = s.cfg.Logger
	return cfg
}

// start makes g the current game and attaches the recorder to it.
func (s *Session) start(g *local.Engine, gameID string) error {
	s.closeRecorder()
	s.game = g
	s.gameID = gameID
	s.log = s.cfg.Logger.With("game", gameID)

	if s.cfg.AutoRecord {
		names := s.names()
		rec, err := record.NewRecorder(s.cfg.RecordDir, gameID, names, s.cfg.Now())
		if err != nil {
			return err
		}
		if err := rec.AddLog(g.MoveLog()); err != nil {
			rec.Close()
			return err
		}
		if o, over := g.Outcome(); over {
			if err := rec.SetResult(o); err != nil {
				rec.Close()
				return err
			}
		}
		s.recorder = rec
		s.log.Infow("recording", "file", rec.FilePath)
	}

	g.OnMove(func(m engine.MoveRecord) {
		if m.IsCapture() {
			s.events = append(s.events, fmt.Sprintf("%s captured %s!", m.MoverName, m.Captured))
		}
		if s.recorder != nil {
			if err := s.recorder.AddMove(m); err != nil {
				s.log.Warnw("record move", "err", err)
			}
		}
	})
	g.OnUndo(func(engine.MoveRecord) {
		if s.recorder != nil {
			if err := s.recorder.UndoMoves(1); err != nil {
				s.log.Warnw("record undo", "err", err)
			}
		}
	})
	g.OnGameEnd(func(o engine.Outcome) {
		s.events = append(s.events, announce(o))
		if s.recorder != nil {
			if err := s.recorder.SetResult(o); err != nil {
				s.log.Warnw("record result", "err", err)
			}
		}
	})
	s.changed()
	return nil
}

func (s *Session) closeRecorder() {
	if s.recorder != nil {
		s.recorder.Close()
		s.recorder = nil
	}
}

// Game returns the current game.
func (s *Session) Game() *local.Engine {
	return s.game
}

// GameID returns the id of the current game.
func (s *Session) GameID() string {
	return s.gameID
}

// RecordPath returns the live record file, or "" when not recording.
func (s *Session) RecordPath() string {
	if s.recorder == nil {
		return ""
	}
	return s.recorder.FilePath
}

// OnChange registers a callback for whenever the current game is replaced.
func (s *Session) OnChange(callback func()) {
	s.onChange = callback
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Session) names() [2]string {
	p := s.game.Players()
	return [2]string{p[0].Name, p[1].Name}
}

// Status renders whose turn it is and the undo budget.
func (s *Session) Status() string {
	if o, over := s.game.Outcome(); over {
		return fmt.Sprintf("Game over: %s", o)
	}
	turn := s.game.CurrentTurn()
	return fmt.Sprintf("%s's turn (%s) | Undos remaining: %d/%d",
		s.game.Players()[turn].Name, turn, s.game.UndosRemaining(), s.game.MaxUndos())
}

// Close ends the session and flushes the live record.
func (s *Session) Close() {
	s.closeRecorder()
}

// Handle runs one line of input. Every failure is reported in the reply;
// the current game is left unchanged by anything that fails.
func (s *Session) Handle(ctx context.Context, line string) Reply {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Reply{Message: "Enter a move like 'A3 to A4', or 'help'."}
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		s.log.Infow("session ended", "moves", len(s.game.MoveLog()))
		s.Close()
		return Reply{Message: "Terminating game session...", Quit: true}
	case "undo":
		return s.undo()
	case "save":
		return s.save(ctx, arg)
	case "load":
		return s.load(ctx, arg)
	case "record":
		return s.storeRecord(ctx, arg)
	case "replay":
		return s.replay(ctx, arg)
	case "list":
		return s.list(ctx)
	case "new":
		if err := s.start(local.New(s.gameConfig()), uuid.NewString()); err != nil {
			return s.failed("new game", err)
		}
		return Reply{Message: "New game started."}
	case "help":
		return Reply{Message: helpText}
	}
	return s.move(line)
}

const helpText = `Moves: <from> to <to>, e.g. A3 to A4
undo           take back the last move
save [key]     save the game (default key: the game id)
load <key>     continue a saved game
record [key]   store the move record of this game
replay <key>   rebuild a game from a stored record and continue it
list           show stored saves and records
new            start over
quit           leave`

func (s *Session) move(line string) Reply {
	from, to, err := types.ParseMoveInput(line)
	if err != nil {
		return Reply{Message: fmt.Sprintf("Invalid input: %v. Use a move like 'A3 to A4'.", err)}
	}
	s.events = s.events[:0]
	rec, err := s.game.PlayMove(from, to)
	var illegal *engine.IllegalMoveError
	switch {
	case errors.Is(err, engine.ErrGameOver):
		return Reply{Message: "The game is over. Type 'new' to play again or 'quit'."}
	case errors.As(err, &illegal):
		return Reply{Message: fmt.Sprintf("Illegal move: %s.", illegal.Reason)}
	case err != nil:
		return s.failed("move", err)
	}

	msg := fmt.Sprintf("%s moved %s %s.", rec.MoverName, rec.Species, rec.MoveString())
	if len(s.events) > 0 {
		msg += " " + strings.Join(s.events, " ")
	}
	return Reply{Message: msg}
}

func announce(o engine.Outcome) string {
	switch o.Reason {
	case engine.WinByDen:
		return fmt.Sprintf("%s wins by entering the opponent's den!", o.Name)
	case engine.WinByElimination:
		return fmt.Sprintf("%s wins by capturing all opponent pieces!", o.Name)
	}
	return fmt.Sprintf("%s wins!", o.Name)
}

func (s *Session) undo() Reply {
	err := s.game.Undo()
	switch {
	case errors.Is(err, history.ErrUndoExhausted):
		return Reply{Message: fmt.Sprintf("Cannot undo: Maximum of %d undos per game reached.", s.game.MaxUndos())}
	case errors.Is(err, history.ErrUndoEmpty):
		return Reply{Message: "Cannot undo: No moves have been made yet."}
	case errors.Is(err, engine.ErrGameOver):
		return Reply{Message: "Cannot undo: The game is over."}
	case err != nil:
		return s.failed("undo", err)
	}
	return Reply{Message: fmt.Sprintf("✓ Move undone! (%d undos remaining)", s.game.UndosRemaining())}
}

func (s *Session) save(ctx context.Context, key string) Reply {
	if s.store == nil {
		return noStore
	}
	if key == "" {
		key = s.gameID
	}
	if _, err := persist.SaveGame(ctx, s.store, key, s.game, s.cfg.Now()); err != nil {
		return s.failed("save", err)
	}
	s.log.Infow("saved", "key", key)
	return Reply{Message: fmt.Sprintf("Game saved as %s.", key)}
}

func (s *Session) load(ctx context.Context, key string) Reply {
	if s.store == nil {
		return noStore
	}
	if key == "" {
		return Reply{Message: "Usage: load <key>"}
	}
	g, err := persist.LoadGame(ctx, s.store, key, s.gameConfig())
	if err != nil {
		return s.failed("load", err)
	}
	if err := s.start(g, key); err != nil {
		return s.failed("load", err)
	}
	s.log.Infow("loaded", "key", key, "moves", len(g.MoveLog()))
	return Reply{Message: fmt.Sprintf("Loaded %s. %s", key, s.Status())}
}

func (s *Session) storeRecord(ctx context.Context, key string) Reply {
	if s.store == nil {
		return noStore
	}
	if key == "" {
		key = s.gameID
	}
	f := record.FromLog(s.gameID, s.names(), s.game.MoveLog(), s.cfg.Now())
	if o, over := s.game.Outcome(); over {
		f.Result = o.String()
	}
	if err := s.store.PutRecord(ctx, key, f); err != nil {
		return s.failed("record", err)
	}
	s.log.Infow("record stored", "key", key, "moves", f.TotalMoves)
	return Reply{Message: fmt.Sprintf("Record of %d moves stored as %s.", f.TotalMoves, key)}
}

func (s *Session) replay(ctx context.Context, key string) Reply {
	if s.store == nil {
		return noStore
	}
	if key == "" {
		return Reply{Message: "Usage: replay <key>"}
	}
	f, err := s.store.GetRecord(ctx, key)
	if err != nil {
		return s.failed("replay", err)
	}
	return s.resume(f, key)
}

// ResumeRecord replays f and continues it as the current game.
func (s *Session) ResumeRecord(f *record.File) Reply {
	name := f.GameID
	if name == "" {
		name = "record"
	}
	return s.resume(f, name)
}

func (s *Session) resume(f *record.File, name string) Reply {
	cfg := s.gameConfig()
	g, err := record.Resume(f.Moves, f.Players, record.ReplayOptions{Config: &cfg})
	if err != nil {
		return s.failed("replay", err)
	}
	id := f.GameID
	if id == "" {
		id = uuid.NewString()
	}
	if err := s.start(g, id); err != nil {
		return s.failed("replay", err)
	}
	s.log.Infow("replayed", "name", name, "moves", len(f.Moves))
	return Reply{Message: fmt.Sprintf("Replayed %d moves of %s. %s", len(f.Moves), name, s.Status())}
}

func (s *Session) list(ctx context.Context) Reply {
	if s.store == nil {
		return noStore
	}
	var b strings.Builder
	for _, kind := range []persist.Kind{persist.KindSave, persist.KindRecord} {
		keys, err := s.store.List(ctx, kind)
		if err != nil {
			return s.failed("list", err)
		}
		fmt.Fprintf(&b, "%ss:", kind)
		if len(keys) == 0 {
			b.WriteString(" none")
		}
		for _, k := range keys {
			b.WriteString(" " + k)
		}
		b.WriteString("\n")
	}
	return Reply{Message: strings.TrimSuffix(b.String(), "\n")}
}

var noStore = Reply{Message: "No storage is configured."}

func (s *Session) failed(op string, err error) Reply {
	s.log.Warnw(op+" failed", "err", err)
	return Reply{Message: fmt.Sprintf("Could not %s: %v", op, err)}
}
