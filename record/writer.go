package record

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"junglequest/engine"
)

// Recorder keeps the record of a game in progress on disk. Every change
// rewrites the whole file, so an interrupted session still leaves a valid record.
type Recorder struct {
	FilePath string
	doc      File
	file     *os.File
}

// NewRecorder creates a record file in dir and writes the initial header.
// An empty gameID gets a fresh UUID.
func NewRecorder(dir, gameID string, players [2]string, now time.Time) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}
	if gameID == "" {
		gameID = uuid.NewString()
	}

	path := filepath.Join(dir, FileName(gameID, now))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create record file: %w", err)
	}

	rec := &Recorder{
		FilePath: path,
		doc: File{
			Version:   Version,
			GameID:    gameID,
			Timestamp: now.UTC(),
			Players:   players,
			Moves:     []Move{},
		},
		file: f,
	}
	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}
	return rec, nil
}

// FileName returns the record file name for a game started at now.
// Names sort chronologically.
func FileName(gameID string, now time.Time) string {
	short := gameID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s_%s.json", now.Format("2006-01-02_150405"), short)
}

// GameID returns the id written into the record.
func (r *Recorder) GameID() string {
	return r.doc.GameID
}

// AddMove appends a ply to the record.
func (r *Recorder) AddMove(rec engine.MoveRecord) error {
	r.doc.Moves = append(r.doc.Moves, FromMoveRecord(rec))
	return r.flush()
}

// AddLog appends every entry of log, used when recording starts mid-game.
func (r *Recorder) AddLog(log []engine.MoveRecord) error {
	for _, rec := range log {
		r.doc.Moves = append(r.doc.Moves, FromMoveRecord(rec))
	}
	return r.flush()
}

// UndoMoves removes the last n moves from the record.
func (r *Recorder) UndoMoves(n int) error {
	if n > len(r.doc.Moves) {
		n = len(r.doc.Moves)
	}
	r.doc.Moves = r.doc.Moves[:len(r.doc.Moves)-n]
	return r.flush()
}

// SetResult stores the outcome of the game.
func (r *Recorder) SetResult(o engine.Outcome) error {
	r.doc.Result = o.String()
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *Recorder) Close() {
	if r.file == nil {
		return
	}
	r.flush()
	r.file.Close()
	r.file = nil
}

// flush rewrites the complete record file from scratch.
func (r *Recorder) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}
	r.doc.TotalMoves = len(r.doc.Moves)

	var b bytes.Buffer
	if err := Encode(&b, &r.doc); err != nil {
		return err
	}

	// Rewrite file from start
	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.Write(b.Bytes()); err != nil {
		return err
	}
	return r.file.Sync()
}

// WriteFile writes a complete record to path in one go.
func WriteFile(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create record dir: %w", err)
	}
	var b bytes.Buffer
	if err := Encode(&b, f); err != nil {
		return err
	}
	return os.WriteFile(path, b.Bytes(), 0644)
}
