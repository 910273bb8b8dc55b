// Package archive exports game records as parquet move tables for offline analysis.
package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"junglequest/record"
)

// MoveRow is one ply of one recorded game.
type MoveRow struct {
	GameID     string `parquet:"game_id,dict"`
	Sequence   int32  `parquet:"sequence_number"`
	MoverName  string `parquet:"mover_name,dict"`
	MoverIndex int32  `parquet:"mover_index"`
	Species    string `parquet:"species,dict"`
	From       string `parquet:"from,dict"`
	To         string `parquet:"to,dict"`
	Captured   string `parquet:"captured_species,dict"`
	UnixMillis int64  `parquet:"timestamp_ms"`
	Result     string `parquet:"result,dict"`
}

// Rows flattens a record into one row per move.
func Rows(f *record.File) []MoveRow {
	rows := make([]MoveRow, 0, len(f.Moves))
	for _, m := range f.Moves {
		rows = append(rows, MoveRow{
			GameID:     f.GameID,
			Sequence:   int32(m.Sequence),
			MoverName:  m.MoverName,
			MoverIndex: int32(m.MoverIndex),
			Species:    m.Species.String(),
			From:       m.From.String(),
			To:         m.To.String(),
			Captured:   m.Captured.String(),
			UnixMillis: m.Timestamp.UnixMilli(),
			Result:     f.Result,
		})
	}
	return rows
}

// Writer streams rows into a temporary file and moves it into place on Finalize.
type Writer struct {
	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[MoveRow]

	games int
	rows  int
}

// NewWriter starts an export to outPath.
func NewWriter(outPath string) (*Writer, error) {
	if outPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(outPath), filepath.Base(outPath)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}

	w := parquet.NewGenericWriter[MoveRow](
		f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	w.SetKeyValueMetadata("schema", "jungle_move_row_v1")

	return &Writer{tmpPath: f.Name(), outPath: outPath, file: f, writer: w}, nil
}

// WriteGame appends every move of f.
func (w *Writer) WriteGame(f *record.File) error {
	if w.writer == nil || w.file == nil {
		return fmt.Errorf("archive writer is closed")
	}
	rows := Rows(f)
	if len(rows) > 0 {
		if _, err := w.writer.Write(rows); err != nil {
			return err
		}
	}
	w.games++
	w.rows += len(rows)
	return nil
}

// Finalize closes the parquet writer and renames the file into place.
// It returns the number of games and rows written.
func (w *Writer) Finalize() (games, rows int, err error) {
	if w.writer == nil && w.file == nil {
		return 0, 0, fmt.Errorf("archive writer is closed")
	}

	closeErr := w.writer.Close()
	w.writer = nil
	_ = w.file.Sync()
	fileErr := w.file.Close()
	w.file = nil

	if closeErr != nil {
		os.Remove(w.tmpPath)
		return 0, 0, fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		os.Remove(w.tmpPath)
		return 0, 0, fmt.Errorf("close parquet file: %w", fileErr)
	}
	if err := os.Rename(w.tmpPath, w.outPath); err != nil {
		return 0, 0, fmt.Errorf("rename parquet: %w", err)
	}
	return w.games, w.rows, nil
}

// ExportDir writes every record found in dir to outPath.
func ExportDir(dir, outPath string) (games, rows int, err error) {
	infos, err := record.ListRecords(dir)
	if err != nil {
		return 0, 0, err
	}
	w, err := NewWriter(outPath)
	if err != nil {
		return 0, 0, err
	}
	for _, info := range infos {
		f, err := record.ReadFile(info.FilePath)
		if err != nil {
			continue
		}
		if err := w.WriteGame(f); err != nil {
			w.Finalize()
			return 0, 0, err
		}
	}
	return w.Finalize()
}
