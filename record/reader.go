package record

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Info holds metadata read from a record file.
type Info struct {
	FilePath  string
	FileName  string
	GameID    string
	Players   [2]string
	Timestamp time.Time
	Result    string
	MoveCount int
}

// ReadFile opens and decodes a record file.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// ParseHeader reads a record file and extracts its metadata.
func ParseHeader(path string) (*Info, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Info{
		FilePath:  path,
		FileName:  filepath.Base(path),
		GameID:    doc.GameID,
		Players:   doc.Players,
		Timestamp: doc.Timestamp,
		Result:    doc.Result,
		MoveCount: doc.TotalMoves,
	}, nil
}

// ListRecords scans dir for record files and returns their metadata, newest first.
// A missing directory yields no records. Unreadable files are skipped.
func ListRecords(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read record dir: %w", err)
	}

	var records []Info
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := ParseHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		records = append(records, *info)
	}
	return records, nil
}
