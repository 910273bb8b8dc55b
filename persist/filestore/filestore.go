// Package filestore keeps saves and records as JSON files in a directory tree.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"junglequest/persist"
	"junglequest/record"
)

const (
	savesDir   = "saves"
	recordsDir = "records"
	ext        = ".json"
)

// DefaultDir returns the data directory used when none is configured.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "junglequest")
}

// Store writes saves to <dir>/saves and records to <dir>/records.
type Store struct {
	dir string
	log *zap.SugaredLogger
}

var _ persist.Store = (*Store)(nil)

// New creates the directory layout under dir. An empty dir means DefaultDir.
func New(dir string, log *zap.SugaredLogger) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	for _, sub := range []string{savesDir, recordsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, &persist.PersistenceError{Op: "open", Key: dir, Err: err}
		}
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// RecordDir returns the directory holding records, also used by live recording.
func (s *Store) RecordDir() string {
	return filepath.Join(s.dir, recordsDir)
}

func (s *Store) path(kind persist.Kind, key string) string {
	sub := savesDir
	if kind == persist.KindRecord {
		sub = recordsDir
	}
	return filepath.Join(s.dir, sub, key+ext)
}

// PutSave writes the save under key, replacing any previous one.
func (s *Store) PutSave(ctx context.Context, key string, sf *persist.SaveFile) error {
	if err := persist.CheckKey("save", key); err != nil {
		return err
	}
	var b bytes.Buffer
	if err := persist.Encode(&b, sf); err != nil {
		return &persist.PersistenceError{Op: "save", Key: key, Err: err}
	}
	if err := writeAtomic(s.path(persist.KindSave, key), b.Bytes()); err != nil {
		return &persist.PersistenceError{Op: "save", Key: key, Err: err}
	}
	s.log.Infow("game saved", "key", key, "path", s.path(persist.KindSave, key))
	return nil
}

// GetSave reads the save under key.
func (s *Store) GetSave(ctx context.Context, key string) (*persist.SaveFile, error) {
	if err := persist.CheckKey("load", key); err != nil {
		return nil, err
	}
	var sf *persist.SaveFile
	err := s.read(persist.KindSave, key, func(r io.Reader) (err error) {
		sf, err = persist.Decode(r)
		return err
	})
	if err != nil {
		return nil, &persist.PersistenceError{Op: "load", Key: key, Err: err}
	}
	return sf, nil
}

// PutRecord writes a record under key.
func (s *Store) PutRecord(ctx context.Context, key string, f *record.File) error {
	if err := persist.CheckKey("record", key); err != nil {
		return err
	}
	var b bytes.Buffer
	if err := record.Encode(&b, f); err != nil {
		return &persist.PersistenceError{Op: "record", Key: key, Err: err}
	}
	if err := writeAtomic(s.path(persist.KindRecord, key), b.Bytes()); err != nil {
		return &persist.PersistenceError{Op: "record", Key: key, Err: err}
	}
	s.log.Infow("game recorded", "key", key, "moves", f.TotalMoves)
	return nil
}

// GetRecord reads the record under key.
func (s *Store) GetRecord(ctx context.Context, key string) (*record.File, error) {
	if err := persist.CheckKey("replay", key); err != nil {
		return nil, err
	}
	var f *record.File
	err := s.read(persist.KindRecord, key, func(r io.Reader) (err error) {
		f, err = record.Decode(r)
		return err
	})
	if err != nil {
		return nil, &persist.PersistenceError{Op: "replay", Key: key, Err: err}
	}
	return f, nil
}

func (s *Store) read(kind persist.Kind, key string, decode func(io.Reader) error) error {
	f, err := os.Open(s.path(kind, key))
	if errors.Is(err, os.ErrNotExist) {
		return persist.ErrNotFound
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return decode(f)
}

// List returns keys of kind, newest file first.
func (s *Store) List(ctx context.Context, kind persist.Kind) ([]string, error) {
	dir := filepath.Dir(s.path(kind, "x"))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &persist.PersistenceError{Op: "list", Err: err}
	}

	type item struct {
		key   string
		mtime int64
	}
	var items []item
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, item{key: strings.TrimSuffix(e.Name(), ext), mtime: info.ModTime().UnixNano()})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].mtime != items[j].mtime {
			return items[i].mtime > items[j].mtime
		}
		return items[i].key > items[j].key
	})

	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.key
	}
	return keys, nil
}

// Close is a no-op; files are closed after every operation.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// writeAtomic writes data to a temp file next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", tmp.Name(), err)
	}
	return nil
}
