package persist

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"junglequest/record"
)

// ErrNotFound is returned when no document exists under a key.
var ErrNotFound = errors.New("not found")

// Kind separates saves from records within a store.
type Kind string

const (
	KindSave   Kind = "save"
	KindRecord Kind = "record"
)

// Store is a durable home for saves and records, addressed by key.
type Store interface {
	PutSave(ctx context.Context, key string, s *SaveFile) error
	GetSave(ctx context.Context, key string) (*SaveFile, error)
	PutRecord(ctx context.Context, key string, f *record.File) error
	GetRecord(ctx context.Context, key string) (*record.File, error)

	// List returns the keys of kind, most recently written first.
	List(ctx context.Context, kind Kind) ([]string, error)

	Close(ctx context.Context) error
}

// PersistenceError wraps a failed store operation. The game state is never
// touched by a failed save or load.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// CheckKey rejects keys that are not safe as file names and store keys.
func CheckKey(op, key string) error {
	if !keyPattern.MatchString(key) {
		return &PersistenceError{Op: op, Key: key, Err: errors.New("key must be letters, digits, '.', '_' or '-'")}
	}
	return nil
}
