// Package redisstore keeps saves and records in Redis as JSON strings.
package redisstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"junglequest/persist"
	"junglequest/record"
)

// KeyPrefix namespaces every key the store writes.
const KeyPrefix = "junglequest:"

// Store is a persist.Store on a Redis server. Each kind keeps a sorted set of
// its keys scored by write time, so List does not need SCAN.
type Store struct {
	client *redis.Client
	log    *zap.SugaredLogger
	now    func() time.Time
}

var _ persist.Store = (*Store)(nil)

// Dial connects to url, either a redis:// URL or a host:port address, and pings it.
func Dial(ctx context.Context, url string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	opts := &redis.Options{Addr: url}
	if strings.Contains(url, "://") {
		var err error
		if opts, err = redis.ParseURL(url); err != nil {
			return nil, &persist.PersistenceError{Op: "connect", Key: url, Err: err}
		}
	}
	client := redis.NewClient(opts)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		client.Close()
		return nil, &persist.PersistenceError{Op: "connect", Key: opts.Addr, Err: err}
	}

	log.Infow("connected to redis", "addr", opts.Addr)
	return &Store{client: client, log: log, now: time.Now}, nil
}

func dataKey(kind persist.Kind, key string) string {
	return KeyPrefix + string(kind) + ":" + key
}

func indexKey(kind persist.Kind) string {
	return KeyPrefix + string(kind) + "s"
}

func (s *Store) put(ctx context.Context, kind persist.Kind, key string, data []byte) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, dataKey(kind, key), data, 0)
		p.ZAdd(ctx, indexKey(kind), redis.Z{Score: float64(s.now().UnixMilli()), Member: key})
		return nil
	})
	return err
}

func (s *Store) get(ctx context.Context, kind persist.Kind, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, dataKey(kind, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, persist.ErrNotFound
	}
	return data, err
}

// PutSave writes the save under key.
func (s *Store) PutSave(ctx context.Context, key string, sf *persist.SaveFile) error {
	if err := persist.CheckKey("save", key); err != nil {
		return err
	}
	var b bytes.Buffer
	if err := persist.Encode(&b, sf); err != nil {
		return &persist.PersistenceError{Op: "save", Key: key, Err: err}
	}
	if err := s.put(ctx, persist.KindSave, key, b.Bytes()); err != nil {
		return &persist.PersistenceError{Op: "save", Key: key, Err: err}
	}
	s.log.Infow("game saved", "key", key, "backend", "redis")
	return nil
}

// GetSave reads the save under key.
func (s *Store) GetSave(ctx context.Context, key string) (*persist.SaveFile, error) {
	if err := persist.CheckKey("load", key); err != nil {
		return nil, err
	}
	data, err := s.get(ctx, persist.KindSave, key)
	if err != nil {
		return nil, &persist.PersistenceError{Op: "load", Key: key, Err: err}
	}
	sf, err := persist.Decode(bytes.NewReader(data))
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
	if err := s.put(ctx, persist.KindRecord, key, b.Bytes()); err != nil {
		return &persist.PersistenceError{Op: "record", Key: key, Err: err}
	}
	s.log.Infow("game recorded", "key", key, "moves", f.TotalMoves, "backend", "redis")
	return nil
}

// GetRecord reads the record under key.
func (s *Store) GetRecord(ctx context.Context, key string) (*record.File, error) {
	if err := persist.CheckKey("replay", key); err != nil {
		return nil, err
	}
	data, err := s.get(ctx, persist.KindRecord, key)
	if err != nil {
		return nil, &persist.PersistenceError{Op: "replay", Key: key, Err: err}
	}
	f, err := record.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &persist.PersistenceError{Op: "replay", Key: key, Err: err}
	}
	return f, nil
}

// List returns keys of kind, most recently written first.
func (s *Store) List(ctx context.Context, kind persist.Kind) ([]string, error) {
	keys, err := s.client.ZRevRange(ctx, indexKey(kind), 0, -1).Result()
	if err != nil {
		return nil, &persist.PersistenceError{Op: "list", Key: string(kind), Err: err}
	}
	return keys, nil
}

// Close closes the client.
func (s *Store) Close(ctx context.Context) error {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			return fmt.Errorf("close redis: %w", err)
		}
	}
	return nil
}
