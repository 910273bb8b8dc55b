// Package mongostore keeps saves and records as MongoDB documents.
package mongostore

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"junglequest/persist"
	"junglequest/record"
)

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "junglequest"

const (
	savesCollection   = "saves"
	recordsCollection = "records"
)

type saveDoc struct {
	Key       string            `bson:"_id"`
	UpdatedAt time.Time         `bson:"updated_at"`
	Save      *persist.SaveFile `bson:"save"`
}

// Records are stored through their JSON form so timestamps and notation
// survive exactly as the record format defines them.
type recordDoc struct {
	Key        string    `bson:"_id"`
	UpdatedAt  time.Time `bson:"updated_at"`
	GameID     string    `bson:"game_id"`
	TotalMoves int       `bson:"total_moves"`
	Body       string    `bson:"body"`
}

// Store is a persist.Store on a MongoDB database.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
	log      *zap.SugaredLogger
	now      func() time.Time
}

var _ persist.Store = (*Store)(nil)

// Dial connects to uri and pings the server.
func Dial(ctx context.Context, uri, database string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if database == "" {
		database = DefaultDatabase
	}

	ctxConnect, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctxConnect, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &persist.PersistenceError{Op: "connect", Key: uri, Err: err}
	}
	if err := client.Ping(ctxConnect, nil); err != nil {
		client.Disconnect(ctx)
		return nil, &persist.PersistenceError{Op: "connect", Key: uri, Err: err}
	}

	log.Infow("connected to mongodb", "database", database)
	return &Store{client: client, database: client.Database(database), log: log, now: time.Now}, nil
}

func upsert() *options.ReplaceOptions {
	return options.Replace().SetUpsert(true)
}

// PutSave writes the save under key.
func (s *Store) PutSave(ctx context.Context, key string, sf *persist.SaveFile) error {
	if err := persist.CheckKey("save", key); err != nil {
		return err
	}
	doc := saveDoc{Key: key, UpdatedAt: s.now().UTC(), Save: sf}
	_, err := s.database.Collection(savesCollection).ReplaceOne(ctx, bson.M{"_id": key}, doc, upsert())
	if err != nil {
		return &persist.PersistenceError{Op: "save", Key: key, Err: err}
	}
	s.log.Infow("game saved", "key", key, "backend", "mongo")
	return nil
}

// GetSave reads the save under key.
func (s *Store) GetSave(ctx context.Context, key string) (*persist.SaveFile, error) {
	if err := persist.CheckKey("load", key); err != nil {
		return nil, err
	}
	var doc saveDoc
	err := s.database.Collection(savesCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = persist.ErrNotFound
		}
		return nil, &persist.PersistenceError{Op: "load", Key: key, Err: err}
	}
	if doc.Save == nil {
		return nil, &persist.PersistenceError{Op: "load", Key: key, Err: errors.New("document has no save")}
	}
	return doc.Save, nil
}

// PutRecord writes a record under key.
func (s *Store) PutRecord(ctx context.Context, key string, f *record.File) error {
	if err := persist.CheckKey("record", key); err != nil {
		return err
	}
	var body strings.Builder
	if err := record.Encode(&body, f); err != nil {
		return &persist.PersistenceError{Op: "record", Key: key, Err: err}
	}
	doc := recordDoc{
		Key:        key,
		UpdatedAt:  s.now().UTC(),
		GameID:     f.GameID,
		TotalMoves: f.TotalMoves,
		Body:       body.String(),
	}
	_, err := s.database.Collection(recordsCollection).ReplaceOne(ctx, bson.M{"_id": key}, doc, upsert())
	if err != nil {
		return &persist.PersistenceError{Op: "record", Key: key, Err: err}
	}
	s.log.Infow("game recorded", "key", key, "moves", f.TotalMoves, "backend", "mongo")
	return nil
}

// GetRecord reads the record under key.
func (s *Store) GetRecord(ctx context.Context, key string) (*record.File, error) {
	if err := persist.CheckKey("replay", key); err != nil {
		return nil, err
	}
	var doc recordDoc
	err := s.database.Collection(recordsCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = persist.ErrNotFound
		}
		return nil, &persist.PersistenceError{Op: "replay", Key: key, Err: err}
	}
	f, err := record.Decode(strings.NewReader(doc.Body))
	if err != nil {
		return nil, &persist.PersistenceError{Op: "replay", Key: key, Err: err}
	}
	return f, nil
}

// List returns keys of kind, most recently written first.
func (s *Store) List(ctx context.Context, kind persist.Kind) ([]string, error) {
	coll := savesCollection
	if kind == persist.KindRecord {
		coll = recordsCollection
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.M{"_id": 1})

	cursor, err := s.database.Collection(coll).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, &persist.PersistenceError{Op: "list", Key: string(kind), Err: err}
	}
	defer cursor.Close(ctx)

	var keys []string
	for cursor.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, &persist.PersistenceError{Op: "list", Key: string(kind), Err: err}
		}
		keys = append(keys, doc.Key)
	}
	if err := cursor.Err(); err != nil {
		return nil, &persist.PersistenceError{Op: "list", Key: string(kind), Err: err}
	}
	return keys, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s.client != nil {
		return s.client.Disconnect(ctx)
	}
	return nil
}
