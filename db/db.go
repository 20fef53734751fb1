package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/atomic"
)

const defaultConnectTimeout = 5 * time.Second
const defaultOperationTimeout = 30 * time.Second

// Db represents a connection to a document store
type Db struct {
	session Session
	client  *mongo.Client
	closed  *atomic.Bool
}

// NewDb connects to the store at the given URI and verifies connectivity
func NewDb(uri string) (*Db, error) {
	if uri == "" {
		return nil, errors.New("store URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Db{
		session: &mongoSession{client: client, timeout: defaultOperationTimeout},
		client:  client,
		closed:  atomic.NewBool(false),
	}, nil
}

// NewDbWithSession builds a Db over an existing session, used by tests.
func NewDbWithSession(session Session) *Db {
	return &Db{
		session: session,
		closed:  atomic.NewBool(false),
	}
}

func (db *Db) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	if db.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()
	return db.client.Disconnect(ctx)
}

func (db *Db) guard() error {
	if db.closed.Load() {
		return errors.New("store connection is closed")
	}
	return nil
}

func (db *Db) Aggregate(
	ctx context.Context, database string, collection string, pipeline bson.A,
) ([]bson.M, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	return db.session.Aggregate(ctx, database, collection, pipeline)
}

func (db *Db) Find(
	ctx context.Context, database string, collection string, filter interface{}, findOptions *FindOptions,
) (Cursor, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	return db.session.Find(ctx, database, collection, filter, findOptions)
}

func (db *Db) InsertOne(
	ctx context.Context, database string, collection string, document interface{},
) (interface{}, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	return db.session.InsertOne(ctx, database, collection, document)
}

func (db *Db) DeleteOne(
	ctx context.Context, database string, collection string, filter interface{},
) (int64, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	return db.session.DeleteOne(ctx, database, collection, filter)
}

func (db *Db) DropCollection(ctx context.Context, database string, collection string) error {
	if err := db.guard(); err != nil {
		return err
	}
	return db.session.DropCollection(ctx, database, collection)
}

func (db *Db) RenameCollection(ctx context.Context, database string, collection string, target string) error {
	if err := db.guard(); err != nil {
		return err
	}
	return db.session.RenameCollection(ctx, database, collection, target)
}

func (db *Db) Indexes(ctx context.Context, database string, collection string) ([]bson.M, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	return db.session.Indexes(ctx, database, collection)
}

func (db *Db) CollectionStats(ctx context.Context, database string, collection string) (bson.M, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	return db.session.CollectionStats(ctx, database, collection)
}

func (db *Db) Collections(ctx context.Context, database string) ([]string, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	return db.session.Collections(ctx, database)
}

func (db *Db) Databases(ctx context.Context) ([]string, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	return db.session.Databases(ctx)
}

func (db *Db) Ping(ctx context.Context) error {
	if err := db.guard(); err != nil {
		return err
	}
	return db.session.Ping(ctx)
}

// IsUnavailable distinguishes "store unreachable" failures from plan
// rejections after the request reached the store.
func IsUnavailable(err error) bool {
	return mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected)
}
