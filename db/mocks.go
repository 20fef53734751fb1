package db

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
)

type SessionMock struct {
	mock.Mock
}

func NewSessionMock() *SessionMock {
	return &SessionMock{}
}

func (o *SessionMock) Aggregate(
	ctx context.Context, database string, collection string, pipeline bson.A,
) ([]bson.M, error) {
	args := o.Called(database, collection, pipeline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bson.M), args.Error(1)
}

func (o *SessionMock) Find(
	ctx context.Context, database string, collection string, filter interface{}, findOptions *FindOptions,
) (Cursor, error) {
	args := o.Called(database, collection, filter, findOptions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Cursor), args.Error(1)
}

func (o *SessionMock) InsertOne(
	ctx context.Context, database string, collection string, document interface{},
) (interface{}, error) {
	args := o.Called(database, collection, document)
	return args.Get(0), args.Error(1)
}

func (o *SessionMock) DeleteOne(
	ctx context.Context, database string, collection string, filter interface{},
) (int64, error) {
	args := o.Called(database, collection, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (o *SessionMock) DropCollection(ctx context.Context, database string, collection string) error {
	args := o.Called(database, collection)
	return args.Error(0)
}

func (o *SessionMock) RenameCollection(
	ctx context.Context, database string, collection string, target string,
) error {
	args := o.Called(database, collection, target)
	return args.Error(0)
}

func (o *SessionMock) Indexes(ctx context.Context, database string, collection string) ([]bson.M, error) {
	args := o.Called(database, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bson.M), args.Error(1)
}

func (o *SessionMock) CollectionStats(
	ctx context.Context, database string, collection string,
) (bson.M, error) {
	args := o.Called(database, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(bson.M), args.Error(1)
}

func (o *SessionMock) Collections(ctx context.Context, database string) ([]string, error) {
	args := o.Called(database)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (o *SessionMock) Databases(ctx context.Context) ([]string, error) {
	args := o.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (o *SessionMock) Ping(ctx context.Context) error {
	args := o.Called()
	return args.Error(0)
}

// StaticCursor replays a fixed document slice, standing in for a store
// cursor in tests.
type StaticCursor struct {
	docs   []bson.M
	index  int
	closed bool
	err    error
}

func NewStaticCursor(docs []bson.M) *StaticCursor {
	return &StaticCursor{docs: docs, index: -1}
}

// NewFailingCursor yields the given documents, then reports err.
func NewFailingCursor(docs []bson.M, err error) *StaticCursor {
	return &StaticCursor{docs: docs, index: -1, err: err}
}

func (c *StaticCursor) Next(ctx context.Context) bool {
	if c.closed {
		return false
	}
	c.index++
	return c.index < len(c.docs)
}

func (c *StaticCursor) Decode(out interface{}) error {
	raw, err := bson.Marshal(c.docs[c.index])
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func (c *StaticCursor) Err() error {
	if c.index >= len(c.docs) {
		return c.err
	}
	return nil
}

func (c *StaticCursor) Close(ctx context.Context) error {
	c.closed = true
	return nil
}

func (c *StaticCursor) Closed() bool {
	return c.closed
}
