package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// FindOptions carries the non-filter parts of a find, already validated by
// the translator layer.
type FindOptions struct {
	Sort       bson.D
	Projection bson.D
	Skip       int64
	Limit      int64
}

// Cursor is a streamable result set. Close must be called on every path,
// including early returns: the store holds the cursor open otherwise.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(out interface{}) error
	Err() error
	Close(ctx context.Context) error
}

type Session interface {
	// Aggregate runs the pipeline and collects the resulting documents
	Aggregate(ctx context.Context, database string, collection string, pipeline bson.A) ([]bson.M, error)

	// Find returns a cursor over the matching documents for streaming consumers
	Find(ctx context.Context, database string, collection string, filter interface{}, findOptions *FindOptions) (Cursor, error)

	InsertOne(ctx context.Context, database string, collection string, document interface{}) (interface{}, error)
	DeleteOne(ctx context.Context, database string, collection string, filter interface{}) (int64, error)
	DropCollection(ctx context.Context, database string, collection string) error
	RenameCollection(ctx context.Context, database string, collection string, target string) error
	Indexes(ctx context.Context, database string, collection string) ([]bson.M, error)
	CollectionStats(ctx context.Context, database string, collection string) (bson.M, error)
	Collections(ctx context.Context, database string) ([]string, error)
	Databases(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

type mongoSession struct {
	client  *mongo.Client
	timeout time.Duration
}

func (s *mongoSession) collection(database string, collection string) *mongo.Collection {
	return s.client.Database(database).Collection(collection)
}

func (s *mongoSession) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *mongoSession) Aggregate(
	ctx context.Context, database string, collection string, pipeline bson.A,
) ([]bson.M, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.collection(database, collection).Aggregate(opCtx, pipeline)
	if err != nil {
		return nil, err
	}

	var results []bson.M
	if err := cursor.All(opCtx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *mongoSession) Find(
	ctx context.Context, database string, collection string, filter interface{}, findOptions *FindOptions,
) (Cursor, error) {
	opts := options.Find()
	if findOptions != nil {
		if len(findOptions.Sort) > 0 {
			opts.SetSort(findOptions.Sort)
		}
		if len(findOptions.Projection) > 0 {
			opts.SetProjection(findOptions.Projection)
		}
		if findOptions.Skip > 0 {
			opts.SetSkip(findOptions.Skip)
		}
		if findOptions.Limit > 0 {
			opts.SetLimit(findOptions.Limit)
		}
	}

	if filter == nil {
		filter = bson.D{}
	}

	// No operation timeout here: the cursor outlives the call and is paced
	// by the consumer. Cancellation arrives through ctx.
	return s.collection(database, collection).Find(ctx, filter, opts)
}

func (s *mongoSession) InsertOne(
	ctx context.Context, database string, collection string, document interface{},
) (interface{}, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.collection(database, collection).InsertOne(opCtx, document)
	if err != nil {
		return nil, err
	}
	return result.InsertedID, nil
}

func (s *mongoSession) DeleteOne(
	ctx context.Context, database string, collection string, filter interface{},
) (int64, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.collection(database, collection).DeleteOne(opCtx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (s *mongoSession) DropCollection(ctx context.Context, database string, collection string) error {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.collection(database, collection).Drop(opCtx)
}

func (s *mongoSession) RenameCollection(
	ctx context.Context, database string, collection string, target string,
) error {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	cmd := bson.D{
		{Key: "renameCollection", Value: database + "." + collection},
		{Key: "to", Value: database + "." + target},
	}
	return s.client.Database("admin").RunCommand(opCtx, cmd).Err()
}

func (s *mongoSession) Indexes(ctx context.Context, database string, collection string) ([]bson.M, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.collection(database, collection).Indexes().List(opCtx)
	if err != nil {
		return nil, err
	}

	var indexes []bson.M
	if err := cursor.All(opCtx, &indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}

func (s *mongoSession) CollectionStats(
	ctx context.Context, database string, collection string,
) (bson.M, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var stats bson.M
	cmd := bson.D{{Key: "collStats", Value: collection}}
	if err := s.client.Database(database).RunCommand(opCtx, cmd).Decode(&stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *mongoSession) Collections(ctx context.Context, database string) ([]string, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Database(database).ListCollectionNames(opCtx, bson.D{})
}

func (s *mongoSession) Databases(ctx context.Context) ([]string, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.ListDatabaseNames(opCtx, bson.D{})
}

func (s *mongoSession) Ping(ctx context.Context) error {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Ping(opCtx, readpref.Primary())
}
