package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDbDelegatesToSession(t *testing.T) {
	session := NewSessionMock()
	session.On("Databases").Return([]string{"shop"}, nil)
	session.On("Ping").Return(nil)

	dbClient := NewDbWithSession(session)

	names, err := dbClient.Databases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"shop"}, names)
	assert.NoError(t, dbClient.Ping(context.Background()))
}

func TestDbRejectsUseAfterClose(t *testing.T) {
	session := NewSessionMock()
	dbClient := NewDbWithSession(session)

	require.NoError(t, dbClient.Close())

	_, err := dbClient.Aggregate(context.Background(), "shop", "orders", bson.A{})
	assert.Error(t, err)
	_, err = dbClient.Databases(context.Background())
	assert.Error(t, err)
	session.AssertNotCalled(t, "Aggregate")

	// Closing twice is a no-op.
	assert.NoError(t, dbClient.Close())
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(mongo.ErrClientDisconnected))
	assert.False(t, IsUnavailable(errors.New("unknown operator")))
	assert.False(t, IsUnavailable(nil))
}

func TestStaticCursor(t *testing.T) {
	cursor := NewStaticCursor([]bson.M{{"a": int32(1)}, {"a": int32(2)}})
	ctx := context.Background()

	var seen []int32
	for cursor.Next(ctx) {
		var doc bson.M
		require.NoError(t, cursor.Decode(&doc))
		seen = append(seen, doc["a"].(int32))
	}
	require.NoError(t, cursor.Err())
	assert.Equal(t, []int32{1, 2}, seen)

	require.NoError(t, cursor.Close(ctx))
	assert.True(t, cursor.Closed())
	assert.False(t, cursor.Next(ctx), "a closed cursor yields nothing")
}

func TestFailingCursor(t *testing.T) {
	cursorErr := errors.New("connection reset")
	cursor := NewFailingCursor([]bson.M{{"a": int32(1)}}, cursorErr)
	ctx := context.Background()

	assert.True(t, cursor.Next(ctx))
	assert.False(t, cursor.Next(ctx))
	assert.ErrorIs(t, cursor.Err(), cursorErr)
}
