package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestErrorKind(t *testing.T) {
	err := NewRequestError(InvalidIdentifier, "bad id: %q", "nope")

	assert.Equal(t, `bad id: "nope"`, err.Error())
	assert.Equal(t, InvalidIdentifier, err.Kind())
	assert.True(t, IsKind(err, InvalidIdentifier))
	assert.False(t, IsKind(err, InvalidQuery))
}

func TestKindOfWrappedError(t *testing.T) {
	inner := NewRequestError(InvalidSort, "bad direction")
	wrapped := fmt.Errorf("while building the plan: %w", inner)

	assert.Equal(t, InvalidSort, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, InvalidSort))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, QueryExecutionError, KindOf(errors.New("boom")))
	assert.False(t, IsKind(errors.New("boom"), InvalidQuery))
}

func TestKindClassification(t *testing.T) {
	buildTime := []Kind{
		InvalidLiteral, InvalidIdentifier, InvalidPattern,
		InvalidBinary, UnsupportedType, InvalidQuery, InvalidSort,
	}
	for _, kind := range buildTime {
		assert.True(t, kind.BuildTime(), kind.String())
	}
	assert.False(t, QueryExecutionError.BuildTime())
	assert.False(t, StoreUnavailable.BuildTime())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "InvalidQuery", InvalidQuery.String())
	assert.Equal(t, "StoreUnavailable", StoreUnavailable.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
