package config

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestOperationsSetAndClear(t *testing.T) {
	var op Operations

	assert.Equal(t, op, Operations(0))
	assert.False(t, op.IsSupported(DocumentInsert))

	op.Set(DocumentInsert | DocumentDelete)
	assert.True(t, op.IsSupported(DocumentInsert))
	assert.True(t, op.IsSupported(DocumentDelete))

	op.Clear(DocumentInsert)
	assert.False(t, op.IsSupported(DocumentInsert))
	assert.True(t, op.IsSupported(DocumentDelete))
}

func TestOperationsAdd(t *testing.T) {
	var op Operations
	assert.Equal(t, op, Operations(0))

	err := op.Add("DocumentInsert", "DocumentDelete", "CollectionDrop", "CollectionRename")
	assert.NoError(t, err)
	assert.True(t, op.IsSupported(DocumentInsert))
	assert.True(t, op.IsSupported(DocumentDelete))
	assert.True(t, op.IsSupported(CollectionDrop))
	assert.True(t, op.IsSupported(CollectionRename))
}

func TestOperationsAddInvalid(t *testing.T) {
	var op Operations
	err := op.Add("DocumentInsert", "TableCreate")
	assert.Error(t, err)
}

func TestOperationsClearDeleting(t *testing.T) {
	op := MutatingOperations
	op.Clear(DeletingOperations)
	assert.True(t, op.IsSupported(DocumentInsert))
	assert.True(t, op.IsSupported(CollectionRename))
	assert.False(t, op.IsSupported(DocumentDelete))
	assert.False(t, op.IsSupported(CollectionDrop))
}
