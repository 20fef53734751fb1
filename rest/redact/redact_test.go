package redact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDocumentLeavesSmallDocumentsAlone(t *testing.T) {
	r := New(0, 0)
	document := bson.M{"_id": "1", "name": "short"}

	got := r.Document(document)

	assert.Equal(t, bson.M{"_id": "1", "name": "short"}, got)
}

func TestDocumentReplacesOversizedField(t *testing.T) {
	r := Redactor{FieldBytes: 50, DocumentBytes: 100 * 1024}
	big := strings.Repeat("x", 200)
	document := bson.M{"_id": "1", "blob": big, "name": "short"}

	got := r.Document(document)

	assert.Equal(t, "short", got["name"])
	assert.Equal(t, "1", got["_id"])

	stub, ok := got["blob"].(Field)
	require.True(t, ok, "oversized field should be replaced by a stub, got %T", got["blob"])
	assert.Equal(t, "blob", stub.Attribute)
	assert.Equal(t, Label, stub.Label)
	assert.Equal(t, "1", stub.DocumentId)
	assert.Equal(t, 202, stub.RawSize) // 200 chars plus the quotes
	assert.LessOrEqual(t, len(stub.Preview), 80)
	assert.True(t, strings.HasPrefix(stub.Preview, `"xxxx`), "preview should show the serialized prefix")
	assert.NotEmpty(t, stub.Size)
	assert.NotEmpty(t, stub.Threshold)
}

func TestDocumentSecondPassSparesIdAndSmallFields(t *testing.T) {
	// Fields stay under the field threshold but the document as a whole does
	// not fit, forcing the second pass.
	r := Redactor{FieldBytes: 1000, DocumentBytes: 200}
	document := bson.M{
		"_id":  "1",
		"note": "hi",
		"a":    strings.Repeat("a", 150),
		"b":    strings.Repeat("b", 150),
	}

	got := r.Document(document)

	assert.Equal(t, "1", got["_id"], "identity field is exempt from the document pass")
	assert.Equal(t, "hi", got["note"], "fields under the size floor are kept")

	for _, attribute := range []string{"a", "b"} {
		stub, ok := got[attribute].(Field)
		require.True(t, ok, "field %q should be a stub, got %T", attribute, got[attribute])
		assert.Equal(t, attribute, stub.Attribute)
	}
}

func TestDocumentIsIdempotent(t *testing.T) {
	r := Redactor{FieldBytes: 50, DocumentBytes: 120}
	document := bson.M{"_id": "1", "blob": strings.Repeat("x", 200)}

	first := r.Document(document)
	stub := first["blob"]

	second := r.Document(first)

	assert.Equal(t, stub, second["blob"], "a stub must never be re-stubbed")
}

func TestDocumentRecognizesDeserializedStubs(t *testing.T) {
	// Stubs that went through serialization come back as plain documents and
	// must still be recognized.
	asMap := bson.M{"label": Label, "attribute": "blob"}
	asDoc := bson.D{{Key: "attribute", Value: "blob"}, {Key: "label", Value: Label}}

	r := Redactor{FieldBytes: 10, DocumentBytes: 20}
	got := r.Document(bson.M{"_id": "1", "a": asMap, "b": asDoc})

	assert.Equal(t, asMap, got["a"])
	assert.Equal(t, asDoc, got["b"])
}

func TestDocuments(t *testing.T) {
	r := Redactor{FieldBytes: 50, DocumentBytes: 100 * 1024}
	docs := []bson.M{
		{"_id": "1", "blob": strings.Repeat("x", 200)},
		{"_id": "2", "name": "short"},
	}

	got := r.Documents(docs)

	require.Len(t, got, 2)
	_, stubbed := got[0]["blob"].(Field)
	assert.True(t, stubbed)
	assert.Equal(t, "short", got[1]["name"])
}

func TestNewAppliesDefaults(t *testing.T) {
	r := New(0, -1)
	assert.Equal(t, DefaultFieldBytes, r.FieldBytes)
	assert.Equal(t, DefaultDocumentBytes, r.DocumentBytes)

	r = New(64, 512)
	assert.Equal(t, 64, r.FieldBytes)
	assert.Equal(t, 512, r.DocumentBytes)
}

func TestEstimateByteSize(t *testing.T) {
	assert.Equal(t, len(`"abc"`), EstimateByteSize("abc"))
	assert.Equal(t, len(`{"a":"b"}`), EstimateByteSize(bson.M{"a": "b"}))
	assert.Equal(t, len(`{"a":"b"}`), EstimateByteSize(bson.D{{Key: "a", Value: "b"}}))
}
