// Package redact bounds response sizes by replacing oversized values with
// small placeholder stubs before documents leave the process. The stored
// documents are never modified.
package redact

import (
	"github.com/dustin/go-humanize"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultFieldBytes    = 16 * 1024
	DefaultDocumentBytes = 100 * 1024
)

// Label marks a stub in the response, also used to recognize stubs on a
// second pass.
const Label = "value too large to display"

// sizeFloor is the smallest value worth replacing in the document-level
// pass: swapping anything smaller for a stub would grow the response.
const sizeFloor = 100

// previewLength caps the serialized-form prefix carried by a stub.
const previewLength = 80

const idField = "_id"

// Field is the stub substituted for an oversized value or document field.
// DocumentId allows retrieving the full value by identity later.
type Field struct {
	Attribute  string      `json:"attribute" bson:"attribute"`
	Label      string      `json:"label" bson:"label"`
	Size       string      `json:"size" bson:"size"`
	Threshold  string      `json:"threshold" bson:"threshold"`
	Preview    string      `json:"preview" bson:"preview"`
	RawSize    int         `json:"rawSize" bson:"rawSize"`
	DocumentId interface{} `json:"documentId" bson:"documentId"`
}

// Redactor applies the two independent size thresholds. Both are in bytes
// of serialized form.
type Redactor struct {
	FieldBytes    int
	DocumentBytes int
}

func New(fieldBytes int, documentBytes int) Redactor {
	if fieldBytes <= 0 {
		fieldBytes = DefaultFieldBytes
	}
	if documentBytes <= 0 {
		documentBytes = DefaultDocumentBytes
	}
	return Redactor{FieldBytes: fieldBytes, DocumentBytes: documentBytes}
}

// Document redacts a single document in place and returns it.
//
// Two passes, in this order: first every field over the field threshold is
// replaced, then, if the document as a whole still exceeds the document
// threshold, every remaining field over the size floor is replaced as well.
// The identity field is exempt only in the second pass. The order matters:
// collapsing the passes produces different results on boundary-sized
// documents.
func (r Redactor) Document(document bson.M) bson.M {
	id := document[idField]

	for attribute, value := range document {
		if isStub(value) {
			continue
		}
		size := EstimateByteSize(value)
		if size > r.FieldBytes {
			document[attribute] = r.stub(attribute, value, size, r.FieldBytes, id)
		}
	}

	if EstimateByteSize(document) <= r.DocumentBytes {
		return document
	}

	for attribute, value := range document {
		if attribute == idField || isStub(value) {
			continue
		}
		size := EstimateByteSize(value)
		if size > sizeFloor {
			document[attribute] = r.stub(attribute, value, size, r.DocumentBytes, id)
		}
	}

	return document
}

// Documents redacts every document of a page.
func (r Redactor) Documents(documents []bson.M) []bson.M {
	for i, document := range documents {
		documents[i] = r.Document(document)
	}
	return documents
}

func (r Redactor) stub(attribute string, value interface{}, size int, threshold int, id interface{}) Field {
	preview := serialize(value)
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}

	return Field{
		Attribute:  attribute,
		Label:      Label,
		Size:       humanize.Bytes(uint64(size)),
		Threshold:  humanize.Bytes(uint64(threshold)),
		Preview:    preview,
		RawSize:    size,
		DocumentId: id,
	}
}

func isStub(value interface{}) bool {
	switch typed := value.(type) {
	case Field:
		return true
	case bson.M:
		label, ok := typed["label"].(string)
		return ok && label == Label
	case bson.D:
		for _, element := range typed {
			if element.Key == "label" {
				label, ok := element.Value.(string)
				return ok && label == Label
			}
		}
	}
	return false
}

// EstimateByteSize reports the approximate serialized size of a value in
// bytes. Serialization uses extended JSON, the same representation the
// response is built from.
func EstimateByteSize(value interface{}) int {
	return len(serialize(value))
}

const wrapperOverhead = len(`{"value":}`)

func serialize(value interface{}) string {
	// MarshalExtJSON needs a document at the top level, so scalar values are
	// wrapped and the wrapper stripped from the measurement.
	switch value.(type) {
	case bson.M, bson.D:
		out, err := bson.MarshalExtJSON(value, false, false)
		if err != nil {
			return ""
		}
		return string(out)
	}

	out, err := bson.MarshalExtJSON(bson.D{{Key: "value", Value: value}}, false, false)
	if err != nil {
		return ""
	}
	serialized := string(out)
	if len(serialized) < wrapperOverhead {
		return ""
	}
	return serialized[len(`{"value":`) : len(serialized)-1]
}
