// Package export serializes a full matching result set for download.
// Exports are unbounded and unredacted by design: pagination and redaction
// only apply to the browse path.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mongohouse/mongo-data-apis/config"
	"github.com/mongohouse/mongo-data-apis/db"
)

type Format string

const (
	FormatNDJSON Format = "ndjson"
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
)

func ParseFormat(raw string) (Format, error) {
	switch raw {
	case "", "json":
		return FormatJSON, nil
	case "ndjson":
		return FormatNDJSON, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", raw)
}

func (f Format) ContentType() string {
	switch f {
	case FormatNDJSON:
		return "application/x-ndjson"
	case FormatCSV:
		return "text/csv; charset=UTF-8"
	}
	return "application/json; charset=UTF-8"
}

func (f Format) Extension() string {
	switch f {
	case FormatNDJSON:
		return "ndjson"
	case FormatCSV:
		return "csv"
	}
	return "json"
}

// Exporter writes a cursor's documents to an output stream.
type Exporter struct {
	naming config.NamingConvention
}

func NewExporter(naming config.NamingConvention) *Exporter {
	if naming == nil {
		naming = config.NewIdentityNaming()
	}
	return &Exporter{naming: naming}
}

// Write drains the cursor into w in the given format. The cursor is closed
// on every path. NDJSON and the JSON array are streamed document by
// document; CSV has to buffer because the header is the union of keys.
func (e *Exporter) Write(ctx context.Context, w io.Writer, cursor db.Cursor, format Format) error {
	defer cursor.Close(ctx)

	switch format {
	case FormatNDJSON:
		return writeNDJSON(ctx, w, cursor)
	case FormatJSON:
		return writeJSONArray(ctx, w, cursor)
	case FormatCSV:
		return e.writeCSV(ctx, w, cursor)
	}
	return fmt.Errorf("unsupported export format: %s", format)
}

func writeNDJSON(ctx context.Context, w io.Writer, cursor db.Cursor) error {
	for cursor.Next(ctx) {
		line, err := marshalDocument(cursor)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func writeJSONArray(ctx context.Context, w io.Writer, cursor db.Cursor) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}

	first := true
	for cursor.Next(ctx) {
		item, err := marshalDocument(cursor)
		if err != nil {
			return err
		}
		if !first {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		first = false
		if _, err := w.Write(item); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "]")
	return err
}

func (e *Exporter) writeCSV(ctx context.Context, w io.Writer, cursor db.Cursor) error {
	var documents []bson.M
	for cursor.Next(ctx) {
		var document bson.M
		if err := cursor.Decode(&document); err != nil {
			return err
		}
		documents = append(documents, document)
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	columns := columnUnion(documents)

	writer := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, column := range columns {
		header[i] = e.naming.ToColumnHeader(column)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	row := make([]string, len(columns))
	for _, document := range documents {
		for i, column := range columns {
			row[i] = cell(document[column])
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// columnUnion returns the union of keys across documents, identity field
// first, the rest sorted.
func columnUnion(documents []bson.M) []string {
	seen := map[string]bool{}
	hasId := false
	var columns []string

	for _, document := range documents {
		for key := range document {
			if seen[key] {
				continue
			}
			seen[key] = true
			if key == "_id" {
				hasId = true
				continue
			}
			columns = append(columns, key)
		}
	}

	sort.Strings(columns)
	if hasId {
		columns = append([]string{"_id"}, columns...)
	}
	return columns
}

func cell(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case int32, int64, int, float64, bool:
		return fmt.Sprintf("%v", typed)
	}

	out, err := bson.MarshalExtJSON(bson.D{{Key: "value", Value: value}}, false, false)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	serialized := string(out)
	return serialized[len(`{"value":`) : len(serialized)-1]
}

func marshalDocument(cursor db.Cursor) ([]byte, error) {
	var document bson.M
	if err := cursor.Decode(&document); err != nil {
		return nil, err
	}
	return bson.MarshalExtJSON(document, false, false)
}
