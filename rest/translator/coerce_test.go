package translator

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	e "github.com/mongohouse/mongo-data-apis/rest/errors"
)

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("bad test fixture %q: %v", hex, err)
	}
	return id
}

func TestCoerceValue(t *testing.T) {
	type args struct {
		typeTag string
		raw     string
	}
	tests := []struct {
		name     string
		args     args
		want     interface{}
		wantErr  bool
		wantKind e.Kind
	}{
		{
			name:    "String",
			args:    args{typeTag: TypeString, raw: "hello"},
			want:    "hello",
			wantErr: false,
		}, {
			name:    "Empty tag defaults to string",
			args:    args{typeTag: "", raw: "42"},
			want:    "42",
			wantErr: false,
		}, {
			name:    "String passes JSON-looking text through untouched",
			args:    args{typeTag: TypeString, raw: `{"$gt": 1}`},
			want:    `{"$gt": 1}`,
			wantErr: false,
		}, {
			name:    "Number",
			args:    args{typeTag: TypeNumber, raw: "3.25"},
			want:    3.25,
			wantErr: false,
		}, {
			name:    "Negative number",
			args:    args{typeTag: TypeNumber, raw: "-17"},
			want:    -17.0,
			wantErr: false,
		}, {
			name:     "Number rejects text",
			args:     args{typeTag: TypeNumber, raw: "twelve"},
			wantErr:  true,
			wantKind: e.InvalidLiteral,
		}, {
			name:     "Number rejects NaN",
			args:     args{typeTag: TypeNumber, raw: "NaN"},
			wantErr:  true,
			wantKind: e.InvalidLiteral,
		}, {
			name:     "Number rejects Inf",
			args:     args{typeTag: TypeNumber, raw: "+Inf"},
			wantErr:  true,
			wantKind: e.InvalidLiteral,
		}, {
			name:    "JSON document",
			args:    args{typeTag: TypeJSON, raw: `{"a": 1}`},
			want:    bson.D{{Key: "a", Value: int32(1)}},
			wantErr: false,
		}, {
			name:    "JSON scalar",
			args:    args{typeTag: TypeJSON, raw: "true"},
			want:    true,
			wantErr: false,
		}, {
			name:     "JSON rejects malformed text",
			args:     args{typeTag: TypeJSON, raw: `{"a": `},
			wantErr:  true,
			wantKind: e.InvalidLiteral,
		}, {
			name:    "ObjectID",
			args:    args{typeTag: TypeObjectID, raw: "5f2a6c3e9d1b2a0001c0ffee"},
			wantErr: false,
		}, {
			name:     "ObjectID rejects short hex",
			args:     args{typeTag: TypeObjectID, raw: "5f2a6c"},
			wantErr:  true,
			wantKind: e.InvalidIdentifier,
		}, {
			name:     "ObjectID rejects non-hex",
			args:     args{typeTag: TypeObjectID, raw: "zzzzzzzzzzzzzzzzzzzzzzzz"},
			wantErr:  true,
			wantKind: e.InvalidIdentifier,
		}, {
			name:    "Regex is case-insensitive",
			args:    args{typeTag: TypeRegex, raw: "^jo.*"},
			want:    primitive.Regex{Pattern: "^jo.*", Options: "i"},
			wantErr: false,
		}, {
			name:     "Regex rejects bad pattern",
			args:     args{typeTag: TypeRegex, raw: "(unclosed"},
			wantErr:  true,
			wantKind: e.InvalidPattern,
		}, {
			name:    "UUID canonical form",
			args:    args{typeTag: TypeUUID, raw: "8be6d514-3436-4e04-a5fc-0ffbefa4c1fe"},
			wantErr: false,
		}, {
			name:    "UUID bare hex",
			args:    args{typeTag: TypeUUID, raw: "8be6d51434364e04a5fc0ffbefa4c1fe"},
			wantErr: false,
		}, {
			name:     "UUID rejects non-hex",
			args:     args{typeTag: TypeUUID, raw: "not-a-uuid"},
			wantErr:  true,
			wantKind: e.InvalidBinary,
		}, {
			name:     "Unknown tag",
			args:     args{typeTag: "X", raw: "anything"},
			wantErr:  true,
			wantKind: e.UnsupportedType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceValue(tt.args.typeTag, tt.args.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("CoerceValue() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !e.IsKind(err, tt.wantKind) {
					t.Errorf("CoerceValue() kind = %v, want %v", e.KindOf(err), tt.wantKind)
				}
				return
			}
			if tt.want != nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CoerceValue() got = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCoerceValueObjectIDRoundTrip(t *testing.T) {
	hex := "5f2a6c3e9d1b2a0001c0ffee"
	got, err := CoerceValue(TypeObjectID, hex)
	if err != nil {
		t.Fatalf("CoerceValue() error = %v", err)
	}
	id, ok := got.(primitive.ObjectID)
	if !ok {
		t.Fatalf("CoerceValue() got %T, want primitive.ObjectID", got)
	}
	if id.Hex() != hex {
		t.Errorf("round trip lost information: got %s, want %s", id.Hex(), hex)
	}
	if id != mustObjectID(t, hex) {
		t.Errorf("CoerceValue() got %v, want %v", id, mustObjectID(t, hex))
	}
}

func TestCoerceValueUUIDSubtype(t *testing.T) {
	got, err := CoerceValue(TypeUUID, "8be6d514-3436-4e04-a5fc-0ffbefa4c1fe")
	if err != nil {
		t.Fatalf("CoerceValue() error = %v", err)
	}
	binary, ok := got.(primitive.Binary)
	if !ok {
		t.Fatalf("CoerceValue() got %T, want primitive.Binary", got)
	}
	if binary.Subtype != 0x04 {
		t.Errorf("binary subtype = %#x, want 0x04", binary.Subtype)
	}
	if len(binary.Data) != 16 {
		t.Errorf("binary length = %d, want 16", len(binary.Data))
	}

	// Hyphens must not affect the decoded bytes.
	stripped, err := CoerceValue(TypeUUID, "8be6d51434364e04a5fc0ffbefa4c1fe")
	if err != nil {
		t.Fatalf("CoerceValue() error = %v", err)
	}
	if !reflect.DeepEqual(got, stripped) {
		t.Errorf("hyphenated and bare forms differ: %v vs %v", got, stripped)
	}
}

func TestEvaluateSafeExpression(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   interface{}
		wantOk bool
	}{
		{
			name:   "Document keeps key order",
			text:   `{"b": 1, "a": 2}`,
			want:   bson.D{{Key: "b", Value: int32(1)}, {Key: "a", Value: int32(2)}},
			wantOk: true,
		}, {
			name:   "Array",
			text:   `[1, 2]`,
			want:   bson.A{int32(1), int32(2)},
			wantOk: true,
		}, {
			name:   "Scalar",
			text:   `"text"`,
			want:   "text",
			wantOk: true,
		}, {
			name:   "Extended JSON literal",
			text:   `{"_id": {"$oid": "5f2a6c3e9d1b2a0001c0ffee"}}`,
			wantOk: true,
		}, {
			name:   "Surrounding whitespace",
			text:   "  {\"a\": 1}\n",
			want:   bson.D{{Key: "a", Value: int32(1)}},
			wantOk: true,
		}, {
			name:   "Empty",
			text:   "",
			wantOk: false,
		}, {
			name:   "Malformed",
			text:   `{invalid`,
			wantOk: false,
		}, {
			name:   "Trailing garbage",
			text:   `{"a": 1} , "b": 2`,
			wantOk: false,
		}, {
			name:   "Function call shape",
			text:   `db.dropDatabase()`,
			wantOk: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EvaluateSafeExpression(tt.text)
			if ok != tt.wantOk {
				t.Errorf("EvaluateSafeExpression() ok = %v, want %v", ok, tt.wantOk)
				return
			}
			if tt.want != nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EvaluateSafeExpression() got = %#v, want %#v", got, tt.want)
			}
		})
	}
}
