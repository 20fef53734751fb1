package translator

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	e "github.com/mongohouse/mongo-data-apis/rest/errors"
)

// Value type tags accepted from the request surface. The set is closed:
// anything else aborts the request before the store is touched.
const (
	TypeJSON     = "J"
	TypeNumber   = "N"
	TypeObjectID = "O"
	TypeRegex    = "R"
	TypeUUID     = "U"
	TypeString   = "S"
)

// uuidBinarySubtype is the BSON binary subtype for UUID values.
const uuidBinarySubtype = 0x04

// CoerceValue converts a raw request string into a typed store value
// according to the given type tag. An empty tag is treated as a plain
// string.
func CoerceValue(typeTag string, raw string) (interface{}, error) {
	switch typeTag {
	case TypeJSON:
		value, ok := EvaluateSafeExpression(raw)
		if !ok {
			return nil, e.NewRequestError(e.InvalidLiteral, "value is not valid JSON: %s", raw)
		}
		return value, nil

	case TypeNumber:
		number, err := strconv.ParseFloat(raw, 64)
		// ParseFloat accepts "NaN" and "Inf" spellings; neither is a usable
		// filter literal, they would match nothing and help nobody.
		if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
			return nil, e.NewRequestError(e.InvalidLiteral, "value is not a number: %s", raw)
		}
		return number, nil

	case TypeObjectID:
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, e.NewRequestError(e.InvalidIdentifier,
				"identifier must be a 24 character hex string, got %q", raw)
		}
		return id, nil

	case TypeRegex:
		if _, err := regexp.Compile(raw); err != nil {
			return nil, e.NewRequestError(e.InvalidPattern, "invalid pattern: %v", err)
		}
		return primitive.Regex{Pattern: raw, Options: "i"}, nil

	case TypeUUID:
		data, err := parseBinaryHex(raw)
		if err != nil {
			return nil, err
		}
		return primitive.Binary{Subtype: uuidBinarySubtype, Data: data}, nil

	case TypeString, "":
		return raw, nil
	}

	return nil, e.NewRequestError(e.UnsupportedType, "unsupported value type: %s", typeTag)
}

// parseBinaryHex interprets raw as a hyphen-stripped hex string, accepting
// both canonical UUIDs and bare hex.
func parseBinaryHex(raw string) ([]byte, error) {
	if parsed, err := uuid.Parse(raw); err == nil {
		return parsed[:], nil
	}

	stripped := strings.ReplaceAll(raw, "-", "")
	data, err := hex.DecodeString(stripped)
	if err != nil || len(data) == 0 {
		return nil, e.NewRequestError(e.InvalidBinary, "value is not a hex string: %s", raw)
	}
	return data, nil
}

// EvaluateSafeExpression parses text into a declarative store value. The
// grammar is extended JSON: documents, arrays and literals only, with no
// executable construct anywhere in it. This is the trust boundary for
// client-supplied query text.
func EvaluateSafeExpression(text string) (interface{}, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return nil, false
	}

	// Wrapping keeps document key order (bson.D) and makes scalar and array
	// expressions parse the same way as documents.
	var wrapper struct {
		Value interface{} `bson:"value"`
	}
	if err := bson.UnmarshalExtJSON([]byte(`{"value":`+trimmed+`}`), false, &wrapper); err != nil {
		return nil, false
	}
	return wrapper.Value, true
}
