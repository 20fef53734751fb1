package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a request failure. Build-time kinds are detected before
// any store access; store-time kinds surface after the plan was handed to
// the backend.
type Kind int

const (
	InvalidLiteral Kind = iota
	InvalidIdentifier
	InvalidPattern
	InvalidBinary
	UnsupportedType
	InvalidQuery
	InvalidSort
	QueryExecutionError
	StoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case InvalidLiteral:
		return "InvalidLiteral"
	case InvalidIdentifier:
		return "InvalidIdentifier"
	case InvalidPattern:
		return "InvalidPattern"
	case InvalidBinary:
		return "InvalidBinary"
	case UnsupportedType:
		return "UnsupportedType"
	case InvalidQuery:
		return "InvalidQuery"
	case InvalidSort:
		return "InvalidSort"
	case QueryExecutionError:
		return "QueryExecutionError"
	case StoreUnavailable:
		return "StoreUnavailable"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// BuildTime reports whether the kind belongs to the pre-store validation class.
func (k Kind) BuildTime() bool {
	return k != QueryExecutionError && k != StoreUnavailable
}

type RequestError struct {
	kind Kind
	msg  string
}

func (e *RequestError) Error() string {
	return e.msg
}

func (e *RequestError) Kind() Kind {
	return e.kind
}

func NewRequestError(kind Kind, format string, args ...interface{}) *RequestError {
	return &RequestError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from an error chain. Errors that did not
// originate in this package report as QueryExecutionError: by that point the
// request already reached the store.
func KindOf(err error) Kind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind()
	}
	return QueryExecutionError
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind() == kind
}
