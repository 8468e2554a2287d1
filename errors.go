package fstruct

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them; schema failures arrive
// wrapped in a *SchemaError.
var (
	ErrMalformedSchema  = errors.New("malformed schema")
	ErrUnresolvedStruct = errors.New("unresolved sub-structure reference")
	ErrSizeMismatch     = errors.New("size mismatch")
	ErrTruncated        = errors.New("truncated input")
	ErrUnknownField     = errors.New("unknown field")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrUnknownType      = errors.New("unknown structure type")
)

// SchemaError reports where resolving a structure's schema failed.
type SchemaError struct {
	Type   string // structure whose schema was being resolved
	Field  string // offending field path, if any
	Pos    int    // byte position in the schema text, -1 when not applicable
	Detail string
	Err    error // ErrMalformedSchema, ErrUnresolvedStruct or ErrSizeMismatch
}

func (e *SchemaError) Error() string {
	msg := e.Err.Error()
	if e.Type != "" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %s)", msg, e.Field)
	}
	if e.Pos >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Pos)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func sizeErr(what string, got, want int) error {
	return fmt.Errorf("%w: %s is %d bytes, want %d", ErrSizeMismatch, what, got, want)
}
