// Package pqe provides a mechanism to create or wrap errors with a Kind
// that classifies the failure for callers and for the command-line tools.
// No kind is recoverable: every error produced by the conversion pipeline
// aborts the run.
package pqe

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
)

// A Kind represents a class of error.
type Kind int

const (
	Other Kind = iota
	// Decode means the raw bytes of an archive block are not a
	// well-formed structured value.
	Decode
	// Mismatch means a record did not have the structure of the shape
	// it was grouped under, or a column path has an unknown root.
	Mismatch
	// BadType means a value's dynamic type disagrees with the
	// physical type of the column it is being written to.
	BadType
	// NotImplemented marks encodings with no columnar representation:
	// nested repetition, empty maps (a group needs at least one child),
	// and INT96 or fixed-length byte array columns.
	NotImplemented
	Invalid
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Decode:
		return "decode error"
	case Mismatch:
		return "shape mismatch"
	case BadType:
		return "bad type"
	case NotImplemented:
		return "not implemented"
	case Invalid:
		return "invalid operation"
	case NotFound:
		return "item does not exist"
	}
	return "unknown error kind"
}

type Error struct {
	Kind Kind
	Err  error
}

func pad(b *bytes.Buffer, s string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(s)
}

func (e *Error) Error() string {
	b := &bytes.Buffer{}
	if e.Kind != Other {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		pad(b, ": ")
		b.WriteString(e.Err.Error())
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Function E generates an error from any mix of:
// - a Kind
// - an existing error
// - a string and optional formatting verbs, like fmt.Errorf (including support
//	for the `%w` verb).
//
// The string & format verbs must be last in the arguments, if present.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("no args to pqe.E")
	}
	e := &Error{}
	for i, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case error:
			e.Err = arg
		case string:
			e.Err = fmt.Errorf(arg, args[i+1:]...)
			return e
		default:
			_, file, line, _ := runtime.Caller(1)
			return fmt.Errorf("unknown type %T value %v in pqe.E call at %v:%v", arg, arg, file, line)
		}
	}
	return e
}

// IsKind reports whether any error in err's chain is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind == k {
			return true
		}
		err = e.Err
	}
	return false
}

func ErrNotFound(args ...interface{}) error {
	return E(append([]interface{}{NotFound}, args...)...)
}

func ErrInvalid(args ...interface{}) error {
	return E(append([]interface{}{Invalid}, args...)...)
}

func ErrNotImplemented(args ...interface{}) error {
	return E(append([]interface{}{NotImplemented}, args...)...)
}
