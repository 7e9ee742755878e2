package node

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a Node operation can report. The set is closed;
// callers branch on it with errors.Is(err, node.AlreadyExists) or KindOf.
type Kind uint8

const (
	// Unknown is reported by KindOf for errors that did not come from this package.
	Unknown Kind = iota
	NotFound
	AlreadyExists
	// TypeMismatch means a file was found where a directory was expected, or the reverse.
	TypeMismatch
	// ParseError means numeric or boolean content could not be decoded.
	ParseError
	InvalidInput
	IOFailure
)

var kindNames = [...]string{
	Unknown:       "unknown",
	NotFound:      "not found",
	AlreadyExists: "already exists",
	TypeMismatch:  "type mismatch",
	ParseError:    "parse error",
	InvalidInput:  "invalid input",
	IOFailure:     "io failure",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error lets a Kind be used directly as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Error is the error type returned by every Node operation.
type Error struct {
	Op   string // operation, e.g. "read", "rename"
	Path string // path the operation acted on
	Kind Kind
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the Kind carried by err, Unknown if err is not a node error,
// or 0 (Unknown) for a nil error.
func KindOf(err error) Kind {
	var nerr *Error
	if errors.As(err, &nerr) {
		return nerr.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return Unknown
}

func newError(op, path string, kind Kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}
