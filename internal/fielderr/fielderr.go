// Package fielderr defines the error taxonomy shared by the registry,
// dispatcher and table writer: a small closed set of error kinds that the
// command dispatcher maps onto client-visible "ERR <message>" replies or,
// for IoError, connection teardown.
package fielderr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Parse Kind = iota
	Lookup
	Range
	State
	Hardware
	Io
	Internal
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "parse"
	case Lookup:
		return "lookup"
	case Range:
		return "range"
	case State:
		return "state"
	case Hardware:
		return "hardware"
	case Io:
		return "io"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error wraps a message with a Kind so callers can classify it with
// errors.As without string matching.
type Error struct {
	Kind Kind
	Msg  string
	err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.err }

func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(k Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), err: err}
}

func Is(err error, k Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == k
	}
	return false
}

func Parsef(format string, args ...interface{}) *Error   { return New(Parse, format, args...) }
func Lookupf(format string, args ...interface{}) *Error  { return New(Lookup, format, args...) }
func Rangef(format string, args ...interface{}) *Error   { return New(Range, format, args...) }
func Statef(format string, args ...interface{}) *Error   { return New(State, format, args...) }
func Hardwaref(format string, args ...interface{}) *Error { return New(Hardware, format, args...) }
func Internalf(format string, args ...interface{}) *Error { return New(Internal, format, args...) }
