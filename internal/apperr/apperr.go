// Package apperr is the error taxonomy shared by every layer. Services and
// stores return these; the handler layer maps kind to HTTP status exactly once.
package apperr

import "errors"

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindValidation Kind = iota + 1 // caller sent something unacceptable
	KindAuth                       // missing or bad credentials/token
	KindForbidden                  // authenticated but not allowed
	KindNotFound                   // target does not exist
	KindStorage                    // the document could not be read or written
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func Validation(msg string) error { return &Error{kind: KindValidation, msg: msg} }
func Auth(msg string) error       { return &Error{kind: KindAuth, msg: msg} }
func Forbidden(msg string) error  { return &Error{kind: KindForbidden, msg: msg} }
func NotFound(msg string) error   { return &Error{kind: KindNotFound, msg: msg} }

// Storage wraps the underlying cause; the cause is logged, never sent to the
// caller.
func Storage(msg string, err error) error {
	return &Error{kind: KindStorage, msg: msg, err: err}
}

// KindOf classifies err, returning 0 for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}
