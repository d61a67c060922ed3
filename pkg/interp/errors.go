package interp

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/vela/pkg/token"
)

// ErrorKind classifies a runtime failure.
type ErrorKind int

// Runtime error kinds.
const (
	ResolutionError ErrorKind = iota + 1 // undefined, redefined or constant names
	TypeError                            // operation applied to the wrong kind of value
	StructuralError                      // unknown AST node reached the evaluator
	NativeError                          // an extension function failed
	LimitError                           // call depth exceeded
)

var errorKindNames = map[ErrorKind]string{
	ResolutionError: "ResolutionError",
	TypeError:       "TypeError",
	StructuralError: "StructuralError",
	NativeError:     "NativeError",
	LimitError:      "LimitError",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ErrAlreadyRun is returned when an extension is registered after evaluation
// has started.
var ErrAlreadyRun = errors.New("interp: extensions must be registered before Run")

// Error is a runtime evaluation error.
type Error struct {
	Kind    ErrorKind
	Pos     token.Position // zero when raised outside evaluation, e.g. by Scope
	Message string
	Cause   error // underlying native error, if any
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s at line %d, column %d: %s", e.Kind, e.Pos.Line, e.Pos.Column, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Position returns where evaluation failed.
func (e *Error) Position() token.Position { return e.Pos }

func newError(kind ErrorKind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds a position-less runtime error. Native functions use it to
// report argument problems; the interpreter fills in the call position.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return newError(kind, token.Position{}, format, args...)
}

// IsKind reports whether err is a runtime *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// at stamps pos on a runtime error that has none yet.
func at(err error, pos token.Position) error {
	var e *Error
	if errors.As(err, &e) && !e.Pos.IsValid() {
		e.Pos = pos
	}
	return err
}

// Common error messages
const (
	errUndefined      = "undefined variable %q"
	errRedefined      = "variable %q is already defined in this scope"
	errConstant       = "cannot assign to constant %q"
	errNotFunction    = "%s is not a function"
	errIndexType      = "array index must be a number, got %s"
	errKeyType        = "object key must be a string, got %s"
	errNoMembers      = "cannot access member of %s"
	errOperands       = "operator %s cannot be applied to %s and %s"
	errUnknownOp      = "unknown binary operator %q"
	errUnknownNode    = "unknown node type %T"
	errNativeFailed   = "native function %s failed"
	errCallDepth      = "maximum call depth of %d exceeded"
	errRegisterFailed = "register extension %s: %w"
)
