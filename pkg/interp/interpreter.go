// Package interp evaluates vela programs by walking the AST produced by
// package parser.
//
// An Interpreter owns one global Scope. Extensions install native functions
// into it before the first Run; after that the scope only changes through
// script definitions and assignments. Evaluation is single threaded, and an
// Interpreter must not be shared between goroutines.
//
//	it, err := interp.New(interp.WithExtensions(utils.New(os.Stdout)))
//	if err != nil { ... }
//	err = it.Run(ctx, prog)
package interp

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/vela/pkg/parser"
)

// DefaultMaxCallDepth bounds nested function calls unless overridden.
const DefaultMaxCallDepth = 512

// Interpreter evaluates programs against a persistent global scope.
type Interpreter struct {
	globals      *Scope
	logger       *slog.Logger
	maxCallDepth int
	extensions   []Extension

	depth   int
	started bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMaxCallDepth limits nested function calls. Zero disables the limit.
func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) {
		i.maxCallDepth = n
	}
}

// WithExtensions registers exts, in order, when the interpreter is built.
func WithExtensions(exts ...Extension) Option {
	return func(i *Interpreter) {
		i.extensions = append(i.extensions, exts...)
	}
}

// New creates an interpreter with an empty global scope and registers any
// extensions passed through WithExtensions.
func New(opts ...Option) (*Interpreter, error) {
	i := &Interpreter{
		globals:      NewScope(nil),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}

	exts := i.extensions
	i.extensions = nil
	for _, ext := range exts {
		if err := i.RegisterExtension(ext); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Globals returns the global scope.
func (i *Interpreter) Globals() *Scope { return i.globals }

// Extensions returns the registered extensions in registration order.
func (i *Interpreter) Extensions() []Extension { return i.extensions }

// Run evaluates prog in the global scope. It may be called again with
// another program; bindings from earlier runs stay visible. A top-level
// return stops the program without error.
func (i *Interpreter) Run(ctx context.Context, prog *parser.Program) error {
	if prog == nil {
		return fmt.Errorf("interp: nil program")
	}
	i.started = true
	i.depth = 0

	i.logger.Debug("run started", slog.Int("statements", len(prog.Statements)))
	if _, _, err := i.execBlock(ctx, prog.Statements, i.globals); err != nil {
		i.logger.Debug("run failed", slog.String("error", err.Error()))
		return err
	}
	i.logger.Debug("run finished")
	return nil
}

// Call invokes a callable value with args. Extensions use it to call back
// into script functions.
func (i *Interpreter) Call(ctx context.Context, fn Value, args ...Value) (Value, error) {
	return i.call(ctx, fn, args, "value")
}
