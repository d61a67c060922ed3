// Package starlarkx lets scripts evaluate Starlark expressions and programs.
package starlarkx

import (
	"context"
	"io"

	"github.com/leapstack-labs/vela/internal/starlark"
	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/leapstack-labs/vela/pkg/interp"
)

func init() {
	extensions.Register("starlark", "starlark, starlark_exec", func(opts extensions.Options) (interp.Extension, error) {
		return New(opts.Stdout), nil
	})
}

// Extension implements interp.Extension.
type Extension struct {
	ev *starlark.Evaluator
}

// New creates a starlark extension. Starlark print output goes to out.
func New(out io.Writer) *Extension {
	return &Extension{ev: starlark.NewEvaluator(out, 0)}
}

// Name implements interp.Extension.
func (e *Extension) Name() string { return "starlark" }

// Register implements interp.Extension.
func (e *Extension) Register(globals *interp.Scope) error {
	return interp.Funcs{ExtName: e.Name(), Fns: map[string]interp.NativeFn{
		"starlark":      e.eval,
		"starlark_exec": e.exec,
	}}.Register(globals)
}

// eval implements starlark(expr, bindings?).
func (e *Extension) eval(ctx context.Context, args []interp.Value) (interp.Value, error) {
	expr, bindings, err := sourceArgs("starlark", args)
	if err != nil {
		return nil, err
	}
	return e.ev.Eval(ctx, "<starlark>", expr, bindings)
}

// exec implements starlark_exec(src, bindings?) and returns the program's
// globals.
func (e *Extension) exec(ctx context.Context, args []interp.Value) (interp.Value, error) {
	src, bindings, err := sourceArgs("starlark_exec", args)
	if err != nil {
		return nil, err
	}
	return e.ev.Exec(ctx, "<starlark_exec>", src, bindings)
}

func sourceArgs(fn string, args []interp.Value) (string, *interp.Object, error) {
	src, err := interp.StringArg(fn, args, 0)
	if err != nil {
		return "", nil, err
	}
	switch b := interp.Arg(args, 1).(type) {
	case nil:
		return src, nil, nil
	case *interp.Object:
		return src, b, nil
	default:
		return "", nil, interp.Errorf(interp.TypeError, "%s: argument 2 must be an object, got %s", fn, interp.TypeName(b))
	}
}
