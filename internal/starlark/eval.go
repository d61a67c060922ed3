package starlark

import (
	"context"
	"fmt"
	"io"
	"maps"

	"github.com/leapstack-labs/vela/pkg/interp"
	starjson "go.starlark.net/lib/json"
	starmath "go.starlark.net/lib/math"
	startime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// DefaultMaxSteps bounds a single evaluation so runaway loops terminate.
const DefaultMaxSteps = 10_000_000

// Evaluator runs Starlark source against a fixed set of predeclared modules.
// It is safe for concurrent use.
type Evaluator struct {
	pool        *ThreadPool
	predeclared starlark.StringDict
	out         io.Writer
	maxSteps    uint64
}

// NewEvaluator creates an evaluator. Output from Starlark's print goes to out,
// one line per call; a nil out discards it.
func NewEvaluator(out io.Writer, maxSteps uint64) *Evaluator {
	if out == nil {
		out = io.Discard
	}
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Evaluator{
		pool:        NewThreadPool(0),
		predeclared: Predeclared(),
		out:         out,
		maxSteps:    maxSteps,
	}
}

// Predeclared returns the modules every evaluation can reference:
// json, math, time and struct.
func Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"json":   starjson.Module,
		"math":   starmath.Module,
		"time":   startime.Module,
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
}

// Eval evaluates a single expression. Bindings become variables visible to
// the expression.
func (e *Evaluator) Eval(ctx context.Context, name, expr string, bindings *interp.Object) (interp.Value, error) {
	var result interp.Value
	err := e.withThread(ctx, name, bindings, func(thread *starlark.Thread, env starlark.StringDict) error {
		v, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, name, expr, env)
		if err != nil {
			return err
		}
		result, err = FromStarlark(v)
		return err
	})
	return result, err
}

// Exec runs a Starlark program and returns its top-level globals as an object
// with keys sorted by name. Names starting with an underscore are omitted.
func (e *Evaluator) Exec(ctx context.Context, name, src string, bindings *interp.Object) (*interp.Object, error) {
	out := interp.NewObject()
	err := e.withThread(ctx, name, bindings, func(thread *starlark.Thread, env starlark.StringDict) error {
		globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, name, src, env)
		if err != nil {
			return err
		}
		for _, k := range globals.Keys() {
			if k[0] == '_' {
				continue
			}
			v, err := FromStarlark(globals[k])
			if err != nil {
				return fmt.Errorf("global %q: %w", k, err)
			}
			out.Set(k, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Evaluator) withThread(ctx context.Context, name string, bindings *interp.Object, fn func(*starlark.Thread, starlark.StringDict) error) error {
	env := maps.Clone(e.predeclared)
	if bindings != nil {
		for _, k := range bindings.Keys() {
			v, _ := bindings.Get(k)
			sv, err := ToStarlark(v)
			if err != nil {
				return fmt.Errorf("binding %q: %w", k, err)
			}
			env[k] = sv
		}
	}

	thread := e.pool.Get(name)
	thread.Print = func(_ *starlark.Thread, msg string) {
		_, _ = fmt.Fprintln(e.out, msg)
	}
	thread.SetLocal(contextKey, ctx)
	thread.SetMaxExecutionSteps(thread.ExecutionSteps() + e.maxSteps)

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	err := fn(thread, env)
	// A thread stopped by the step limit stays cancelled, so only clean
	// runs are recycled.
	if stop() && err == nil {
		e.pool.Put(thread)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
