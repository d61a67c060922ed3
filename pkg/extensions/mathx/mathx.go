// Package mathx provides arithmetic helpers and random numbers.
package mathx

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/leapstack-labs/vela/pkg/interp"
)

func init() {
	extensions.Register("math", "sum, sub, random, randomBetween, floor, round", func(extensions.Options) (interp.Extension, error) {
		return New(nil), nil
	})
}

// Extension implements interp.Extension.
type Extension struct {
	rnd func() float64
}

// New creates a math extension. rnd returns values in [0, 1); nil uses the
// global generator.
func New(rnd func() float64) *Extension {
	if rnd == nil {
		rnd = rand.Float64
	}
	return &Extension{rnd: rnd}
}

// Name implements interp.Extension.
func (e *Extension) Name() string { return "math" }

// Register implements interp.Extension.
func (e *Extension) Register(globals *interp.Scope) error {
	return interp.Funcs{ExtName: e.Name(), Fns: map[string]interp.NativeFn{
		"sum":           binary("sum", func(a, b float64) float64 { return a + b }),
		"sub":           binary("sub", func(a, b float64) float64 { return a - b }),
		"floor":         unary("floor", math.Floor),
		"round":         unary("round", math.Round),
		"random":        e.random,
		"randomBetween": e.randomBetween,
	}}.Register(globals)
}

func (e *Extension) random(context.Context, []interp.Value) (interp.Value, error) {
	return e.rnd(), nil
}

// randomBetween returns an integer in [min, max].
func (e *Extension) randomBetween(_ context.Context, args []interp.Value) (interp.Value, error) {
	lo, err := interp.NumberArg("randomBetween", args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := interp.NumberArg("randomBetween", args, 1)
	if err != nil {
		return nil, err
	}
	return math.Floor(e.rnd()*(hi-lo+1)) + lo, nil
}

func binary(name string, op func(a, b float64) float64) interp.NativeFn {
	return func(_ context.Context, args []interp.Value) (interp.Value, error) {
		a, err := interp.NumberArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := interp.NumberArg(name, args, 1)
		if err != nil {
			return nil, err
		}
		return op(a, b), nil
	}
}

func unary(name string, op func(float64) float64) interp.NativeFn {
	return func(_ context.Context, args []interp.Value) (interp.Value, error) {
		a, err := interp.NumberArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return op(a), nil
	}
}
