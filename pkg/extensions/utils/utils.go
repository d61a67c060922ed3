// Package utils provides print and a few general helpers.
package utils

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/leapstack-labs/vela/pkg/interp"
)

func init() {
	extensions.Register("utils", "print, uuid, len, typeof, keys", func(opts extensions.Options) (interp.Extension, error) {
		return New(opts.Stdout), nil
	})
}

// Extension implements interp.Extension.
type Extension struct {
	out io.Writer
}

// New creates a utils extension that prints to out.
func New(out io.Writer) *Extension {
	return &Extension{out: out}
}

// Name implements interp.Extension.
func (e *Extension) Name() string { return "utils" }

// Register implements interp.Extension.
func (e *Extension) Register(globals *interp.Scope) error {
	fns := map[string]interp.NativeFn{
		"print":  e.print,
		"uuid":   newUUID,
		"len":    length,
		"typeof": typeOf,
		"keys":   keys,
	}
	return interp.Funcs{ExtName: e.Name(), Fns: fns}.Register(globals)
}

// print writes its arguments separated by spaces. Arrays and objects are
// rendered as indented JSON.
func (e *Extension) print(_ context.Context, args []interp.Value) (interp.Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Format(arg)
	}
	if _, err := fmt.Fprintln(e.out, strings.Join(parts, " ")); err != nil {
		return nil, err
	}
	return nil, nil
}

// Format renders one print argument.
func Format(v interp.Value) string {
	switch v.(type) {
	case *interp.Array, *interp.Object:
		s, err := interp.ToJSON(v, "  ")
		if err != nil {
			return interp.Inspect(v)
		}
		return s
	}
	return interp.ToString(v)
}

func newUUID(context.Context, []interp.Value) (interp.Value, error) {
	return uuid.NewString(), nil
}

func length(_ context.Context, args []interp.Value) (interp.Value, error) {
	switch v := interp.Arg(args, 0).(type) {
	case string:
		return float64(utf8.RuneCountInString(v)), nil
	case *interp.Array:
		return float64(len(v.Elems)), nil
	case *interp.Object:
		return float64(v.Len()), nil
	default:
		return nil, interp.Errorf(interp.TypeError, "len: expected string, array or object, got %s", interp.TypeName(v))
	}
}

func typeOf(_ context.Context, args []interp.Value) (interp.Value, error) {
	return interp.TypeName(interp.Arg(args, 0)), nil
}

func keys(_ context.Context, args []interp.Value) (interp.Value, error) {
	obj, ok := interp.Arg(args, 0).(*interp.Object)
	if !ok {
		return nil, interp.Errorf(interp.TypeError, "keys: expected object, got %s", interp.TypeName(interp.Arg(args, 0)))
	}
	out := interp.NewArray()
	for _, k := range obj.Keys() {
		out.Elems = append(out.Elems, k)
	}
	return out, nil
}
