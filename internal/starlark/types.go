// Package starlark embeds Starlark so scripts can hand expressions and small
// programs to a second, sandboxed language and get plain values back.
package starlark

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/leapstack-labs/vela/pkg/interp"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// ToStarlark converts a runtime value to a Starlark value. Integral numbers
// become Ints so they can drive range() and indexing.
func ToStarlark(v interp.Value) (starlark.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlark.None, nil

	case bool:
		return starlark.Bool(val), nil

	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return starlark.MakeInt64(int64(val)), nil
		}
		return starlark.Float(val), nil

	case string:
		return starlark.String(val), nil

	case *interp.Array:
		list := make([]starlark.Value, len(val.Elems))
		for i, item := range val.Elems {
			sv, err := ToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil

	case *interp.Object:
		dict := starlark.NewDict(val.Len())
		for _, k := range val.Keys() {
			item, _ := val.Get(k)
			sv, err := ToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, fmt.Errorf("dict setkey %q: %w", k, err)
			}
		}
		return dict, nil

	case *interp.NativeFunc:
		return starlark.NewBuiltin(val.Name, wrapNative(val)), nil

	default:
		return nil, fmt.Errorf("unsupported type: %s", interp.TypeName(v))
	}
}

// FromStarlark converts a Starlark value back to a runtime value. Dicts keep
// insertion order; struct fields come back sorted by name.
func FromStarlark(v starlark.Value) (interp.Value, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil

	case starlark.Bool:
		return bool(val), nil

	case starlark.Int:
		return float64(val.Float()), nil

	case starlark.Float:
		return float64(val), nil

	case starlark.String:
		return string(val), nil

	case starlark.Indexable: // list, tuple, range
		arr := &interp.Array{Elems: make([]interp.Value, val.Len())}
		for i := 0; i < val.Len(); i++ {
			gv, err := FromStarlark(val.Index(i))
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr.Elems[i] = gv
		}
		return arr, nil

	case *starlark.Dict:
		obj := interp.NewObject()
		for _, item := range val.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string, got %s", item[0].Type())
			}
			gv, err := FromStarlark(item[1])
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", key, err)
			}
			obj.Set(string(key), gv)
		}
		return obj, nil

	case *starlarkstruct.Struct:
		names := val.AttrNames()
		sort.Strings(names)
		obj := interp.NewObject()
		for _, name := range names {
			field, err := val.Attr(name)
			if err != nil {
				return nil, err
			}
			gv, err := FromStarlark(field)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			obj.Set(name, gv)
		}
		return obj, nil

	case *starlark.Set:
		arr := interp.NewArray()
		iter := val.Iterate()
		defer iter.Done()
		var x starlark.Value
		for iter.Next(&x) {
			gv, err := FromStarlark(x)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, gv)
		}
		return arr, nil
	}

	// Anything else (functions, time values) comes back as its string form.
	return v.String(), nil
}

// wrapNative exposes a native function to Starlark. The calling context is
// read from the thread so cancellation reaches the Go side.
func wrapNative(fn *interp.NativeFunc) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
		}
		ctx, ok := thread.Local(contextKey).(context.Context)
		if !ok {
			ctx = context.Background()
		}
		in := make([]interp.Value, len(args))
		for i, a := range args {
			gv, err := FromStarlark(a)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", b.Name(), i+1, err)
			}
			in[i] = gv
		}
		out, err := fn.Fn(ctx, in)
		if err != nil {
			return nil, err
		}
		return ToStarlark(out)
	}
}
